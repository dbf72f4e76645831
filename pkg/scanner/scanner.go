package scanner

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// Scanner performs lexical analysis on Lox source code in a single pass.
type Scanner struct {
	src    string
	start  int // offset of the current lexeme
	offset int // offset of the next unread rune
	line   int

	report diag.Reporter
	errors int

	tokens []token.Token
	done   bool
}

// New creates a Scanner for src. Lexical errors go to report, which may be nil.
func New(src string, report diag.Reporter) *Scanner {
	return &Scanner{src: src, line: 1, report: report}
}

// Scan is a convenience wrapper returning the tokens and the number of
// lexical errors encountered.
func Scan(src string, report diag.Reporter) ([]token.Token, int) {
	s := New(src, report)
	tokens := s.ScanTokens()
	return tokens, s.ErrorCount()
}

// ErrorCount reports how many lexical errors were found.
func (s *Scanner) ErrorCount() int {
	return s.errors
}

// ScanTokens consumes the whole source. The result always ends with EOF.
// Scanning is not restartable; later calls return the same slice.
func (s *Scanner) ScanTokens() []token.Token {
	if s.done {
		return s.tokens
	}
	for !s.atEnd() {
		s.start = s.offset
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", s.line))
	s.done = true
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case ' ', '\t', '\r':
	case '\n':
		s.line++
	case '(':
		s.add(token.LeftParen)
	case ')':
		s.add(token.RightParen)
	case '{':
		s.add(token.LeftBrace)
	case '}':
		s.add(token.RightBrace)
	case ',':
		s.add(token.Comma)
	case '.':
		s.add(token.Dot)
	case ';':
		s.add(token.Semicolon)
	case '*':
		s.add(token.Star)
	case '-':
		s.add(s.choose('-', token.MinusMinus, token.Minus))
	case '+':
		s.add(s.choose('+', token.PlusPlus, token.Plus))
	case '!':
		s.add(s.choose('=', token.BangEqual, token.Bang))
	case '=':
		s.add(s.choose('=', token.EqualEqual, token.Equal))
	case '<':
		s.add(s.choose('=', token.LessEqual, token.Less))
	case '>':
		s.add(s.choose('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
			return
		}
		s.add(token.Slash)
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			s.error(fmt.Sprintf("Unexpected character '%c'.", c))
		}
	}
}

func (s *Scanner) scanString() {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.error("Unterminated string.")
		return
	}
	s.advance() // closing quote
	lexeme := s.src[s.start:s.offset]
	s.addLiteral(token.String, runtime.String(lexeme[1:len(lexeme)-1]))
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lexeme := s.src[s.start:s.offset]
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		s.error(fmt.Sprintf("Invalid number '%s'.", lexeme))
		return
	}
	s.addLiteral(token.Number, runtime.Number(val))
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.add(token.Lookup(s.src[s.start:s.offset]))
}

func (s *Scanner) add(kind token.Kind) {
	s.tokens = append(s.tokens, token.New(kind, s.src[s.start:s.offset], s.line))
}

func (s *Scanner) addLiteral(kind token.Kind, literal runtime.Value) {
	tok := token.New(kind, s.src[s.start:s.offset], s.line)
	tok.Literal = literal
	s.tokens = append(s.tokens, tok)
}

func (s *Scanner) error(msg string) {
	s.errors++
	s.report.Report(diag.Diagnostic{
		Phase:   diag.PhaseScan,
		Line:    s.line,
		Message: msg,
	})
}

// choose consumes next when it follows and returns matched, otherwise single.
func (s *Scanner) choose(next rune, matched, single token.Kind) token.Kind {
	if s.match(next) {
		return matched
	}
	return single
}

func (s *Scanner) atEnd() bool {
	return s.offset >= len(s.src)
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.offset:])
	s.offset += size
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.atEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

// peek returns the next rune without consuming it, or -1 at end of input.
func (s *Scanner) peek() rune {
	if s.atEnd() {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.offset:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.atEnd() {
		return -1
	}
	_, size := utf8.DecodeRuneInString(s.src[s.offset:])
	if s.offset+size >= len(s.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.offset+size:])
	return r
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
