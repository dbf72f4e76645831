package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func scanOK(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, errs := Scan(src, nil)
	require.Zero(t, errs, "unexpected lexical errors scanning %q", src)
	return tokens
}

func TestScanLeftParen(t *testing.T) {
	tokens := scanOK(t, "(")
	require.Equal(t, token.Token{Kind: token.LeftParen, Lexeme: "(", Line: 1}, tokens[0])
	require.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tokens := scanOK(t, `(){},.-+;/*=!!===>>=<<="hello"3.14`)
	require.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Slash, token.Star, token.Equal, token.Bang, token.BangEqual,
		token.EqualEqual, token.Greater, token.GreaterEqual, token.Less,
		token.LessEqual, token.String, token.Number, token.EOF,
	}, kinds(tokens))
}

func TestScanIncrementOperators(t *testing.T) {
	tokens := scanOK(t, "++a; b--; - -c;")
	require.Equal(t, []token.Kind{
		token.PlusPlus, token.Identifier, token.Semicolon,
		token.Identifier, token.MinusMinus, token.Semicolon,
		token.Minus, token.Minus, token.Identifier, token.Semicolon,
		token.EOF,
	}, kinds(tokens))
}

func TestScanKeywords(t *testing.T) {
	tokens := scanOK(t, "and class else false fun for if nil or print return super this true var while")
	require.Equal(t, []token.Kind{
		token.And, token.Class, token.Else, token.False, token.Fun, token.For,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While, token.EOF,
	}, kinds(tokens))
	for _, tok := range tokens[:len(tokens)-1] {
		require.True(t, tok.Kind.IsKeyword(), tok.Lexeme)
	}
}

func TestScanLongestMatch(t *testing.T) {
	tokens := scanOK(t, "funny fun _under score9")
	require.Equal(t, []token.Kind{
		token.Identifier, token.Fun, token.Identifier, token.Identifier, token.EOF,
	}, kinds(tokens))
	require.Equal(t, "funny", tokens[0].Lexeme)
	require.Equal(t, "score9", tokens[3].Lexeme)
}

func TestScanString(t *testing.T) {
	tokens := scanOK(t, `"Hello World"`)
	require.Equal(t, token.Token{
		Kind:    token.String,
		Lexeme:  `"Hello World"`,
		Literal: runtime.String("Hello World"),
		Line:    1,
	}, tokens[0])
}

func TestScanMultilineString(t *testing.T) {
	tokens := scanOK(t, "\"a\nb\" x")
	require.Equal(t, runtime.String("a\nb"), tokens[0].Literal)
	require.Equal(t, 2, tokens[1].Line)
}

func TestScanNumber(t *testing.T) {
	tokens := scanOK(t, "3.14159")
	require.Equal(t, token.Token{
		Kind:    token.Number,
		Lexeme:  "3.14159",
		Literal: runtime.Number(3.14159),
		Line:    1,
	}, tokens[0])
}

func TestScanNumberWithoutFraction(t *testing.T) {
	// A trailing dot is not part of the number, nor is a leading one.
	tokens := scanOK(t, "12. .5")
	require.Equal(t, []token.Kind{
		token.Number, token.Dot, token.Dot, token.Number, token.EOF,
	}, kinds(tokens))
	require.Equal(t, runtime.Number(12), tokens[0].Literal)
	require.Equal(t, runtime.Number(5), tokens[3].Literal)
}

func TestScanLineNumbers(t *testing.T) {
	tokens := scanOK(t, "(\n\n)")
	require.Equal(t, 1, tokens[0].Line)
	require.Equal(t, 3, tokens[1].Line)
	require.Equal(t, 3, tokens[2].Line)
}

func TestScanSkipsComments(t *testing.T) {
	tokens := scanOK(t, "a // comment ( ) \"\nb // trailing")
	require.Equal(t, []token.Kind{token.Identifier, token.Identifier, token.EOF}, kinds(tokens))
	require.Equal(t, 2, tokens[1].Line)
}

func TestScanUnterminatedString(t *testing.T) {
	collector := diag.NewCollector(nil)
	tokens, errs := Scan("a \"never\nclosed", collector.Reporter())
	require.Equal(t, 1, errs)
	require.Equal(t, []token.Kind{token.Identifier, token.EOF}, kinds(tokens))
	require.Equal(t, []string{"[line 2] Error: Unterminated string."}, collector.Messages())
}

func TestScanUnexpectedCharacterIsSkipped(t *testing.T) {
	collector := diag.NewCollector(nil)
	tokens, errs := Scan("a @ b # c", collector.Reporter())
	require.Equal(t, 2, errs)
	require.Equal(t, []token.Kind{
		token.Identifier, token.Identifier, token.Identifier, token.EOF,
	}, kinds(tokens))
	require.Equal(t, []string{
		"[line 1] Error: Unexpected character '@'.",
		"[line 1] Error: Unexpected character '#'.",
	}, collector.Messages())
	require.Equal(t, 2, collector.Count(diag.PhaseScan))
}

func TestScannerIsSinglePass(t *testing.T) {
	s := New("a b", nil)
	first := s.ScanTokens()
	second := s.ScanTokens()
	require.Equal(t, first, second)
	require.Len(t, second, 3)
}

func TestScanEmptySource(t *testing.T) {
	tokens := scanOK(t, "")
	require.Equal(t, []token.Token{{Kind: token.EOF, Line: 1}}, tokens)
}
