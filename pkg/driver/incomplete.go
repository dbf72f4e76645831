package driver

import (
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

const unterminatedString = "Unterminated string."

// Incomplete reports whether src stops mid-construct, meaning a REPL should
// read another line before evaluating it.
func Incomplete(src string) bool {
	collector := diag.NewCollector(nil)
	tokens, scanErrs := scanner.Scan(src, collector.Reporter())
	if scanErrs > 0 {
		for _, d := range collector.Diagnostics() {
			if d.Message == unterminatedString {
				return true
			}
		}
		return false
	}
	if _, err := parser.ParseExpression(tokens, nil); err == nil {
		return false
	}
	collector.Reset()
	if _, errs := parser.Parse(tokens, collector.Reporter()); errs == 0 {
		return false
	}
	for _, d := range collector.Diagnostics() {
		if d.Where == diag.AtEnd {
			return true
		}
	}
	return false
}
