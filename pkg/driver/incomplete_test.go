package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncomplete(t *testing.T) {
	cases := map[string]bool{
		"":                      false,
		"1 + 2":                 false,
		"print 1;":              false,
		"fun f() {":             true,
		"fun f() {\n  print 1;": true,
		"fun f() { print 1; }":  false,
		"print 1":               true,
		`print "multi`:          true,
		"if (true) print 1;":    false,
		"print );":              false,
		"@":                     false,
	}
	for src, want := range cases {
		require.Equal(t, want, Incomplete(src), "%q", src)
	}
}
