// Package dump renders each pipeline stage's output as the deterministic,
// human-readable text written to the .toks/.ast/.tac/.rtl files (or to
// stdout under --demo). Every per-function dump shares the same
// **PROCEDURE:/**BEGIN:/**END: shape described in SPEC_FULL.md §8.
package dump

import (
	"fmt"
	"strings"

	"sclp/internal/token"
)

const indentStep = "    "

// Tokens renders one line per token: "<line>: <type> <lexeme>".
func Tokens(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&b, "%s\n", t.String())
	}
	return b.String()
}

func procedureHeader(b *strings.Builder, name string) {
	fmt.Fprintf(b, "**PROCEDURE: %s\n**BEGIN:\n", name)
}

func procedureFooter(b *strings.Builder) {
	b.WriteString("**END:\n")
}
