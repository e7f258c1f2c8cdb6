package dump

import (
	"fmt"
	"strings"

	"sclp/internal/rtl"
)

// RTL renders the register-transfer-level program: one **PROCEDURE block
// per function, each RTL statement printed via its own Print method (the
// same rendering asmgen would consume, except floats keep two decimal
// places per the dump-format contract).
func RTL(prog *rtl.Program) string {
	var b strings.Builder
	if len(prog.Globals) > 0 {
		procedureHeader(&b, "<globals>")
		for _, g := range prog.Globals {
			fmt.Fprintf(&b, "%s%s\n", indentStep, g.Name)
		}
		procedureFooter(&b)
	}
	for _, fn := range prog.Functions {
		procedureHeader(&b, fn.Name)
		for _, s := range fn.Body {
			s.Print(&b)
		}
		procedureFooter(&b)
	}
	return b.String()
}
