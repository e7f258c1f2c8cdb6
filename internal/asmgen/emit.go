package asmgen

import (
	"bytes"
	"fmt"
	"strings"

	"sclp/internal/rtl"
)

// escapeString renders a string literal's raw text the way SPIM's .asciiz
// directive expects it quoted: backslash and double-quote escaped, plus
// the usual control-character escapes.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Emit renders a complete RTL program as SPIM/MIPS assembly text: a data
// segment holding every global variable and pooled string (omitted
// entirely when there are none), followed by each function's text segment
// with its fixed prologue/epilogue wrapped around its lowered body.
func Emit(prog *rtl.Program, strs *rtl.StringPool) string {
	var out bytes.Buffer

	entries := strs.Entries()
	if len(prog.Globals) > 0 || len(entries) > 0 {
		out.WriteString("\n\t.data\n")
		for _, g := range prog.Globals {
			if g.Float {
				fmt.Fprintf(&out, "%s:\t.double 0.0\n", g.Name)
			} else {
				fmt.Fprintf(&out, "%s:\t.word 0\n", g.Name)
			}
		}
		for i, s := range entries {
			fmt.Fprintf(&out, "_str_%d: .asciiz \"%s\"\n", i, escapeString(s))
		}
	}

	for _, fn := range prog.Functions {
		emitFunction(&out, fn)
	}

	return out.String()
}

func emitFunction(out *bytes.Buffer, fn *rtl.Function) {
	sps := fn.StackFrameSize + 4

	out.WriteString("\t.text\n")
	fmt.Fprintf(out, "\t.globl %s\n", fn.Name)
	fmt.Fprintf(out, "%s:\n", fn.Name)
	out.WriteString("\tsw $ra, 0($sp)\n")
	out.WriteString("\tsw $fp, -4($sp)\n")
	out.WriteString("\tsub $fp, $sp, 4\n")
	fmt.Fprintf(out, "\tsub $sp, $sp, %d\n", sps)

	for _, stmt := range Lower(fn.Body, fn.Name) {
		stmt.Print(out)
	}

	fmt.Fprintf(out, "epilogue_%s:\n", fn.Name)
	fmt.Fprintf(out, "\tadd $sp, $sp, %d\n", sps)
	out.WriteString("\tlw $fp, -4($sp)\n")
	out.WriteString("\tlw $ra, 0($sp)\n")
	out.WriteString("\tjr $ra\n")
}
