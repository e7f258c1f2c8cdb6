package asmgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/rtl"
)

func TestEmitOmitsDataSegmentWhenEmpty(t *testing.T) {
	prog := &rtl.Program{}
	out := Emit(prog, rtl.NewStringPool())
	require.NotContains(t, out, ".data")
}

func TestEmitIncludesGlobalsAndPooledStrings(t *testing.T) {
	strs := rtl.NewStringPool()
	strs.GetStringID("hi")
	prog := &rtl.Program{Globals: []*rtl.Global{{Name: "total", Float: false}}}

	out := Emit(prog, strs)
	require.Contains(t, out, ".data")
	require.Contains(t, out, "total:\t.word 0")
	require.Contains(t, out, `_str_0: .asciiz "hi"`)
}

func TestEmitWrapsFunctionBodyWithPrologueAndEpilogue(t *testing.T) {
	fn := &rtl.Function{
		Name:           "main",
		StackFrameSize: 4,
		Body:           []rtl.Stmt{&rtl.ReturnStmt{Reg: nil}},
	}
	out := Emit(&rtl.Program{Functions: []*rtl.Function{fn}}, rtl.NewStringPool())

	require.Contains(t, out, ".globl main")
	require.Contains(t, out, "main:\n")
	require.Contains(t, out, "sw $ra, 0($sp)")
	require.Contains(t, out, "epilogue_main:")
	require.Contains(t, out, "jr $ra")
}

func TestEscapeStringHandlesQuotesAndBackslashes(t *testing.T) {
	require.Equal(t, `say \"hi\"\n`, escapeString(`say "hi"`+"\n"))
}
