package asmgen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/rtl"
)

func printAll(stmts []Stmt) string {
	var b bytes.Buffer
	for _, s := range stmts {
		s.Print(&b)
	}
	return b.String()
}

func TestLowerAddStmtToThreeOperandForm(t *testing.T) {
	lhs := &rtl.Register{Name: "t0"}
	rhs := &rtl.Register{Name: "t1"}
	res := &rtl.Register{Name: "t2"}
	out := Lower([]rtl.Stmt{rtl.NewAddStmt(res, lhs, rhs)}, "f")
	require.Contains(t, printAll(out), "add $t2, $t0, $t1")
}

func TestLowerReturnJumpsToSynthesizedEpilogueLabel(t *testing.T) {
	out := Lower([]rtl.Stmt{&rtl.ReturnStmt{Reg: rtl.RegV1}}, "myfunc")
	require.Contains(t, printAll(out), "epilogue_myfunc")
}

func TestLowerPushExpandsToStoreThenStackAdjust(t *testing.T) {
	reg := &rtl.Register{Name: "t0"}
	out := Lower([]rtl.Stmt{&rtl.PushStmt{Reg: reg, IsFloat: false}}, "f")
	require.Len(t, out, 2)
	require.IsType(t, &SWStmt{}, out[0])
	require.IsType(t, &SubStmt{}, out[1])
}

func TestLowerGlobalMemOperandUsesLabelNotFramePointer(t *testing.T) {
	m := &rtl.Mem{Name: "counter", IsGlobal: true}
	reg := &rtl.Register{Name: "t0"}
	out := Lower([]rtl.Stmt{rtl.NewLoadStmt(reg, m)}, "f")
	require.Contains(t, printAll(out), "counter")
	require.NotContains(t, printAll(out), "$fp")
}

func TestLowerLocalMemOperandUsesFramePointerOffset(t *testing.T) {
	m := &rtl.Mem{Name: "x", IsGlobal: false, FPOffset: -8}
	reg := &rtl.Register{Name: "t0"}
	out := Lower([]rtl.Stmt{rtl.NewLoadStmt(reg, m)}, "f")
	require.Contains(t, printAll(out), "-8($fp)")
}
