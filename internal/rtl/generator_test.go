package rtl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/sctypes"
	"sclp/internal/tac"
)

func TestGenerateLowersReturnOfSum(t *testing.T) {
	a := &tac.Sym{Name: "a", Ty: sctypes.TACInt, InMem: true, FPOffset: 8}
	b := &tac.Sym{Name: "b", Ty: sctypes.TACInt, InMem: true, FPOffset: 12}
	result := &tac.Sym{Name: "_stemp0", Ty: sctypes.TACInt, InMem: true, FPOffset: -4}

	fn := &tac.Function{
		Name:   "add",
		Params: []*tac.Sym{a, b},
		Body: []tac.Stmt{
			&tac.AssignStmt{Lhs: result, Rhs: &tac.BinExpr{Op: tac.Add, Lhs: a, Rhs: b, Ty: sctypes.TACInt}},
			&tac.ReturnStmt{Ret: result},
		},
		ReturnSym:      result,
		StackFrameSize: 8,
		ParamFrameSize: 16,
	}
	prog := &tac.Program{Functions: []*tac.Function{fn}}

	out := Generate(prog, NewStringPool())
	require.Len(t, out.Functions, 1)

	var sawAdd, sawReturn bool
	for _, s := range out.Functions[0].Body {
		switch s.(type) {
		case *AddStmt:
			sawAdd = true
		case *ReturnStmt:
			sawReturn = true
		}
	}
	require.True(t, sawAdd, "expected an AddStmt lowering the + operator")
	require.True(t, sawReturn, "expected a ReturnStmt closing the function")
}

func TestGenerateResetsRegisterPoolBetweenFunctions(t *testing.T) {
	sym := func(name string, off int) *tac.Sym {
		return &tac.Sym{Name: name, Ty: sctypes.TACInt, InMem: true, FPOffset: off}
	}
	mkFn := func(name string) *tac.Function {
		s := sym(name+"_x", 8)
		return &tac.Function{
			Name:      name,
			Body:      []tac.Stmt{&tac.ReturnStmt{Ret: s}},
			ReturnSym: s,
		}
	}
	prog := &tac.Program{Functions: []*tac.Function{mkFn("f"), mkFn("g")}}

	// Neither function should panic from register exhaustion carried over
	// from the other, which would happen if Reset were skipped.
	require.NotPanics(t, func() { Generate(prog, NewStringPool()) })
}
