package tac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/ast"
	"sclp/internal/sctypes"
)

// countLabels returns how many Label statements (not Goto/IfGoto targets,
// the actual label-definition statements) appear in a lowered body.
func countLabels(body []Stmt) int {
	n := 0
	for _, s := range body {
		if _, ok := s.(*Label); ok {
			n++
		}
	}
	return n
}

func genSingleFunction(t *testing.T, body *ast.CompoundStmt) []Stmt {
	t.Helper()
	prog := ast.Program{Functions: []*ast.Function{{
		Name:       "f",
		Body:       body,
		ReturnType: sctypes.MakeVoid(),
	}}}
	out := Generate(&prog)
	require.Len(t, out.Functions, 1)
	return out.Functions[0].Body
}

func printZero() ast.Stmt {
	return &ast.PrintStmt{Val: &ast.IntLit{Value: 0}}
}

func TestDoWhileOmitsExitLabelWithoutBreak(t *testing.T) {
	loop := &ast.DoWhileStmt{
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{printZero()}},
		Cond: &ast.BoolLit{Value: true},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{loop}})

	// Only the loopback label should exist: the fall-through out of the
	// final IfGoto already lands past the loop when nothing breaks.
	require.Equal(t, 1, countLabels(body))
}

func TestDoWhileEmitsExitLabelWhenBodyBreaks(t *testing.T) {
	loop := &ast.DoWhileStmt{
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{Cond: &ast.BoolLit{Value: true}, Then: &ast.BreakStmt{}},
			printZero(),
		}},
		Cond: &ast.BoolLit{Value: true},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{loop}})

	require.Equal(t, 3, countLabels(body), "loopback label, the if's end label, and the break's exit label")
}

func TestForOmitsContinueAndExitLabelsWhenUnused(t *testing.T) {
	loop := &ast.ForStmt{
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{printZero()}},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{loop}})

	// No cond, no break, no continue: only the loopback label is needed.
	require.Equal(t, 1, countLabels(body))
}

func TestForEmitsExitLabelWhenCondPresent(t *testing.T) {
	sym := &ast.Symbol{Name: "i", Type: sctypes.MakeInt()}
	loop := &ast.ForStmt{
		Cond: &ast.BinaryExpr{Op: ast.Lt, Left: &ast.SymbolRef{Sym: sym}, Right: &ast.IntLit{Value: 10}, ResultTy: sctypes.MakeBool()},
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{printZero()}},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{
		&ast.LocalDeclStmt{Sym: sym}, loop,
	}})

	require.Equal(t, 2, countLabels(body), "loopback label plus the cond's exit label")
}

func TestForEmitsContinueLabelOnlyWhenUsed(t *testing.T) {
	loop := &ast.ForStmt{
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{Cond: &ast.BoolLit{Value: true}, Then: &ast.ContinueStmt{}},
			printZero(),
		}},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{loop}})

	// No cond and no break, but continue is used: loopback + the if's end
	// label + continue label.
	require.Equal(t, 3, countLabels(body))
}

func TestForReusesCondExitLabelAsBreakTarget(t *testing.T) {
	sym := &ast.Symbol{Name: "i", Type: sctypes.MakeInt()}
	loop := &ast.ForStmt{
		Cond: &ast.BinaryExpr{Op: ast.Lt, Left: &ast.SymbolRef{Sym: sym}, Right: &ast.IntLit{Value: 10}, ResultTy: sctypes.MakeBool()},
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{Cond: &ast.BoolLit{Value: true}, Then: &ast.BreakStmt{}},
		}},
	}
	body := genSingleFunction(t, &ast.CompoundStmt{Stmts: []ast.Stmt{
		&ast.LocalDeclStmt{Sym: sym}, loop,
	}})

	// The cond already allocated an exit label; break must reuse it rather
	// than allocating (and emitting) a second one: loopback + exit + the
	// if's end label.
	require.Equal(t, 3, countLabels(body))
}
