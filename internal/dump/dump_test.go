package dump

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/ast"
	"sclp/internal/rtl"
	"sclp/internal/sctypes"
	"sclp/internal/tac"
	"sclp/internal/token"
)

func TestTokensFormatsOneLinePerToken(t *testing.T) {
	toks := []token.Token{
		{Type: token.IntKw, Lexeme: "int", Line: 1},
		{Type: token.Ident, Lexeme: "x", Line: 1},
	}
	out := Tokens(toks)
	require.Equal(t, "1: INT int\n1: IDENT x\n", out)
}

func TestASTWrapsFunctionInProcedureBlock(t *testing.T) {
	fn := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{Stmts: []ast.Stmt{
			&ast.PrintStmt{Val: &ast.IntLit{Value: 7}},
		}},
	}
	out := AST(&ast.Program{Functions: []*ast.Function{fn}})
	require.Contains(t, out, "**PROCEDURE: main")
	require.Contains(t, out, "**BEGIN:")
	require.Contains(t, out, "print 7")
	require.Contains(t, out, "**END:")
}

func TestTACFloatLiteralsFormatWithTwoDecimals(t *testing.T) {
	fn := &tac.Function{
		Name: "f",
		Body: []tac.Stmt{&tac.PrintStmt{Arg: &tac.FloatLit{Value: 1.5}}},
	}
	out := TAC(&tac.Program{Functions: []*tac.Function{fn}})
	require.Contains(t, out, "1.50")
}

func TestRTLRendersEachStatementOnItsOwnLine(t *testing.T) {
	fn := &rtl.Function{
		Name: "f",
		Body: []rtl.Stmt{&rtl.ReturnStmt{Reg: rtl.RegV1}},
	}
	out := RTL(&rtl.Program{Functions: []*rtl.Function{fn}})
	require.Contains(t, out, "**PROCEDURE: f")
	require.Contains(t, out, "return")
}

func TestASTGlobalsRenderUnderPseudoProcedure(t *testing.T) {
	sym := &ast.Symbol{Name: "g", Type: sctypes.MakeInt()}
	out := AST(&ast.Program{Globals: []*ast.Symbol{sym}})
	require.Contains(t, out, "**PROCEDURE: <globals>")
	require.Contains(t, out, "g")
}
