package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/lexer"
)

func parseSource(t *testing.T, src string) *Tree {
	t.Helper()
	toks, err := lexer.New(src, "t.sc", nil).Scan()
	require.NoError(t, err)
	tree, err := Parse(toks, "t.sc")
	require.NoError(t, err)
	return tree
}

func TestParseGlobalVarAndFunction(t *testing.T) {
	tree := parseSource(t, `int x; void main() { x = 3; print x; }`)
	require.Len(t, tree.Items, 2)

	v, ok := tree.Items[0].(VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", v.Name)

	fn, ok := tree.Items[1].(FuncDef)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 2)

	assign, ok := fn.Body.Stmts[0].(Assign)
	require.True(t, ok)
	require.IsType(t, Ident{}, assign.LHS)
}

func TestParsePointerDeclarator(t *testing.T) {
	tree := parseSource(t, `void h(int* const p) { *p = 5; }`)
	fn := tree.Items[0].(FuncDef)
	require.Len(t, fn.Params, 1)
	mods := fn.Params[0].Type.Mods
	require.Len(t, mods, 1)
	ptr, ok := mods[0].(PtrMod)
	require.True(t, ok)
	require.True(t, ptr.Const)
}

func TestParseArrayDeclaration(t *testing.T) {
	tree := parseSource(t, `int a[10];`)
	v := tree.Items[0].(VarDecl)
	require.Len(t, v.Type.Mods, 1)
	arr, ok := v.Type.Mods[0].(ArrayMod)
	require.True(t, ok)
	require.Equal(t, 10, arr.Size)
}

func TestParseForLoop(t *testing.T) {
	tree := parseSource(t, `void g() { int i; for (i = 0; i < 10; i = i + 1) i = i; }`)
	fn := tree.Items[0].(FuncDef)
	require.Len(t, fn.Body.Stmts, 2)
	forStmt, ok := fn.Body.Stmts[1].(For)
	require.True(t, ok)
	require.NotNil(t, forStmt.Pre)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Inc)
}

func TestParseIfElse(t *testing.T) {
	tree := parseSource(t, `int f(int n) { if (n <= 1) return 1; return n; }`)
	fn := tree.Items[0].(FuncDef)
	ifStmt, ok := fn.Body.Stmts[0].(If)
	require.True(t, ok)
	_, ok = ifStmt.Then.(Return)
	require.True(t, ok)
}

func TestParseTernaryAndLogic(t *testing.T) {
	tree := parseSource(t, `bool f(bool a, bool b) { return a && b || !a ? true : false; }`)
	fn := tree.Items[0].(FuncDef)
	ret := fn.Body.Stmts[0].(Return)
	_, ok := ret.Val.(Ternary)
	require.True(t, ok)
}

func TestParseCallStatementAndIndirectCall(t *testing.T) {
	tree := parseSource(t, `void g(); void h() { g(); }`)
	fn := tree.Items[1].(FuncDef)
	exprStmt, ok := fn.Body.Stmts[0].(ExprStmt)
	require.True(t, ok)
	ident, ok := exprStmt.Call.Callee.(Ident)
	require.True(t, ok)
	require.Equal(t, "g", ident.Name)
}

func TestParseArrayIndexAssignment(t *testing.T) {
	tree := parseSource(t, `int a[10]; void g() { int i; a[i] = i; }`)
	fn := tree.Items[1].(FuncDef)
	assign := fn.Body.Stmts[1].(Assign)
	_, ok := assign.LHS.(Index)
	require.True(t, ok)
}

func TestParseRejectsExpressionStatementThatIsNotCallOrAssign(t *testing.T) {
	_, err := func() (*Tree, error) {
		toks, err := lexer.New(`void g() { 1 + 2; }`, "t.sc", nil).Scan()
		require.NoError(t, err)
		return Parse(toks, "t.sc")
	}()
	require.Error(t, err)
}
