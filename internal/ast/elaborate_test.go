package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/lexer"
	"sclp/internal/parse"
	"sclp/internal/sctypes"
	"sclp/internal/symtab"
)

func elaborateSource(t *testing.T, src string) (*Program, error) {
	t.Helper()
	toks, err := lexer.New(src, "t.sc", nil).Scan()
	require.NoError(t, err)
	tree, err := parse.Parse(toks, "t.sc")
	require.NoError(t, err)
	e := NewElaborator("t.sc", sctypes.NewRegistry(), symtab.New())
	return e.Elaborate(tree)
}

func TestElaborateGlobalAndFunction(t *testing.T) {
	prog, err := elaborateSource(t, `int counter; void main() { counter = 3; print counter; }`)
	require.NoError(t, err)
	require.Len(t, prog.Globals, 1)
	require.Equal(t, "counter", prog.Globals[0].Name)
	require.Len(t, prog.Functions, 1)
	require.Equal(t, "main", prog.Functions[0].Name)
}

func TestElaborateRejectsVoidVariable(t *testing.T) {
	_, err := elaborateSource(t, `void x;`)
	require.Error(t, err)
}

func TestElaborateRejectsUndeclaredSymbol(t *testing.T) {
	_, err := elaborateSource(t, `void main() { y = 1; }`)
	require.Error(t, err)
}

func TestElaborateRejectsRedeclaration(t *testing.T) {
	_, err := elaborateSource(t, `int x; int x;`)
	require.Error(t, err)
}

func TestElaborateAllowsMatchingFunctionRedeclaration(t *testing.T) {
	prog, err := elaborateSource(t, `void f(int n); void f(int n) { return; }`)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
}

func TestElaborateRejectsConflictingFunctionRedeclaration(t *testing.T) {
	_, err := elaborateSource(t, `void f(int n); void f(float n) { return; }`)
	require.Error(t, err)
}

func TestElaborateRejectsAssignThroughConstPointer(t *testing.T) {
	_, err := elaborateSource(t, `void h(int* const p) { *p = 5; }`)
	require.Error(t, err)
}

func TestElaborateAllowsAssignThroughMutablePointer(t *testing.T) {
	_, err := elaborateSource(t, `void h(int* p) { *p = 5; }`)
	require.NoError(t, err)
}

func TestElaborateRejectsAssignmentTypeMismatch(t *testing.T) {
	_, err := elaborateSource(t, `void main() { int x; x = true; }`)
	require.Error(t, err)
}

func TestElaborateRejectsBreakOutsideLoop(t *testing.T) {
	_, err := elaborateSource(t, `void main() { break; }`)
	require.Error(t, err)
}

func TestElaborateAllowsBreakInsideLoop(t *testing.T) {
	_, err := elaborateSource(t, `void main() { while (true) { break; } }`)
	require.NoError(t, err)
}

func TestElaborateRejectsMissingReturn(t *testing.T) {
	_, err := elaborateSource(t, `int f() { int x; x = 1; }`)
	require.Error(t, err)
}

func TestElaborateAcceptsReturnInsideCompound(t *testing.T) {
	// Exercises the preserved "any sub-statement returns" compound rule:
	// the return is not the compound's last statement, yet this is accepted.
	prog, err := elaborateSource(t, `int f() { return 1; int x; x = 2; }`)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
}

func TestElaborateRequiresBothIfElseBranchesToReturn(t *testing.T) {
	_, err := elaborateSource(t, `int f(bool c) { if (c) return 1; }`)
	require.Error(t, err)

	prog, err := elaborateSource(t, `int f(bool c) { if (c) return 1; else return 2; }`)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 1)
}

func TestElaborateCallArgumentTypeMismatch(t *testing.T) {
	_, err := elaborateSource(t, `void f(int n); void main() { f(true); }`)
	require.Error(t, err)
}

func TestElaborateIgnoredResultRejected(t *testing.T) {
	_, err := elaborateSource(t, `int f() { return 1; } void main() { f(); }`)
	require.Error(t, err)
}

func TestElaborateIndexAndAddressOf(t *testing.T) {
	prog, err := elaborateSource(t, `int a[10]; void main() { int* p; p = &a[0]; *p = 7; }`)
	require.NoError(t, err)
	fn := prog.Functions[0]
	require.Len(t, fn.Body.Stmts, 3)
}

func TestElaborateRejectsReturnValueTypeMismatch(t *testing.T) {
	_, err := elaborateSource(t, `int f() { return true; }`)
	require.Error(t, err)
}

func TestElaborateRejectsValueReturnedFromVoidFunction(t *testing.T) {
	_, err := elaborateSource(t, `void f() { return 1; }`)
	require.Error(t, err)
}

func TestElaborateTernaryRequiresMatchingBranchTypes(t *testing.T) {
	_, err := elaborateSource(t, `void main() { int x; x = true ? 1 : 2; }`)
	require.NoError(t, err)

	_, err = elaborateSource(t, `void main() { int x; x = true ? 1 : true; }`)
	require.Error(t, err)
}
