package sctypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterning(t *testing.T) {
	r := NewRegistry()
	p1 := r.MakePtr(MakeInt(), false)
	p2 := r.MakePtr(MakeInt(), false)
	require.Same(t, p1, p2, "equal pointer components must intern to the same handle")

	a1 := r.MakeArray(MakeFloat(), 10)
	a2 := r.MakeArray(MakeFloat(), 10)
	require.Same(t, a1, a2)

	f1 := r.MakeFunc(MakeInt(), []*Type{MakeInt(), MakeFloat()})
	f2 := r.MakeFunc(MakeInt(), []*Type{MakeInt(), MakeFloat()})
	require.Same(t, f1, f2)
}

func TestMakeArrayRejects(t *testing.T) {
	r := NewRegistry()
	require.Nil(t, r.MakeArray(MakeVoid(), 4))
	require.Nil(t, r.MakeArray(MakeInt(), 0))

	fn := r.MakeFunc(MakeVoid(), nil)
	require.Nil(t, r.MakeArray(fn, 4))
}

func TestMakeFuncRejects(t *testing.T) {
	r := NewRegistry()
	fn := r.MakeFunc(MakeVoid(), nil)
	require.Nil(t, r.MakeFunc(fn, nil), "function returning function")
	require.Nil(t, r.MakeFunc(r.MakeArray(MakeInt(), 3), nil), "function returning array")
	require.Nil(t, r.MakeFunc(MakeInt(), []*Type{fn}), "function parameter")
}

func TestAssignabilityAsymmetry(t *testing.T) {
	r := NewRegistry()
	constPtr := r.MakePtr(MakeInt(), true)
	mutPtr := r.MakePtr(MakeInt(), false)

	ok, _ := r.CheckAssign(constPtr, mutPtr)
	require.True(t, ok, "non-const pointer assignable into const-pointer slot")

	ok, _ = r.CheckAssign(mutPtr, constPtr)
	require.False(t, ok, "const pointer must not be assignable into non-const slot")
}

func TestCheckAssignRejectsVoidArrayFunc(t *testing.T) {
	r := NewRegistry()
	ok, _ := r.CheckAssign(MakeVoid(), MakeInt())
	require.False(t, ok)

	arr := r.MakeArray(MakeInt(), 4)
	ok, _ = r.CheckAssign(arr, arr)
	require.False(t, ok)

	fn := r.MakeFunc(MakeVoid(), nil)
	ok, _ = r.CheckAssign(fn, fn)
	require.False(t, ok)
}

func TestCheckAssignNoImplicitPromotion(t *testing.T) {
	r := NewRegistry()
	ok, _ := r.CheckAssign(MakeInt(), MakeFloat())
	require.False(t, ok)
}

func TestResultBinAddSubPointerArithmetic(t *testing.T) {
	r := NewRegistry()
	ptr := r.MakePtr(MakeInt(), false)
	require.Same(t, ptr, r.ResultBin(AddSub, ptr, MakeInt()))
}

func TestResultBinFallthroughToOtherArith(t *testing.T) {
	r := NewRegistry()
	require.Same(t, MakeInt(), r.ResultBin(AddSub, MakeInt(), MakeInt()))
	require.Nil(t, r.ResultBin(AddSub, MakeBool(), MakeBool()))
}

func TestResultBinComparisonYieldsBool(t *testing.T) {
	r := NewRegistry()
	require.Same(t, MakeBool(), r.ResultBin(Comp, MakeInt(), MakeInt()))
	require.Nil(t, r.ResultBin(Comp, MakeInt(), MakeFloat()))
}

func TestResultBinLogic(t *testing.T) {
	r := NewRegistry()
	require.Same(t, MakeBool(), r.ResultBin(Logic, MakeBool(), MakeBool()))
	require.Nil(t, r.ResultBin(Logic, MakeInt(), MakeInt()))
}

func TestResultBinArrayIndex(t *testing.T) {
	r := NewRegistry()
	arr := r.MakeArray(MakeFloat(), 10)
	require.Same(t, MakeFloat(), r.ResultBin(ArrayIndex, arr, MakeInt()))

	ptr := r.MakePtr(MakeString(), false)
	require.Same(t, MakeString(), r.ResultBin(ArrayIndex, ptr, MakeInt()))
}

func TestResultUn(t *testing.T) {
	r := NewRegistry()
	require.Same(t, MakeInt(), r.ResultUn(Neg, MakeInt()))
	require.Nil(t, r.ResultUn(Neg, MakeBool()))
	require.Same(t, MakeBool(), r.ResultUn(Not, MakeBool()))

	ptr := r.MakePtr(MakeInt(), false)
	require.Same(t, MakeInt(), r.ResultUn(Deref, ptr))
}

func TestResultTernary(t *testing.T) {
	r := NewRegistry()
	require.Same(t, MakeInt(), r.ResultTernary(MakeBool(), MakeInt(), MakeInt()))
	require.Nil(t, r.ResultTernary(MakeInt(), MakeInt(), MakeInt()), "condition must be bool")
	require.Nil(t, r.ResultTernary(MakeBool(), MakeInt(), MakeFloat()), "branches must match")
	require.Same(t, MakeVoid(), r.ResultTernary(MakeBool(), MakeVoid(), MakeVoid()), "void branches are fine")
}

func TestResultCall(t *testing.T) {
	r := NewRegistry()
	fn := r.MakeFunc(MakeInt(), []*Type{MakeInt(), r.MakePtr(MakeInt(), true)})

	ok := r.ResultCall(fn, []*Type{MakeInt(), r.MakePtr(MakeInt(), false)})
	require.Same(t, MakeInt(), ok, "non-const pointer arg assignable into const-pointer param")

	require.Nil(t, r.ResultCall(fn, []*Type{MakeInt()}), "arity mismatch")
	require.Nil(t, r.ResultCall(fn, []*Type{MakeFloat(), r.MakePtr(MakeInt(), true)}), "type mismatch")
}

func TestCheckStmtUnary(t *testing.T) {
	r := NewRegistry()
	ok, _ := r.CheckStmtUnary(StmtPrint, MakeString())
	require.True(t, ok)
	ok, _ = r.CheckStmtUnary(StmtPrint, MakeBool())
	require.False(t, ok)
	ok, _ = r.CheckStmtUnary(StmtRead, MakeInt())
	require.True(t, ok)
	ok, _ = r.CheckStmtUnary(StmtRead, MakeString())
	require.False(t, ok)
}

func TestByteSize(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 4, MakeInt().ByteSize())
	require.Equal(t, 8, MakeFloat().ByteSize())
	arr := r.MakeArray(MakeFloat(), 10)
	require.Equal(t, 80, arr.ByteSize())
}
