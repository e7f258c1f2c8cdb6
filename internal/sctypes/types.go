// Package sctypes implements the compiler's semantic type system: a
// hash-consed catalogue of types plus the arithmetic of assignability and
// operator result types.
package sctypes

import (
	"fmt"
	"strings"
)

// Category tags a semantic type's shape.
type Category int

const (
	Void Category = iota
	Bool
	Int
	Float
	String
	Ptr
	Array
	Func
)

// TACType is the type tag a semantic type lowers to at the TAC level.
type TACType int

const (
	TACBool TACType = iota
	TACInt
	TACFloat
	TACString
	TACPtr
)

// Type is an interned semantic type. Two types built from equal components
// are the same *Type value; comparing types is always pointer comparison.
type Type struct {
	Category Category

	// Ptr
	PointsTo      *Type
	PointsToConst bool

	// Array
	Elem *Type
	Size int

	// Func
	Ret    *Type
	Params []*Type
}

func (t *Type) IsFunc() bool  { return t.Category == Func }
func (t *Type) IsArray() bool { return t.Category == Array }
func (t *Type) IsVoid() bool  { return t.Category == Void }

// String renders the type the way the elaborator's diagnostics quote it.
func (t *Type) String() string {
	switch t.Category {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Ptr:
		s := t.PointsTo.String()
		if t.PointsToConst {
			s += " const"
		}
		return s + "*"
	case Array:
		return fmt.Sprintf("<%s>[%d]", t.Elem, t.Size)
	case Func:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("<%s(%s)>", t.Ret, strings.Join(parts, ", "))
	default:
		return "?"
	}
}

// ByteSize is the storage size used for frame layout and pointer
// arithmetic. Func and Void are never measured.
func (t *Type) ByteSize() int {
	switch t.Category {
	case Bool, Int, String, Ptr:
		return 4
	case Float:
		return 8
	case Array:
		return t.Size * t.Elem.ByteSize()
	default:
		panic(fmt.Sprintf("sctypes: ByteSize of unmeasurable category %v", t.Category))
	}
}

// TACType maps a scalar semantic type to its TAC-level tag. Array and Func
// both lower to Ptr.
func (t *Type) TACType() TACType {
	switch t.Category {
	case Bool:
		return TACBool
	case Int:
		return TACInt
	case Float:
		return TACFloat
	case String:
		return TACString
	case Ptr, Array, Func:
		return TACPtr
	default:
		panic(fmt.Sprintf("sctypes: TACType of category %v", t.Category))
	}
}

// Registry is the hash-consing cache for all compound types built during a
// single compilation. Scalar types are process-wide singletons; Ptr/Array/
// Func types are interned per Registry so that two compilations in one test
// binary never share cached identities.
type Registry struct {
	ptrs   []*Type
	arrays []*Type
	funcs  []*Type

	// LastError carries the human-readable reason the most recent failed
	// Array/Func construction was rejected, mirroring the aux_error_msg
	// side channel of the implementation this registry is modeled on.
	LastError string
}

func NewRegistry() *Registry {
	return &Registry{}
}

var (
	voidSingleton   = &Type{Category: Void}
	boolSingleton   = &Type{Category: Bool}
	intSingleton    = &Type{Category: Int}
	floatSingleton  = &Type{Category: Float}
	stringSingleton = &Type{Category: String}
)

func MakeVoid() *Type   { return voidSingleton }
func MakeBool() *Type   { return boolSingleton }
func MakeInt() *Type    { return intSingleton }
func MakeFloat() *Type  { return floatSingleton }
func MakeString() *Type { return stringSingleton }

// MakePtr never rejects its arguments.
func (r *Registry) MakePtr(pointsTo *Type, pointsToConst bool) *Type {
	for _, p := range r.ptrs {
		if p.PointsTo == pointsTo && p.PointsToConst == pointsToConst {
			return p
		}
	}
	t := &Type{Category: Ptr, PointsTo: pointsTo, PointsToConst: pointsToConst}
	r.ptrs = append(r.ptrs, t)
	return t
}

// MakeArray rejects a void element, a function element, or a zero size.
func (r *Registry) MakeArray(elem *Type, size int) *Type {
	if elem.Category == Void {
		r.LastError = "Array declared as void type"
		return nil
	}
	if elem.IsFunc() {
		r.LastError = "Array of functions"
		return nil
	}
	if size == 0 {
		r.LastError = "Array declared with zero size"
		return nil
	}
	for _, a := range r.arrays {
		if a.Elem == elem && a.Size == size {
			return a
		}
	}
	t := &Type{Category: Array, Elem: elem, Size: size}
	r.arrays = append(r.arrays, t)
	return t
}

// MakeFunc rejects a function or array return type, or any function
// parameter.
func (r *Registry) MakeFunc(ret *Type, params []*Type) *Type {
	if ret.IsFunc() {
		r.LastError = "Function returning function"
		return nil
	}
	if ret.IsArray() {
		r.LastError = "Function returning array"
		return nil
	}
	for _, p := range params {
		if p.IsFunc() {
			r.LastError = "Parameter declared as function"
			return nil
		}
	}
candidate:
	for _, f := range r.funcs {
		if f.Ret != ret || len(f.Params) != len(params) {
			continue
		}
		for i, p := range params {
			if f.Params[i] != p {
				continue candidate
			}
		}
		return f
	}
	t := &Type{Category: Func, Ret: ret, Params: append([]*Type(nil), params...)}
	r.funcs = append(r.funcs, t)
	return t
}

// CheckAssign answers whether a value of type rhs may be written into a
// location of type lhs.
func (r *Registry) CheckAssign(lhs, rhs *Type) (bool, string) {
	if lhs.Category == Void || rhs.Category == Void {
		return false, "Void value not ignored as it ought to be"
	}
	switch lhs.Category {
	case Array:
		return false, "Cannot assign to array type"
	case Func:
		return false, "Cannot assign to a function"
	case Ptr:
		if rhs.Category != Ptr || lhs.PointsTo != rhs.PointsTo {
			return false, ""
		}
		// X const* a; X* b; a = b; is allowed: constness may only
		// tighten on assignment, never loosen.
		return lhs.PointsToConst || !rhs.PointsToConst, ""
	default:
		return lhs == rhs, ""
	}
}

// StmtUnOp is the operator for CheckStmtUnary.
type StmtUnOp int

const (
	StmtPrint StmtUnOp = iota
	StmtRead
)

// CheckStmtUnary validates the operand type of Print/Read.
func (r *Registry) CheckStmtUnary(op StmtUnOp, s *Type) (bool, string) {
	if s.Category == Void {
		return false, "Void value not ignored as it ought to be"
	}
	switch op {
	case StmtPrint:
		if s.Category == String || s.Category == Int || s.Category == Float {
			return true, ""
		}
		return false, "Can only print types string, int, or float, found type"
	case StmtRead:
		if s.Category == Int || s.Category == Float {
			return true, ""
		}
		return false, "Can only read types int or float, found type"
	default:
		panic("sctypes: unknown StmtUnOp")
	}
}

// BinOpClass groups binary expression operators by the rule they follow.
type BinOpClass int

const (
	AddSub BinOpClass = iota
	OtherArith
	Comp
	Logic
	ArrayIndex
)

// ResultBin computes the result type of a binary expression, or nil if the
// operand types are incompatible with op.
//
// AddSub and OtherArith share one rule, matching the fallthrough in the
// implementation this is modeled on: Ptr+Int is checked first, and when it
// doesn't match, AddSub falls through into the same same-type Int/Float
// check that OtherArith uses directly.
func (r *Registry) ResultBin(op BinOpClass, s1, s2 *Type) *Type {
	if s1.Category == Void || s2.Category == Void {
		return nil
	}
	switch op {
	case AddSub:
		if s1.Category == Ptr && s2.Category == Int {
			return s1
		}
		fallthrough
	case OtherArith:
		if s1 == s2 && (s1.Category == Int || s1.Category == Float) {
			return s1
		}
	case Comp:
		if s1 == s2 && (s1.Category == Int || s1.Category == Float) {
			return MakeBool()
		}
	case Logic:
		if s1 == s2 && s1.Category == Bool {
			return s1
		}
	case ArrayIndex:
		if (s1.Category == Array || s1.Category == Ptr) && s2.Category == Int {
			return s1.elementType()
		}
	}
	return nil
}

func (t *Type) elementType() *Type {
	switch t.Category {
	case Array:
		return t.Elem
	case Ptr:
		return t.PointsTo
	default:
		panic("sctypes: elementType of non-indexable type")
	}
}

// UnOp is the operator for ResultUn.
type UnOp int

const (
	Neg UnOp = iota
	Not
	Deref
)

// ResultUn computes the result type of a unary expression, or nil.
func (r *Registry) ResultUn(op UnOp, s *Type) *Type {
	if s.Category == Void {
		return nil
	}
	switch op {
	case Neg:
		if s.Category == Int || s.Category == Float {
			return s
		}
	case Not:
		if s.Category == Bool {
			return s
		}
	case Deref:
		if s.Category == Ptr {
			return s.PointsTo
		}
	}
	return nil
}

// ResultTernary computes the ternary's result type: cond must be Bool and
// the two branches must share identical type, including Void.
func (r *Registry) ResultTernary(cond, a, b *Type) *Type {
	if cond.Category == Void {
		return nil
	}
	if cond.Category != Bool {
		return nil
	}
	if a != b {
		return nil
	}
	return a
}

// ResultCall checks arity and per-parameter assignability, returning the
// function's return type or nil.
func (r *Registry) ResultCall(fn *Type, args []*Type) *Type {
	if len(fn.Params) != len(args) {
		return nil
	}
	for i, want := range fn.Params {
		if ok, _ := r.CheckAssign(want, args[i]); !ok {
			return nil
		}
	}
	return fn.Ret
}
