package ast

import (
	"fmt"

	"sclp/internal/diag"
	"sclp/internal/parse"
	"sclp/internal/sctypes"
	"sclp/internal/symtab"
	"sclp/internal/token"
)

// Elaborator walks a parse tree and builds the typed AST, enforcing every
// static rule from §6.5.
type Elaborator struct {
	File     string
	Types    *sctypes.Registry
	Symbols  *symtab.Table
	symOf    map[*symtab.Symbol]*Symbol
	loopSeen int
	retTy    *sctypes.Type
}

func NewElaborator(file string, types *sctypes.Registry, symbols *symtab.Table) *Elaborator {
	return &Elaborator{File: file, Types: types, Symbols: symbols, symOf: make(map[*symtab.Symbol]*Symbol)}
}

// Elaborate turns a whole parse tree into a Program.
func (e *Elaborator) Elaborate(tree *parse.Tree) (*Program, error) {
	prog := &Program{}
	for _, item := range tree.Items {
		switch it := item.(type) {
		case parse.VarDecl:
			sym, err := e.declareVar(it.Type, it.Name, it.Line)
			if err != nil {
				return nil, err
			}
			prog.Globals = append(prog.Globals, sym)
		case parse.FuncDecl:
			if _, err := e.declareFunc(it.RetType, it.Name, it.Params, it.Line); err != nil {
				return nil, err
			}
		case parse.FuncDef:
			fn, err := e.elaborateFuncDef(it)
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, fn)
		}
	}
	return prog, nil
}

// buildType threads a built type through a modifier chain: primitive type
// first, then each Ptr/Array modifier applied outward in left-to-right
// syntactic order.
func (e *Elaborator) buildType(spec parse.TypeSpec, line int) (*sctypes.Type, error) {
	t, err := primitiveType(spec.Primitive)
	if err != nil {
		return nil, diag.New(diag.KindBadDeclaration, e.File, line, err.Error())
	}
	for _, m := range spec.Mods {
		switch mod := m.(type) {
		case parse.PtrMod:
			t = e.Types.MakePtr(t, mod.Const)
		case parse.ArrayMod:
			arr := e.Types.MakeArray(t, mod.Size)
			if arr == nil {
				return nil, diag.New(diag.KindBadDeclaration, e.File, mod.Line, e.Types.LastError)
			}
			t = arr
		}
	}
	return t, nil
}

func primitiveType(p token.Type) (*sctypes.Type, error) {
	switch p {
	case token.Void:
		return sctypes.MakeVoid(), nil
	case token.BoolKw:
		return sctypes.MakeBool(), nil
	case token.IntKw:
		return sctypes.MakeInt(), nil
	case token.FloatKw:
		return sctypes.MakeFloat(), nil
	case token.StringKw:
		return sctypes.MakeString(), nil
	default:
		return nil, fmt.Errorf("unknown primitive type %q", p)
	}
}

// hasTopConst reports whether a declarator's outermost pointer modifier is
// const-qualified — the only place const-ness attaches in this grammar.
func hasTopConst(spec parse.TypeSpec) bool {
	isConst := false
	for _, m := range spec.Mods {
		if ptr, ok := m.(parse.PtrMod); ok {
			isConst = ptr.Const
		}
	}
	return isConst
}

func (e *Elaborator) declareVar(spec parse.TypeSpec, name string, line int) (*Symbol, error) {
	t, err := e.buildType(spec, line)
	if err != nil {
		return nil, err
	}
	if t.IsVoid() {
		return nil, diag.New(diag.KindBadDeclaration, e.File, line, "Variable declared as void type")
	}
	isConst := hasTopConst(spec)
	handle := e.Symbols.Put(symtab.Symbol{Name: name, Type: t, IsConst: isConst})
	if handle == nil {
		return nil, diag.New(diag.KindRedeclaration, e.File, line, "Redeclaration of '"+name+"'")
	}
	sym := &Symbol{Name: name, Type: t, IsConst: isConst, IsGlobal: handle.IsGlobal}
	e.symOf[handle] = sym
	return sym, nil
}

func (e *Elaborator) paramTypes(params []parse.Param) ([]*sctypes.Type, error) {
	types := make([]*sctypes.Type, len(params))
	for i, p := range params {
		t, err := e.buildType(p.Type, p.Line)
		if err != nil {
			return nil, err
		}
		if t.IsFunc() {
			return nil, diag.New(diag.KindBadDeclaration, e.File, p.Line, "Parameter declared as function")
		}
		types[i] = t
	}
	return types, nil
}

func (e *Elaborator) declareFunc(retSpec parse.TypeSpec, name string, params []parse.Param, line int) (*symtab.Symbol, error) {
	ret, err := e.buildType(retSpec, line)
	if err != nil {
		return nil, err
	}
	paramTypes, err := e.paramTypes(params)
	if err != nil {
		return nil, err
	}
	sig := e.Types.MakeFunc(ret, paramTypes)
	if sig == nil {
		return nil, diag.New(diag.KindBadDeclaration, e.File, line, e.Types.LastError)
	}
	handle := e.Symbols.Put(symtab.Symbol{Name: name, Type: sig})
	if handle == nil {
		return nil, diag.New(diag.KindRedeclaration, e.File, line, "Redeclaration of '"+name+"' with a different signature")
	}
	if _, ok := e.symOf[handle]; !ok {
		e.symOf[handle] = &Symbol{Name: name, Type: sig, IsGlobal: true}
	}
	return handle, nil
}

func (e *Elaborator) elaborateFuncDef(def parse.FuncDef) (*Function, error) {
	handle, err := e.declareFunc(def.RetType, def.Name, def.Params, def.Line)
	if err != nil {
		return nil, err
	}
	fnSym := e.symOf[handle]

	// Elaborate the parameter list once in a throwaway scope purely to
	// surface declaration errors early, then again in the body's own
	// scope — mirroring the source's elaborate-discard-reinsert shape.
	e.Symbols.BeginScope()
	for _, p := range def.Params {
		if p.Name == "" {
			continue
		}
		if _, err := e.declareVar(p.Type, p.Name, p.Line); err != nil {
			e.Symbols.EndScope()
			return nil, err
		}
	}
	e.Symbols.EndScope()

	e.Symbols.BeginScope()
	var bodyParams []*Symbol
	for _, p := range def.Params {
		if p.Name == "" {
			continue
		}
		sym, err := e.declareVar(p.Type, p.Name, p.Line)
		if err != nil {
			e.Symbols.EndScope()
			return nil, err
		}
		bodyParams = append(bodyParams, sym)
	}

	retTy := fnSym.Type.Ret
	prevRetTy := e.retTy
	e.retTy = retTy
	body, err := e.elaborateCompound(def.Body)
	e.retTy = prevRetTy
	e.Symbols.EndScope()
	if err != nil {
		return nil, err
	}

	if !checkReturn(body, retTy) {
		return nil, diag.New(diag.KindReturnPath, e.File, def.Line, "Function '"+def.Name+"' does not return on every path")
	}

	return &Function{Name: def.Name, Sym: fnSym, Params: bodyParams, Body: body, ReturnType: retTy}, nil
}

func (e *Elaborator) elaborateCompound(c *parse.Compound) (*CompoundStmt, error) {
	out := &CompoundStmt{Ln: c.Line}
	for _, s := range c.Stmts {
		stmt, err := e.elaborateStmt(s)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, stmt)
	}
	return out, nil
}

func (e *Elaborator) elaborateStmt(s parse.Stmt) (Stmt, error) {
	switch st := s.(type) {
	case parse.LocalVarDecl:
		sym, err := e.declareVar(st.Type, st.Name, st.Line)
		if err != nil {
			return nil, err
		}
		return &LocalDeclStmt{Sym: sym, Ln: st.Line}, nil
	case parse.Assign:
		return e.elaborateAssign(st)
	case parse.PrintStmt:
		val, err := e.elaborateExpr(st.Val)
		if err != nil {
			return nil, err
		}
		if ok, msg := e.Types.CheckStmtUnary(sctypes.StmtPrint, val.Type()); !ok {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, msg).WithAux(val.Type().String())
		}
		return &PrintStmt{Val: val, Ln: st.Line}, nil
	case parse.ReadStmt:
		target, err := e.elaborateExpr(st.Target)
		if err != nil {
			return nil, err
		}
		lv, ok := target.(LValue)
		if !ok {
			return nil, diag.New(diag.KindConstViolation, e.File, st.Line, "Read target must be an l-value")
		}
		if lv.IsConst() {
			return nil, diag.New(diag.KindConstViolation, e.File, st.Line, "Cannot read into a const-qualified l-value")
		}
		if ok, msg := e.Types.CheckStmtUnary(sctypes.StmtRead, target.Type()); !ok {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, msg).WithAux(target.Type().String())
		}
		return &ReadStmt{Target: lv, Ln: st.Line}, nil
	case *parse.Compound:
		e.Symbols.BeginScope()
		c, err := e.elaborateCompound(st)
		e.Symbols.EndScope()
		return c, err
	case parse.If:
		cond, err := e.elaborateExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Type() != sctypes.MakeBool() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, "Condition of if must be of type bool").WithAux(cond.Type().String())
		}
		then, err := e.elaborateStmt(st.Then)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Ln: st.Line}, nil
	case parse.IfElse:
		cond, err := e.elaborateExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Type() != sctypes.MakeBool() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, "Condition of if must be of type bool").WithAux(cond.Type().String())
		}
		then, err := e.elaborateStmt(st.Then)
		if err != nil {
			return nil, err
		}
		els, err := e.elaborateStmt(st.Else)
		if err != nil {
			return nil, err
		}
		return &IfElseStmt{Cond: cond, Then: then, Else: els, Ln: st.Line}, nil
	case parse.While:
		cond, err := e.elaborateExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Type() != sctypes.MakeBool() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, "Condition of while must be of type bool").WithAux(cond.Type().String())
		}
		e.loopSeen++
		body, err := e.elaborateStmt(st.Body)
		e.loopSeen--
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body, Ln: st.Line}, nil
	case parse.DoWhile:
		e.loopSeen++
		body, err := e.elaborateStmt(st.Body)
		e.loopSeen--
		if err != nil {
			return nil, err
		}
		cond, err := e.elaborateExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Type() != sctypes.MakeBool() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, "Condition of do-while must be of type bool").WithAux(cond.Type().String())
		}
		return &DoWhileStmt{Body: body, Cond: cond, Ln: st.Line}, nil
	case parse.For:
		e.Symbols.BeginScope()
		defer e.Symbols.EndScope()
		var pre Stmt
		if st.Pre != nil {
			p, err := e.elaborateStmt(st.Pre)
			if err != nil {
				return nil, err
			}
			pre = p
		}
		var cond Expr
		if st.Cond != nil {
			c, err := e.elaborateExpr(st.Cond)
			if err != nil {
				return nil, err
			}
			if c.Type() != sctypes.MakeBool() {
				return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, "Condition of for must be of type bool").WithAux(c.Type().String())
			}
			cond = c
		}
		var inc Stmt
		if st.Inc != nil {
			i, err := e.elaborateStmt(st.Inc)
			if err != nil {
				return nil, err
			}
			inc = i
		}
		e.loopSeen++
		body, err := e.elaborateStmt(st.Body)
		e.loopSeen--
		if err != nil {
			return nil, err
		}
		return &ForStmt{Pre: pre, Cond: cond, Inc: inc, Body: body, Ln: st.Line}, nil
	case parse.Break:
		if e.loopSeen == 0 {
			return nil, diag.New(diag.KindLoopControl, e.File, st.Line, "Break statement outside loop")
		}
		return &BreakStmt{Ln: st.Line}, nil
	case parse.Continue:
		if e.loopSeen == 0 {
			return nil, diag.New(diag.KindLoopControl, e.File, st.Line, "Continue statement outside loop")
		}
		return &ContinueStmt{Ln: st.Line}, nil
	case parse.ExprStmt:
		call, err := e.elaborateCall(st.Call)
		if err != nil {
			return nil, err
		}
		if !call.ResultTy.IsVoid() {
			return nil, diag.New(diag.KindIgnoredResult, e.File, st.Line, "Ignored non-void function result")
		}
		return &CallStmt{Call: call, Ln: st.Line}, nil
	case parse.Return:
		return e.elaborateReturn(st)
	default:
		panic(diag.Invariant{Message: "unhandled statement kind during elaboration"})
	}
}

func (e *Elaborator) elaborateAssign(st parse.Assign) (Stmt, error) {
	lhsExpr, err := e.elaborateExpr(st.LHS)
	if err != nil {
		return nil, err
	}
	lv, ok := lhsExpr.(LValue)
	if !ok {
		return nil, diag.New(diag.KindConstViolation, e.File, st.Line, "Left-hand side of assignment must be an l-value")
	}
	if lv.IsConst() {
		return nil, diag.New(diag.KindConstViolation, e.File, st.Line, "Cannot assign to a const-qualified l-value")
	}
	rhsExpr, err := e.elaborateExpr(st.RHS)
	if err != nil {
		return nil, err
	}
	if ok, msg := e.Types.CheckAssign(lv.Type(), rhsExpr.Type()); !ok {
		if msg == "" {
			msg = "Type mismatch in assignment"
		}
		return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, msg).WithAux(rhsExpr.Type().String())
	}
	return &AssignStmt{LHS: lv, RHS: rhsExpr, Ln: st.Line}, nil
}

func (e *Elaborator) elaborateReturn(st parse.Return) (Stmt, error) {
	if st.Val == nil {
		if e.retTy != nil && !e.retTy.IsVoid() {
			return nil, diag.New(diag.KindReturnPath, e.File, st.Line, "Missing return value in a non-void function")
		}
		return &ReturnStmt{Ln: st.Line}, nil
	}
	val, err := e.elaborateExpr(st.Val)
	if err != nil {
		return nil, err
	}
	if e.retTy != nil {
		if ok, msg := e.Types.CheckAssign(e.retTy, val.Type()); !ok {
			if msg == "" {
				msg = "Return value's type does not match the function's declared return type"
			}
			return nil, diag.New(diag.KindTypeMismatch, e.File, st.Line, msg).WithAux(val.Type().String())
		}
	}
	return &ReturnStmt{Val: val, Ln: st.Line}, nil
}

func (e *Elaborator) elaborateExpr(pe parse.Expr) (Expr, error) {
	switch ex := pe.(type) {
	case parse.IntLit:
		return &IntLit{Value: ex.Value, Ln: ex.Line}, nil
	case parse.FloatLit:
		return &FloatLit{Value: ex.Value, Ln: ex.Line}, nil
	case parse.StringLit:
		return &StringLit{Value: ex.Value, Ln: ex.Line}, nil
	case parse.BoolLit:
		return &BoolLit{Value: ex.Value, Ln: ex.Line}, nil
	case parse.Ident:
		handle := e.Symbols.Get(ex.Name)
		if handle == nil {
			return nil, diag.New(diag.KindUndeclared, e.File, ex.Line, "Undeclared symbol '"+ex.Name+"'")
		}
		return &SymbolRef{Sym: e.astSymbol(handle), Ln: ex.Line}, nil
	case parse.Unary:
		return e.elaborateUnary(ex)
	case parse.Binary:
		return e.elaborateBinary(ex)
	case parse.Ternary:
		cond, err := e.elaborateExpr(ex.Cond)
		if err != nil {
			return nil, err
		}
		then, err := e.elaborateExpr(ex.Then)
		if err != nil {
			return nil, err
		}
		els, err := e.elaborateExpr(ex.Else)
		if err != nil {
			return nil, err
		}
		result := e.Types.ResultTernary(cond.Type(), then.Type(), els.Type())
		if result == nil {
			return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line,
				"Ternary condition must be bool and both branches must share the same type").
				WithAux(then.Type().String() + " vs " + els.Type().String())
		}
		return &TernaryExpr{Cond: cond, Then: then, Else: els, ResultTy: result, Ln: ex.Line}, nil
	case parse.Index:
		base, err := e.elaborateExpr(ex.Base)
		if err != nil {
			return nil, err
		}
		idx, err := e.elaborateExpr(ex.Idx)
		if err != nil {
			return nil, err
		}
		result := e.Types.ResultBin(sctypes.ArrayIndex, base.Type(), idx.Type())
		if result == nil {
			return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line, "Cannot index this type").WithAux(base.Type().String())
		}
		constElem := base.Type().Category == sctypes.Ptr && base.Type().PointsToConst
		return &IndexExpr{Base: base, Idx: idx, ResultTy: result, ConstElem: constElem, Ln: ex.Line}, nil
	case *parse.Call:
		return e.elaborateCall(ex)
	default:
		panic(diag.Invariant{Message: "unhandled expression kind during elaboration"})
	}
}

func (e *Elaborator) astSymbol(handle *symtab.Symbol) *Symbol {
	if sym, ok := e.symOf[handle]; ok {
		return sym
	}
	sym := &Symbol{Name: handle.Name, Type: handle.Type, IsConst: handle.IsConst, IsGlobal: handle.IsGlobal}
	e.symOf[handle] = sym
	return sym
}

func (e *Elaborator) elaborateUnary(ex parse.Unary) (Expr, error) {
	operand, err := e.elaborateExpr(ex.Operand)
	if err != nil {
		return nil, err
	}
	switch ex.Op {
	case parse.OpDeref:
		result := e.Types.ResultUn(sctypes.Deref, operand.Type())
		if result == nil {
			return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line, "Cannot dereference a non-pointer type").WithAux(operand.Type().String())
		}
		return &DerefExpr{Ptr: operand, ResultTy: result, ConstVal: operand.Type().PointsToConst, Ln: ex.Line}, nil
	case parse.OpAddr:
		lv, ok := operand.(LValue)
		if !ok {
			return nil, diag.New(diag.KindBadDeclaration, e.File, ex.Line, "Cannot take the address of a non-l-value")
		}
		ptrTy := e.Types.MakePtr(operand.Type(), lv.IsConst())
		return &UnaryExpr{Op: Addr, Operand: operand, ResultTy: ptrTy, Ln: ex.Line}, nil
	case parse.OpNeg:
		result := e.Types.ResultUn(sctypes.Neg, operand.Type())
		if result == nil {
			return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line, "Unary '-' requires an int or float operand").WithAux(operand.Type().String())
		}
		return &UnaryExpr{Op: Neg, Operand: operand, ResultTy: result, Ln: ex.Line}, nil
	case parse.OpNot:
		result := e.Types.ResultUn(sctypes.Not, operand.Type())
		if result == nil {
			return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line, "Unary '!' requires a bool operand").WithAux(operand.Type().String())
		}
		return &UnaryExpr{Op: Not, Operand: operand, ResultTy: result, Ln: ex.Line}, nil
	default:
		panic(diag.Invariant{Message: "unknown unary operator during elaboration"})
	}
}

func binOpClass(op parse.BinaryOp) sctypes.BinOpClass {
	switch op {
	case parse.OpAdd, parse.OpSub:
		return sctypes.AddSub
	case parse.OpMul, parse.OpDiv:
		return sctypes.OtherArith
	case parse.OpEq, parse.OpNeq, parse.OpLt, parse.OpLe, parse.OpGt, parse.OpGe:
		return sctypes.Comp
	case parse.OpAnd, parse.OpOr:
		return sctypes.Logic
	default:
		panic(diag.Invariant{Message: "unknown binary operator class during elaboration"})
	}
}

func astBinOp(op parse.BinaryOp) BinOp {
	switch op {
	case parse.OpAdd:
		return Add
	case parse.OpSub:
		return Sub
	case parse.OpMul:
		return Mul
	case parse.OpDiv:
		return Div
	case parse.OpEq:
		return Eq
	case parse.OpNeq:
		return Neq
	case parse.OpLt:
		return Lt
	case parse.OpLe:
		return Le
	case parse.OpGt:
		return Gt
	case parse.OpGe:
		return Ge
	case parse.OpAnd:
		return And
	case parse.OpOr:
		return Or
	default:
		panic(diag.Invariant{Message: "unknown binary operator during elaboration"})
	}
}

func (e *Elaborator) elaborateBinary(ex parse.Binary) (Expr, error) {
	left, err := e.elaborateExpr(ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.elaborateExpr(ex.Right)
	if err != nil {
		return nil, err
	}
	result := e.Types.ResultBin(binOpClass(ex.Op), left.Type(), right.Type())
	if result == nil {
		return nil, diag.New(diag.KindTypeMismatch, e.File, ex.Line, "Operand types are incompatible with this operator").
			WithAux(left.Type().String() + " and " + right.Type().String())
	}
	return &BinaryExpr{Op: astBinOp(ex.Op), Left: left, Right: right, ResultTy: result, Ln: ex.Line}, nil
}

func (e *Elaborator) elaborateCall(pc *parse.Call) (*CallExpr, error) {
	var fnType *sctypes.Type
	var direct *Symbol
	var indirect Expr

	if id, ok := pc.Callee.(parse.Ident); ok {
		handle := e.Symbols.Get(id.Name)
		if handle == nil {
			return nil, diag.New(diag.KindUndeclared, e.File, id.Line, "Undeclared symbol '"+id.Name+"'")
		}
		if !handle.Type.IsFunc() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, id.Line, "'"+id.Name+"' is not callable").WithAux(handle.Type.String())
		}
		direct = e.astSymbol(handle)
		fnType = handle.Type
	} else {
		callee, err := e.elaborateExpr(pc.Callee)
		if err != nil {
			return nil, err
		}
		if !callee.Type().IsFunc() {
			return nil, diag.New(diag.KindTypeMismatch, e.File, pc.Line, "Call target is not a function").WithAux(callee.Type().String())
		}
		indirect = callee
		fnType = callee.Type()
	}

	args := make([]Expr, len(pc.Args))
	argTypes := make([]*sctypes.Type, len(pc.Args))
	for i, a := range pc.Args {
		ae, err := e.elaborateExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = ae
		argTypes[i] = ae.Type()
	}

	ret := e.Types.ResultCall(fnType, argTypes)
	if ret == nil {
		return nil, diag.New(diag.KindTypeMismatch, e.File, pc.Line, "Argument types do not match the function's signature")
	}
	return &CallExpr{Direct: direct, Indirect: indirect, Args: args, ResultTy: ret, Ln: pc.Line}, nil
}
