package tac

import (
	"sclp/internal/ast"
	"sclp/internal/diag"
	"sclp/internal/sctypes"
)

// Generate lowers an elaborated program into TAC. One LabelAllocator is
// shared across every function so labels never collide across the whole
// translation unit.
func Generate(prog *ast.Program) *Program {
	labels := NewLabelAllocator()

	globals := make([]*Sym, len(prog.Globals))
	for i, g := range prog.Globals {
		globals[i] = &Sym{Name: g.Name, Ty: g.Type.TACType(), InMem: true, IsGlobal: true, FPOffset: -1}
	}

	out := &Program{Globals: globals}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, generateFunction(fn, labels))
	}
	return out
}

func generateFunction(fn *ast.Function, labels *LabelAllocator) *Function {
	ctx := NewContext(labels)

	params := make([]*Sym, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ctx.AddParam(p)
	}

	ctx.ReturnLabel = ctx.GetLabel()
	if !fn.ReturnType.IsVoid() {
		ctx.ReturnSym = ctx.GetStemp(fn.ReturnType.TACType())
	}

	g := &Generator{ctx: ctx}
	fn.Body.Accept(g)

	body := g.out
	// A void function only needs its return label when an explicit return
	// jumps to it.
	needReturnLabel := ctx.ReturnSym != nil
	for _, s := range body {
		if gt, ok := s.(*GotoStmt); ok && gt.Label == ctx.ReturnLabel {
			needReturnLabel = true
			break
		}
	}
	if needReturnLabel {
		body = append(body, ctx.ReturnLabel)
	}
	if ctx.ReturnSym != nil {
		body = append(body, &ReturnStmt{Ret: ctx.ReturnSym})
	}

	return &Function{
		Name:           fn.Name,
		Params:         params,
		Body:           body,
		ReturnSym:      ctx.ReturnSym,
		StackFrameSize: ctx.StackFrameSize,
		ParamFrameSize: ctx.ParamFrameSize,
	}
}

// Generator lowers one function's typed AST body into TAC, implementing
// ast.ExprVisitor and ast.StmtVisitor. Statements accumulate into out;
// sub builds a nested statement list (an if/loop body, one ternary arm)
// that the caller splices in at the right point once control flow around
// it is known.
type Generator struct {
	ctx *Context
	out []Stmt
}

func (g *Generator) emit(s Stmt) { g.out = append(g.out, s) }

func (g *Generator) subStmt(f func()) []Stmt {
	saved := g.out
	g.out = nil
	f()
	built := g.out
	g.out = saved
	return built
}

func (g *Generator) subExpr(f func() Val) (Val, []Stmt) {
	var v Val
	built := g.subStmt(func() { v = f() })
	return v, built
}

func (g *Generator) genValue(e ast.Expr) Val {
	return e.Accept(g).(Val)
}

func (g *Generator) genAddr(e ast.LValue) Val {
	switch lv := e.(type) {
	case *ast.SymbolRef:
		t := g.ctx.GetTemp(sctypes.TACPtr)
		s := g.ctx.GetSymbol(lv.Sym)
		g.emit(&AssignStmt{Lhs: t, Rhs: &AddrExpr{Arg: s}})
		return t
	case *ast.DerefExpr:
		// &*x is always x.
		return g.genValue(lv.Ptr)
	case *ast.IndexExpr:
		return g.genIndexAddr(lv)
	default:
		diag.Assert(false, "tac: %T is not addressable", e)
		return nil
	}
}

func (g *Generator) genIndexAddr(e *ast.IndexExpr) Val {
	var b Val
	if e.Base.Type().Category == sctypes.Ptr {
		b = g.genValue(e.Base)
	} else {
		b = g.genAddr(e.Base.(ast.LValue))
	}
	idx := g.genValue(e.Idx)
	o := g.ctx.GetTemp(sctypes.TACInt)
	g.emit(&AssignStmt{Lhs: o, Rhs: &BinExpr{Op: Mul, Lhs: &IntLit{Value: int64(e.ResultTy.ByteSize())}, Rhs: idx, Ty: sctypes.TACInt}})
	p := g.ctx.GetTemp(sctypes.TACPtr)
	g.emit(&AssignStmt{Lhs: p, Rhs: &BinExpr{Op: Add, Lhs: b, Rhs: o, Ty: sctypes.TACPtr}})
	return p
}

// --- ast.ExprVisitor ---

func (g *Generator) VisitIntLit(e *ast.IntLit) interface{}    { return &IntLit{Value: e.Value} }
func (g *Generator) VisitFloatLit(e *ast.FloatLit) interface{} { return &FloatLit{Value: e.Value} }
func (g *Generator) VisitStringLit(e *ast.StringLit) interface{} { return &StrLit{Value: e.Value} }

func (g *Generator) VisitBoolLit(e *ast.BoolLit) interface{} {
	if e.Value {
		return &IntLit{Value: 1}
	}
	return &IntLit{Value: 0}
}

func (g *Generator) VisitSymbolRef(e *ast.SymbolRef) interface{} {
	return g.ctx.GetSymbol(e.Sym)
}

func (g *Generator) VisitUnaryExpr(e *ast.UnaryExpr) interface{} {
	switch e.Op {
	case ast.Addr:
		return g.genAddr(e.Operand.(ast.LValue))
	case ast.Not:
		l := g.genValue(e.Operand)
		r := g.ctx.GetTemp(sctypes.TACBool)
		g.emit(&AssignStmt{Lhs: r, Rhs: &UnExpr{Op: Not, Lhs: l, Ty: sctypes.TACBool}})
		return r
	default: // ast.Neg
		l := g.genValue(e.Operand)
		ty := e.ResultTy.TACType()
		r := g.ctx.GetTemp(ty)
		g.emit(&AssignStmt{Lhs: r, Rhs: &UnExpr{Op: Neg, Lhs: l, Ty: ty}})
		return r
	}
}

var binOpTable = map[ast.BinOp]BinOp{
	ast.Add: Add, ast.Sub: Sub, ast.Mul: Mul, ast.Div: Div,
	ast.Eq: Equal, ast.Neq: NotEqual, ast.Gt: Greater, ast.Lt: Less,
	ast.Ge: GreaterEqual, ast.Le: LessEqual, ast.And: And, ast.Or: Or,
}

func isComparisonOrLogical(op ast.BinOp) bool {
	switch op {
	case ast.Eq, ast.Neq, ast.Gt, ast.Lt, ast.Ge, ast.Le, ast.And, ast.Or:
		return true
	default:
		return false
	}
}

func (g *Generator) VisitBinaryExpr(e *ast.BinaryExpr) interface{} {
	// Pointer + integer scales the integer operand by the pointee size,
	// mirroring ordinary C pointer arithmetic.
	if e.Op == ast.Add && e.Left.Type().Category == sctypes.Ptr {
		l := g.genValue(e.Left)
		r := g.genValue(e.Right)
		o := g.ctx.GetTemp(sctypes.TACInt)
		g.emit(&AssignStmt{Lhs: o, Rhs: &BinExpr{Op: Mul, Lhs: r, Rhs: &IntLit{Value: int64(e.Left.Type().PointsTo.ByteSize())}, Ty: sctypes.TACInt}})
		s := g.ctx.GetTemp(sctypes.TACPtr)
		g.emit(&AssignStmt{Lhs: s, Rhs: &BinExpr{Op: Add, Lhs: l, Rhs: o, Ty: sctypes.TACPtr}})
		return s
	}

	l := g.genValue(e.Left)
	r := g.genValue(e.Right)
	op := binOpTable[e.Op]

	ty := e.ResultTy.TACType()
	if isComparisonOrLogical(e.Op) {
		ty = sctypes.TACBool
	}
	result := g.ctx.GetTemp(ty)
	g.emit(&AssignStmt{Lhs: result, Rhs: &BinExpr{Op: op, Lhs: l, Rhs: r, Ty: ty}})
	return result
}

func (g *Generator) VisitTernaryExpr(e *ast.TernaryExpr) interface{} {
	c := g.genValue(e.Cond)

	falseLabel := g.ctx.GetLabel()
	exitLabel := g.ctx.GetLabel()
	result := g.ctx.GetStemp(e.ResultTy.TACType())

	t, truePart := g.subExpr(func() Val { return g.genValue(e.Then) })
	f, falsePart := g.subExpr(func() Val { return g.genValue(e.Else) })

	notC := g.ctx.GetTemp(sctypes.TACBool)
	g.emit(&AssignStmt{Lhs: notC, Rhs: &UnExpr{Op: Not, Lhs: c, Ty: sctypes.TACBool}})
	g.emit(&IfGotoStmt{Cond: notC, Label: falseLabel})
	g.out = append(g.out, truePart...)
	g.emit(&AssignStmt{Lhs: result, Rhs: t})
	g.emit(&GotoStmt{Label: exitLabel})
	g.emit(falseLabel)
	g.out = append(g.out, falsePart...)
	g.emit(&AssignStmt{Lhs: result, Rhs: f})
	g.emit(exitLabel)

	return result
}

func (g *Generator) VisitIndexExpr(e *ast.IndexExpr) interface{} {
	ptr := g.genIndexAddr(e)
	ty := e.ResultTy.TACType()
	r := g.ctx.GetTemp(ty)
	g.emit(&AssignStmt{Lhs: r, Rhs: &DerefExpr{Arg: ptr, Ty: ty}})
	return r
}

func (g *Generator) VisitDerefExpr(e *ast.DerefExpr) interface{} {
	a := g.genValue(e.Ptr)
	ty := e.ResultTy.TACType()
	r := g.ctx.GetTemp(ty)
	g.emit(&AssignStmt{Lhs: r, Rhs: &DerefExpr{Arg: a, Ty: ty}})
	return r
}

func (g *Generator) VisitCallExpr(e *ast.CallExpr) interface{} {
	var result *Sym
	if !e.ResultTy.IsVoid() {
		result = g.ctx.GetTemp(e.ResultTy.TACType())
	}

	args := make([]Val, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.genValue(a)
	}

	if e.Direct != nil {
		call := &FuncCallExpr{FuncName: e.Direct.Name, Args: args}
		if result != nil {
			call.Ty = result.Ty
			g.emit(&AssignStmt{Lhs: result, Rhs: call})
			return result
		}
		g.emit(&CallStmt{Call: call})
		return nil
	}

	// Indirect call: the function-pointer operand is evaluated after the
	// arguments, matching the order the original compiler pushes them.
	fp := g.genValue(e.Indirect)
	call := &FuncPtrCallExpr{FuncPtr: fp, Args: args}
	if result != nil {
		call.Ty = result.Ty
		g.emit(&AssignStmt{Lhs: result, Rhs: call})
		return result
	}
	g.emit(&CallStmt{Call: call})
	return nil
}

// --- ast.StmtVisitor ---

func (g *Generator) VisitAssignStmt(s *ast.AssignStmt) {
	r := g.genValue(s.RHS)
	if sr, ok := s.LHS.(*ast.SymbolRef); ok {
		l := g.ctx.GetSymbol(sr.Sym)
		g.emit(&AssignStmt{Lhs: l, Rhs: r})
		return
	}
	l := g.genAddr(s.LHS)
	g.emit(&AddrAssignStmt{Lhs: l, Rhs: r})
}

func (g *Generator) VisitPrintStmt(s *ast.PrintStmt) {
	g.emit(&PrintStmt{Arg: g.genValue(s.Val)})
}

func (g *Generator) VisitReadStmt(s *ast.ReadStmt) {
	l := g.genAddr(s.Target)
	if s.Target.Type().Category == sctypes.Float {
		g.emit(&ReadFloatStmt{Loc: l, Indirect: true})
	} else {
		g.emit(&ReadIntStmt{Loc: l, Indirect: true})
	}
}

func (g *Generator) VisitCompoundStmt(s *ast.CompoundStmt) {
	for _, sub := range s.Stmts {
		sub.Accept(g)
	}
}

func (g *Generator) VisitIfStmt(s *ast.IfStmt) {
	c := g.genValue(s.Cond)
	body := g.subStmt(func() { s.Then.Accept(g) })

	notC := g.ctx.GetTemp(sctypes.TACBool)
	falseLabel := g.ctx.GetLabel()

	g.emit(&AssignStmt{Lhs: notC, Rhs: &UnExpr{Op: Not, Lhs: c, Ty: sctypes.TACBool}})
	g.emit(&IfGotoStmt{Cond: notC, Label: falseLabel})
	g.out = append(g.out, body...)
	g.emit(&GotoStmt{Label: falseLabel})
	g.emit(falseLabel)
}

func (g *Generator) VisitIfElseStmt(s *ast.IfElseStmt) {
	c := g.genValue(s.Cond)
	body := g.subStmt(func() { s.Then.Accept(g) })

	notC := g.ctx.GetTemp(sctypes.TACBool)
	exitLabel := g.ctx.GetLabel()
	falseLabel := g.ctx.GetLabel()

	g.emit(&AssignStmt{Lhs: notC, Rhs: &UnExpr{Op: Not, Lhs: c, Ty: sctypes.TACBool}})
	g.emit(&IfGotoStmt{Cond: notC, Label: falseLabel})
	g.out = append(g.out, body...)
	g.emit(&GotoStmt{Label: exitLabel})
	g.emit(falseLabel)
	s.Else.Accept(g)
	g.emit(exitLabel)
}

func (g *Generator) VisitWhileStmt(s *ast.WhileStmt) {
	c, condPart := g.subExpr(func() Val { return g.genValue(s.Cond) })

	loopback := g.ctx.GetLabel()
	exit := g.ctx.GetLabel()

	var body []Stmt
	if s.Body != nil {
		oldBreak, oldCont := g.ctx.BreakLabel, g.ctx.ContinueLabel
		oldBreakUsed, oldContUsed := g.ctx.BreakUsed, g.ctx.ContinueUsed
		g.ctx.BreakLabel, g.ctx.ContinueLabel = exit, loopback
		g.ctx.BreakUsed, g.ctx.ContinueUsed = false, false
		body = g.subStmt(func() { s.Body.Accept(g) })
		g.ctx.BreakLabel, g.ctx.ContinueLabel = oldBreak, oldCont
		g.ctx.BreakUsed, g.ctx.ContinueUsed = oldBreakUsed, oldContUsed
	}

	notC := g.ctx.GetTemp(sctypes.TACBool)

	g.emit(loopback)
	g.out = append(g.out, condPart...)
	g.emit(&AssignStmt{Lhs: notC, Rhs: &UnExpr{Op: Not, Lhs: c, Ty: sctypes.TACBool}})
	g.emit(&IfGotoStmt{Cond: notC, Label: exit})
	g.out = append(g.out, body...)
	g.emit(&GotoStmt{Label: loopback})
	g.emit(exit)
}

func (g *Generator) VisitDoWhileStmt(s *ast.DoWhileStmt) {
	loopback := g.ctx.GetLabel()
	exit := g.ctx.GetLabel()

	oldBreak, oldCont := g.ctx.BreakLabel, g.ctx.ContinueLabel
	oldBreakUsed, oldContUsed := g.ctx.BreakUsed, g.ctx.ContinueUsed
	g.ctx.BreakLabel, g.ctx.ContinueLabel = exit, loopback
	g.ctx.BreakUsed, g.ctx.ContinueUsed = false, false
	body := g.subStmt(func() { s.Body.Accept(g) })
	breakUsed := g.ctx.BreakUsed
	g.ctx.BreakLabel, g.ctx.ContinueLabel = oldBreak, oldCont
	g.ctx.BreakUsed, g.ctx.ContinueUsed = oldBreakUsed, oldContUsed

	g.emit(loopback)
	g.out = append(g.out, body...)
	c := g.genValue(s.Cond)
	g.emit(&IfGotoStmt{Cond: c, Label: loopback})
	// The fall-through already lands past the loop when nothing breaks
	// out of it, so exit only needs to exist as a jump target.
	if breakUsed {
		g.emit(exit)
	}
}

func (g *Generator) VisitForStmt(s *ast.ForStmt) {
	if s.Pre != nil {
		s.Pre.Accept(g)
	}

	loopback := g.ctx.GetLabel()
	g.emit(loopback)

	var exit *Label
	if s.Cond != nil {
		exit = g.ctx.GetLabel()
		c := g.genValue(s.Cond)
		notC := g.ctx.GetTemp(sctypes.TACBool)
		g.emit(&AssignStmt{Lhs: notC, Rhs: &UnExpr{Op: Not, Lhs: c, Ty: sctypes.TACBool}})
		g.emit(&IfGotoStmt{Cond: notC, Label: exit})
	}

	if s.Body != nil {
		continueLabel := g.ctx.GetLabel()
		breakLabel := exit
		if breakLabel == nil {
			breakLabel = g.ctx.GetLabel()
		}

		oldBreak, oldCont := g.ctx.BreakLabel, g.ctx.ContinueLabel
		oldBreakUsed, oldContUsed := g.ctx.BreakUsed, g.ctx.ContinueUsed
		g.ctx.BreakLabel, g.ctx.ContinueLabel = breakLabel, continueLabel
		g.ctx.BreakUsed, g.ctx.ContinueUsed = false, false
		body := g.subStmt(func() { s.Body.Accept(g) })
		breakUsed, continueUsed := g.ctx.BreakUsed, g.ctx.ContinueUsed
		g.ctx.BreakLabel, g.ctx.ContinueLabel = oldBreak, oldCont
		g.ctx.BreakUsed, g.ctx.ContinueUsed = oldBreakUsed, oldContUsed

		g.out = append(g.out, body...)
		if continueUsed {
			g.emit(continueLabel)
		}
		// No cond means exit is still nil unless the body itself broke
		// out of the loop, in which case it needs somewhere to land.
		if exit == nil && breakUsed {
			exit = breakLabel
		}
	}

	if s.Inc != nil {
		s.Inc.Accept(g)
	}
	g.emit(&GotoStmt{Label: loopback})
	if exit != nil {
		g.emit(exit)
	}
}

func (g *Generator) VisitBreakStmt(s *ast.BreakStmt) {
	diag.Assert(g.ctx.BreakLabel != nil, "break statement reached TAC generation outside a loop")
	g.ctx.BreakUsed = true
	g.emit(&GotoStmt{Label: g.ctx.BreakLabel})
}

func (g *Generator) VisitContinueStmt(s *ast.ContinueStmt) {
	diag.Assert(g.ctx.ContinueLabel != nil, "continue statement reached TAC generation outside a loop")
	g.ctx.ContinueUsed = true
	g.emit(&GotoStmt{Label: g.ctx.ContinueLabel})
}

func (g *Generator) VisitCallStmt(s *ast.CallStmt) {
	// A bare call statement's result, if any, is simply discarded; go
	// through Accept directly since a void call returns no Val to assert.
	s.Call.Accept(g)
}

func (g *Generator) VisitReturnStmt(s *ast.ReturnStmt) {
	if s.Val != nil {
		r := g.genValue(s.Val)
		g.emit(&AssignStmt{Lhs: g.ctx.ReturnSym, Rhs: r})
	}
	g.emit(&GotoStmt{Label: g.ctx.ReturnLabel})
}

func (g *Generator) VisitLocalDeclStmt(s *ast.LocalDeclStmt) {
	g.ctx.GetSymbol(s.Sym)
}
