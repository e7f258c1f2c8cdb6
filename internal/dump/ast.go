package dump

import (
	"fmt"
	"strings"

	"sclp/internal/ast"
)

// AST renders the elaborated program: one pseudo-procedure for the global
// variable declarations (if any), then one **PROCEDURE block per function.
func AST(prog *ast.Program) string {
	var b strings.Builder
	if len(prog.Globals) > 0 {
		procedureHeader(&b, "<globals>")
		for _, g := range prog.Globals {
			fmt.Fprintf(&b, "%s%s %s\n", indentStep, g.Type.String(), g.Name)
		}
		procedureFooter(&b)
	}
	for _, fn := range prog.Functions {
		procedureHeader(&b, fn.Name)
		p := &astPrinter{b: &b, depth: 1}
		for _, s := range fn.Body.Stmts {
			p.stmt(s)
		}
		procedureFooter(&b)
	}
	return b.String()
}

type astPrinter struct {
	b     *strings.Builder
	depth int
}

func (p *astPrinter) line(format string, args ...interface{}) {
	p.b.WriteString(strings.Repeat(indentStep, p.depth))
	fmt.Fprintf(p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *astPrinter) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LocalDeclStmt:
		p.line("decl %s %s", st.Sym.Type.String(), st.Sym.Name)
	case *ast.AssignStmt:
		p.line("assign %s = %s", p.expr(st.LHS), p.expr(st.RHS))
	case *ast.PrintStmt:
		p.line("print %s", p.expr(st.Val))
	case *ast.ReadStmt:
		p.line("read %s", p.expr(st.Target))
	case *ast.CompoundStmt:
		p.depth++
		for _, sub := range st.Stmts {
			p.stmt(sub)
		}
		p.depth--
	case *ast.IfStmt:
		p.line("if %s", p.expr(st.Cond))
		p.depth++
		p.stmt(st.Then)
		p.depth--
	case *ast.IfElseStmt:
		p.line("if %s", p.expr(st.Cond))
		p.depth++
		p.stmt(st.Then)
		p.depth--
		p.line("else")
		p.depth++
		p.stmt(st.Else)
		p.depth--
	case *ast.WhileStmt:
		p.line("while %s", p.expr(st.Cond))
		p.depth++
		p.stmt(st.Body)
		p.depth--
	case *ast.DoWhileStmt:
		p.line("do")
		p.depth++
		p.stmt(st.Body)
		p.depth--
		p.line("while %s", p.expr(st.Cond))
	case *ast.ForStmt:
		p.line("for")
		p.depth++
		p.stmt(st.Body)
		p.depth--
	case *ast.BreakStmt:
		p.line("break")
	case *ast.ContinueStmt:
		p.line("continue")
	case *ast.CallStmt:
		p.line("call %s", p.expr(st.Call))
	case *ast.ReturnStmt:
		if st.Val != nil {
			p.line("return %s", p.expr(st.Val))
		} else {
			p.line("return")
		}
	default:
		p.line("<unknown stmt %T>", s)
	}
}

func (p *astPrinter) expr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", ex.Value)
	case *ast.FloatLit:
		return fmt.Sprintf("%.2f", ex.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", ex.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("%v", ex.Value)
	case *ast.SymbolRef:
		return ex.Sym.Name
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", unOpName(ex.Op), p.expr(ex.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", p.expr(ex.Left), binOpName(ex.Op), p.expr(ex.Right))
	case *ast.TernaryExpr:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(ex.Cond), p.expr(ex.Then), p.expr(ex.Else))
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", p.expr(ex.Base), p.expr(ex.Idx))
	case *ast.DerefExpr:
		return fmt.Sprintf("*%s", p.expr(ex.Ptr))
	case *ast.CallExpr:
		name := "<ptr>"
		if ex.Direct != nil {
			name = ex.Direct.Name
		}
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func unOpName(op ast.UnOp) string {
	switch op {
	case ast.Neg:
		return "-"
	case ast.Not:
		return "!"
	case ast.Deref:
		return "*"
	case ast.Addr:
		return "&"
	}
	return "?"
}

func binOpName(op ast.BinOp) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.Eq:
		return "=="
	case ast.Neq:
		return "!="
	case ast.Lt:
		return "<"
	case ast.Le:
		return "<="
	case ast.Gt:
		return ">"
	case ast.Ge:
		return ">="
	case ast.And:
		return "&&"
	case ast.Or:
		return "||"
	}
	return "?"
}
