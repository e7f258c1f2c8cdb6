package dump

import (
	"fmt"
	"strings"

	"sclp/internal/tac"
)

// TAC renders the generator's three-address code: one **PROCEDURE block
// per function, statements in emission order.
func TAC(prog *tac.Program) string {
	var b strings.Builder
	if len(prog.Globals) > 0 {
		procedureHeader(&b, "<globals>")
		for _, g := range prog.Globals {
			fmt.Fprintf(&b, "%s%s\n", indentStep, symName(g))
		}
		procedureFooter(&b)
	}
	for _, fn := range prog.Functions {
		procedureHeader(&b, fn.Name)
		for _, s := range fn.Body {
			fmt.Fprintf(&b, "%s%s\n", indentStep, tacStmt(s))
		}
		procedureFooter(&b)
	}
	return b.String()
}

func symName(s *tac.Sym) string { return s.Name }

func tacVal(v tac.Val) string {
	switch t := v.(type) {
	case *tac.Sym:
		return t.Name
	case *tac.IntLit:
		return fmt.Sprintf("%d", t.Value)
	case *tac.FloatLit:
		return fmt.Sprintf("%.2f", t.Value)
	case *tac.StrLit:
		return fmt.Sprintf("%q", t.Value)
	}
	return fmt.Sprintf("<unknown val %T>", v)
}

func tacExpr(e tac.Expr) string {
	switch ex := e.(type) {
	case tac.Val:
		return tacVal(ex)
	case *tac.BinExpr:
		return fmt.Sprintf("(%s %s %s)", tacExpr(ex.Lhs), ex.Op.PrintOp(), tacExpr(ex.Rhs))
	case *tac.UnExpr:
		return fmt.Sprintf("(%s %s)", ex.Op.PrintOp(), tacExpr(ex.Lhs))
	case *tac.FuncCallExpr:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = tacVal(a)
		}
		return fmt.Sprintf("%s(%s)", ex.FuncName, strings.Join(args, ", "))
	case *tac.FuncPtrCallExpr:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = tacVal(a)
		}
		return fmt.Sprintf("(*%s)(%s)", tacVal(ex.FuncPtr), strings.Join(args, ", "))
	case *tac.DerefExpr:
		return fmt.Sprintf("*%s", tacVal(ex.Arg))
	case *tac.AddrExpr:
		return fmt.Sprintf("&%s", ex.Arg.Name)
	}
	return fmt.Sprintf("<unknown expr %T>", e)
}

func tacStmt(s tac.Stmt) string {
	switch st := s.(type) {
	case *tac.PrintStmt:
		return fmt.Sprintf("print %s", tacVal(st.Arg))
	case *tac.ReadIntStmt:
		if st.Indirect {
			return fmt.Sprintf("*%s = readint", tacVal(st.Loc))
		}
		return fmt.Sprintf("%s = readint", tacVal(st.Loc))
	case *tac.ReadFloatStmt:
		if st.Indirect {
			return fmt.Sprintf("*%s = readfloat", tacVal(st.Loc))
		}
		return fmt.Sprintf("%s = readfloat", tacVal(st.Loc))
	case *tac.AssignStmt:
		return fmt.Sprintf("%s = %s", st.Lhs.Name, tacExpr(st.Rhs))
	case *tac.AddrAssignStmt:
		return fmt.Sprintf("*%s = %s", tacVal(st.Lhs), tacExpr(st.Rhs))
	case *tac.Label:
		return fmt.Sprintf("%s:", st.Name)
	case *tac.GotoStmt:
		return fmt.Sprintf("goto %s", st.Label.Name)
	case *tac.IfGotoStmt:
		return fmt.Sprintf("if %s goto %s", tacVal(st.Cond), st.Label.Name)
	case *tac.CallStmt:
		return tacExpr(st.Call)
	case *tac.ReturnStmt:
		if st.Ret != nil {
			return fmt.Sprintf("return %s", st.Ret.Name)
		}
		return "return"
	}
	return fmt.Sprintf("<unknown stmt %T>", s)
}
