package parse

import (
	"fmt"
	"strconv"

	"sclp/internal/diag"
	"sclp/internal/token"
)

// Parser is a recursive-descent parser over a flat token stream, in the
// shape of sentra's own Parser: a token slice, a cursor, and a per-call
// file name for diagnostics.
type Parser struct {
	tokens  []token.Token
	current int
	file    string
}

func New(tokens []token.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse consumes the whole token stream, returning the first syntax error
// encountered.
func Parse(tokens []token.Token, file string) (*Tree, error) {
	p := New(tokens, file)
	tree := &Tree{File: file}
	for !p.check(token.EOF) {
		item, err := p.topLevel()
		if err != nil {
			return nil, err
		}
		tree.Items = append(tree.Items, item)
	}
	return tree, nil
}

var primitiveTypes = map[token.Type]bool{
	token.Void: true, token.BoolKw: true, token.IntKw: true,
	token.FloatKw: true, token.StringKw: true,
}

func (p *Parser) topLevel() (TopLevel, error) {
	if !primitiveTypes[p.peek().Type] {
		return nil, p.errorf("expected a type at start of top-level declaration")
	}
	primLine := p.peek().Line
	prim := p.advance().Type

	mods, err := p.modifierChain()
	if err != nil {
		return nil, err
	}

	if !p.check(token.Ident) {
		return nil, p.errorf("expected a name in declaration")
	}
	name := p.advance().Lexeme

	if p.check(token.LParen) {
		params, err := p.paramList()
		if err != nil {
			return nil, err
		}
		if p.match(token.LBrace) {
			body, err := p.compoundBody(primLine)
			if err != nil {
				return nil, err
			}
			return FuncDef{RetType: TypeSpec{Primitive: prim, Mods: mods}, Name: name, Params: params, Body: body, Line: primLine}, nil
		}
		if _, err := p.expect(token.Semicolon, "expected ';' after function declaration"); err != nil {
			return nil, err
		}
		return FuncDecl{RetType: TypeSpec{Primitive: prim, Mods: mods}, Name: name, Params: params, Line: primLine}, nil
	}

	arrMods, err := p.arraySuffixes()
	if err != nil {
		return nil, err
	}
	mods = append(mods, arrMods...)

	if _, err := p.expect(token.Semicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return VarDecl{Type: TypeSpec{Primitive: prim, Mods: mods}, Name: name, Line: primLine}, nil
}

// modifierChain parses the '*' modifiers that precede a declarator's name;
// array dimensions follow the name and are parsed by arraySuffixes.
func (p *Parser) modifierChain() ([]Modifier, error) {
	var mods []Modifier
	for {
		if p.match(token.Star) {
			c := p.match(token.Const)
			mods = append(mods, PtrMod{Const: c})
			continue
		}
		break
	}
	return mods, nil
}

func (p *Parser) arraySuffixes() ([]Modifier, error) {
	var mods []Modifier
	for p.check(token.LBracket) {
		line := p.peek().Line
		p.advance()
		if !p.check(token.IntLit) {
			return nil, p.errorf("expected array size")
		}
		size, _ := strconv.Atoi(p.advance().Lexeme)
		if _, err := p.expect(token.RBracket, "expected ']'"); err != nil {
			return nil, err
		}
		mods = append(mods, ArrayMod{Size: size, Line: line})
	}
	return mods, nil
}

func (p *Parser) paramList() ([]Param, error) {
	p.advance() // '('
	var params []Param
	if !p.check(token.RParen) {
		for {
			param, err := p.param()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) param() (Param, error) {
	if !primitiveTypes[p.peek().Type] {
		return Param{}, p.errorf("expected a parameter type")
	}
	line := p.peek().Line
	prim := p.advance().Type
	mods, err := p.modifierChain()
	if err != nil {
		return Param{}, err
	}
	name := ""
	if p.check(token.Ident) {
		name = p.advance().Lexeme
	}
	arrMods, err := p.arraySuffixes()
	if err != nil {
		return Param{}, err
	}
	mods = append(mods, arrMods...)
	return Param{Type: TypeSpec{Primitive: prim, Mods: mods}, Name: name, Line: line}, nil
}

func (p *Parser) compoundBody(fallbackLine int) (*Compound, error) {
	line := fallbackLine
	c := &Compound{Line: line}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		c.Stmts = append(c.Stmts, s)
	}
	if _, err := p.expect(token.RBrace, "expected '}'"); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) statement() (Stmt, error) {
	line := p.peek().Line
	switch {
	case p.check(token.LBrace):
		p.advance()
		return p.compoundBody(line)
	case primitiveTypes[p.peek().Type]:
		return p.localVarDecl()
	case p.match(token.If):
		return p.ifStatement(line)
	case p.match(token.While):
		return p.whileStatement(line)
	case p.match(token.Do):
		return p.doWhileStatement(line)
	case p.match(token.For):
		return p.forStatement(line)
	case p.match(token.Break):
		_, err := p.expect(token.Semicolon, "expected ';' after break")
		return Break{Line: line}, err
	case p.match(token.Continue):
		_, err := p.expect(token.Semicolon, "expected ';' after continue")
		return Continue{Line: line}, err
	case p.match(token.Return):
		return p.returnStatement(line)
	case p.match(token.Print):
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon, "expected ';' after print"); err != nil {
			return nil, err
		}
		return PrintStmt{Val: val, Line: line}, nil
	case p.match(token.Read):
		target, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon, "expected ';' after read"); err != nil {
			return nil, err
		}
		return ReadStmt{Target: target, Line: line}, nil
	default:
		return p.exprOrAssignStatement(line)
	}
}

func (p *Parser) localVarDecl() (Stmt, error) {
	line := p.peek().Line
	prim := p.advance().Type
	mods, err := p.modifierChain()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Ident) {
		return nil, p.errorf("expected a name in local declaration")
	}
	name := p.advance().Lexeme
	arrMods, err := p.arraySuffixes()
	if err != nil {
		return nil, err
	}
	mods = append(mods, arrMods...)
	if _, err := p.expect(token.Semicolon, "expected ';' after local declaration"); err != nil {
		return nil, err
	}
	return LocalVarDecl{Type: TypeSpec{Primitive: prim, Mods: mods}, Name: name, Line: line}, nil
}

func (p *Parser) ifStatement(line int) (Stmt, error) {
	if _, err := p.expect(token.LParen, "expected '(' after if"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	if p.match(token.Else) {
		els, err := p.statement()
		if err != nil {
			return nil, err
		}
		return IfElse{Cond: cond, Then: then, Else: els, Line: line}, nil
	}
	return If{Cond: cond, Then: then, Line: line}, nil
}

func (p *Parser) whileStatement(line int) (Stmt, error) {
	if _, err := p.expect(token.LParen, "expected '(' after while"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return While{Cond: cond, Body: body, Line: line}, nil
}

func (p *Parser) doWhileStatement(line int) (Stmt, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.While, "expected 'while' after do body"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, "expected '(' after while"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after do-while"); err != nil {
		return nil, err
	}
	return DoWhile{Body: body, Cond: cond, Line: line}, nil
}

func (p *Parser) forStatement(line int) (Stmt, error) {
	if _, err := p.expect(token.LParen, "expected '(' after for"); err != nil {
		return nil, err
	}
	var pre Stmt
	preIsDecl := false
	if !p.check(token.Semicolon) {
		if primitiveTypes[p.peek().Type] {
			decl, err := p.localVarDecl()
			if err != nil {
				return nil, err
			}
			pre = decl
			preIsDecl = true
		} else {
			a, err := p.assignOnly()
			if err != nil {
				return nil, err
			}
			pre = a
		}
	}
	if !preIsDecl {
		if _, err := p.expect(token.Semicolon, "expected ';'"); err != nil {
			return nil, err
		}
	}
	var cond Expr
	if !p.check(token.Semicolon) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.Semicolon, "expected ';'"); err != nil {
		return nil, err
	}
	var inc Stmt
	if !p.check(token.RParen) {
		a, err := p.assignOnly()
		if err != nil {
			return nil, err
		}
		inc = a
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return For{Pre: pre, Cond: cond, Inc: inc, Body: body, Line: line}, nil
}

// assignOnly parses a bare `lhs = rhs` with no trailing semicolon, for use
// in for-loop headers.
func (p *Parser) assignOnly() (Stmt, error) {
	line := p.peek().Line
	lhs, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign, "expected '=' in assignment"); err != nil {
		return nil, err
	}
	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}
	return Assign{LHS: lhs, RHS: rhs, Line: line}, nil
}

func (p *Parser) returnStatement(line int) (Stmt, error) {
	if p.match(token.Semicolon) {
		return Return{Line: line}, nil
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after return"); err != nil {
		return nil, err
	}
	return Return{Val: val, Line: line}, nil
}

func (p *Parser) exprOrAssignStatement(line int) (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(token.Assign) {
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon, "expected ';' after assignment"); err != nil {
			return nil, err
		}
		return Assign{LHS: e, RHS: rhs, Line: line}, nil
	}
	call, ok := e.(*Call)
	if !ok {
		return nil, p.errorf("expression statement must be an assignment or a function call")
	}
	if _, err := p.expect(token.Semicolon, "expected ';' after call"); err != nil {
		return nil, err
	}
	return ExprStmt{Call: call, Line: line}, nil
}

// Expression grammar, lowest to highest precedence:
// ternary -> or -> and -> equality -> relational -> additive
// -> multiplicative -> unary -> postfix -> primary

func (p *Parser) expression() (Expr, error) {
	return p.ternary()
}

func (p *Parser) ternary() (Expr, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.Question) {
		line := p.previous().Line
		then, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, "expected ':' in ternary"); err != nil {
			return nil, err
		}
		els, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return Ternary{Cond: cond, Then: then, Else: els, Line: line}, nil
	}
	return cond, nil
}

func (p *Parser) or() (Expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.OrOr) {
		line := p.previous().Line
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpOr, Left: left, Right: right, Line: line}
	}
	return left, nil
}

func (p *Parser) and() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AndAnd) {
		line := p.previous().Line
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpAnd, Left: left, Right: right, Line: line}
	}
	return left, nil
}

func (p *Parser) equality() (Expr, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.match(token.Eq):
			op = OpEq
		case p.match(token.Neq):
			op = OpNeq
		default:
			return left, nil
		}
		line := p.previous().Line
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *Parser) relational() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.match(token.Lt):
			op = OpLt
		case p.match(token.Le):
			op = OpLe
		case p.match(token.Gt):
			op = OpGt
		case p.match(token.Ge):
			op = OpGe
		default:
			return left, nil
		}
		line := p.previous().Line
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *Parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.match(token.Plus):
			op = OpAdd
		case p.match(token.Minus):
			op = OpSub
		default:
			return left, nil
		}
		line := p.previous().Line
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *Parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.match(token.Star):
			op = OpMul
		case p.match(token.Slash):
			op = OpDiv
		default:
			return left, nil
		}
		line := p.previous().Line
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right, Line: line}
	}
}

func (p *Parser) unary() (Expr, error) {
	line := p.peek().Line
	switch {
	case p.match(token.Minus):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpNeg, Operand: operand, Line: line}, nil
	case p.match(token.Bang):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpNot, Operand: operand, Line: line}, nil
	case p.match(token.Star):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpDeref, Operand: operand, Line: line}, nil
	case p.match(token.Amp):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: OpAddr, Operand: operand, Line: line}, nil
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LBracket):
			line := p.previous().Line
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "expected ']'"); err != nil {
				return nil, err
			}
			e = Index{Base: e, Idx: idx, Line: line}
		case p.check(token.LParen):
			line := p.peek().Line
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			e = &Call{Callee: e, Args: args, Line: line}
		default:
			return e, nil
		}
	}
}

func (p *Parser) argList() ([]Expr, error) {
	p.advance() // '('
	var args []Expr
	if !p.check(token.RParen) {
		for {
			a, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.IntLit:
		p.advance()
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return IntLit{Value: v, Line: tok.Line}, nil
	case token.FloatLit:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return FloatLit{Value: v, Line: tok.Line}, nil
	case token.StringLit:
		p.advance()
		return StringLit{Value: tok.Lexeme, Line: tok.Line}, nil
	case token.True:
		p.advance()
		return BoolLit{Value: true, Line: tok.Line}, nil
	case token.False:
		p.advance()
		return BoolLit{Value: false, Line: tok.Line}, nil
	case token.Ident:
		p.advance()
		return Ident{Name: tok.Lexeme, Line: tok.Line}, nil
	case token.LParen:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "expected ')'"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("unexpected token %s in expression", tok.Type)
	}
}

// --- cursor helpers ---

func (p *Parser) peek() token.Token     { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) check(t token.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.current]
	if tok.Type != token.EOF {
		p.current++
	}
	return tok
}

func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t token.Type, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("%s", message)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return diag.New(diag.KindSyntax, p.file, p.peek().Line, fmt.Sprintf(format, args...))
}
