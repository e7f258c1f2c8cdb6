// Package compiler wires the five compilation stages — lexer, parser, AST
// elaborator, TAC generator, RTL generator/assembly emitter — into one
// run, owning the state that SPEC_FULL.md's concurrency model designates
// process-wide: the string pool that the lexer populates as it scans and
// the RTL stage later drains into the data segment.
package compiler

import (
	"sclp/internal/ast"
	"sclp/internal/asmgen"
	"sclp/internal/diag"
	"sclp/internal/lexer"
	"sclp/internal/parse"
	"sclp/internal/rtl"
	"sclp/internal/sctypes"
	"sclp/internal/symtab"
	"sclp/internal/tac"
	"sclp/internal/token"
)

// Stage orders how far a run is allowed to proceed, per the CLI's total
// order Token < Parse < AST < TAC < RTL < ASM.
type Stage int

const (
	StageTokens Stage = iota
	StageParse
	StageAST
	StageTAC
	StageRTL
	StageASM
)

// Options configures one Run: how far to carry the pipeline. Every stage
// that runs leaves its output in Result.
type Options struct {
	Limit Stage
}

// Result accumulates whichever stage outputs a run reached. Fields past
// the configured Limit are left nil/zero.
type Result struct {
	Tokens  []token.Token
	Tree    *parse.Tree
	Program *ast.Program
	TAC     *tac.Program
	RTL     *rtl.Program
	ASM     string
}

// Pipeline holds the state that must survive across every stage of one
// compilation run without being reset per function, mirroring the
// process-wide/per-function split in SPEC_FULL.md §7.
type Pipeline struct {
	Strings *rtl.StringPool
}

func New() *Pipeline {
	return &Pipeline{Strings: rtl.NewStringPool()}
}

// Run compiles one source file through stages up to opts.Limit, returning
// whatever partial Result was produced even on error so the caller can
// still honor any dump flags for stages that completed.
func (p *Pipeline) Run(source, file string, opts Options) (*Result, error) {
	res := &Result{}

	tokens, err := lexer.New(source, file, p.Strings).Scan()
	if err != nil {
		return res, err
	}
	res.Tokens = tokens
	if opts.Limit == StageTokens {
		return res, nil
	}

	tree, err := parse.Parse(tokens, file)
	if err != nil {
		return res, err
	}
	res.Tree = tree
	if opts.Limit == StageParse {
		return res, nil
	}

	types := sctypes.NewRegistry()
	symbols := symtab.New()
	elaborator := ast.NewElaborator(file, types, symbols)
	program, err := elaborator.Elaborate(tree)
	if err != nil {
		return res, err
	}
	res.Program = program
	if opts.Limit == StageAST {
		return res, nil
	}

	tacProgram := tac.Generate(program)
	res.TAC = tacProgram
	if opts.Limit == StageTAC {
		return res, nil
	}

	rtlProgram := rtl.Generate(tacProgram, p.Strings)
	res.RTL = rtlProgram
	if opts.Limit == StageRTL {
		return res, nil
	}

	res.ASM = asmgen.Emit(rtlProgram, p.Strings)
	diag.Assert(opts.Limit == StageASM, "compiler: unreachable stage limit %d", opts.Limit)
	return res, nil
}
