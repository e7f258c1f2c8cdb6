// Command sclp is the command-line front end for the sclp compiler: it
// drives the lexer/parser/elaborator/TAC/RTL/assembly pipeline over one
// source file and writes the requested stage dumps and final assembly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sclp/internal/compiler"
	"sclp/internal/diag"
	"sclp/internal/dump"
)

var log = logrus.New()

type flags struct {
	tokensOnly bool
	parseOnly  bool
	astOnly    bool
	tacOnly    bool
	rtlOnly    bool

	showTokens bool
	showAST    bool
	showTAC    bool
	showRTL    bool

	demo   bool
	output string
}

func main() {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "sclp <input-file>",
		Short:         "Compile a source file through TAC, RTL, and MIPS/SPIM assembly",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.tokensOnly, "tokens-only", false, "stop after lexing")
	cmd.Flags().BoolVar(&f.parseOnly, "parse-only", false, "stop after parsing")
	cmd.Flags().BoolVar(&f.astOnly, "ast-only", false, "stop after AST elaboration")
	cmd.Flags().BoolVar(&f.tacOnly, "tac-only", false, "stop after TAC generation")
	cmd.Flags().BoolVar(&f.rtlOnly, "rtl-only", false, "stop after RTL generation")
	cmd.MarkFlagsMutuallyExclusive("tokens-only", "parse-only", "ast-only", "tac-only", "rtl-only")

	cmd.Flags().BoolVar(&f.showTokens, "show-tokens", false, "dump the token stream")
	cmd.Flags().BoolVar(&f.showAST, "show-ast", false, "dump the elaborated AST")
	cmd.Flags().BoolVar(&f.showTAC, "show-tac", false, "dump the TAC program")
	cmd.Flags().BoolVar(&f.showRTL, "show-rtl", false, "dump the RTL program")

	cmd.Flags().BoolVar(&f.demo, "demo", false, "write every dump to stdout instead of a file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "override the .spim output path")

	if err := cmd.Execute(); err != nil {
		// Every failure is printed here once: cobra's usage errors and
		// whatever run returned (a diagnostic, an invariant, an I/O error).
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (f *flags) limit() compiler.Stage {
	switch {
	case f.tokensOnly:
		return compiler.StageTokens
	case f.parseOnly:
		return compiler.StageParse
	case f.astOnly:
		return compiler.StageAST
	case f.tacOnly:
		return compiler.StageTAC
	case f.rtlOnly:
		return compiler.StageRTL
	default:
		return compiler.StageASM
	}
}

func run(path string, f *flags) (runErr error) {
	written := make([]string, 0, 5)
	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(diag.Invariant)
			if !ok {
				panic(r)
			}
			log.WithField("stage", "recover").Error(inv.Error())
			removeAll(written)
			runErr = inv
		} else if runErr != nil {
			removeAll(written)
		}
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(source))) == 0 {
		log.Warn("input program is empty")
	}

	log.WithField("file", path).Debug("starting compilation")
	pipeline := compiler.New()
	res, err := pipeline.Run(string(source), path, compiler.Options{Limit: f.limit()})

	// Render whichever dumps both ran and were requested, regardless of
	// whether a later stage failed.
	if f.showTokens && res.Tokens != nil {
		if werr := f.writeDump(path, "toks", dump.Tokens(res.Tokens), &written); werr != nil {
			return werr
		}
	}
	if f.showAST && res.Program != nil {
		if werr := f.writeDump(path, "ast", dump.AST(res.Program), &written); werr != nil {
			return werr
		}
	}
	if f.showTAC && res.TAC != nil {
		if werr := f.writeDump(path, "tac", dump.TAC(res.TAC), &written); werr != nil {
			return werr
		}
	}
	if f.showRTL && res.RTL != nil {
		if werr := f.writeDump(path, "rtl", dump.RTL(res.RTL), &written); werr != nil {
			return werr
		}
	}

	if err != nil {
		return err
	}

	if f.limit() == compiler.StageASM {
		if f.demo {
			fmt.Println(res.ASM)
			return nil
		}
		out := f.output
		if out == "" {
			out = replaceExt(path, "spim")
		}
		if werr := os.WriteFile(out, []byte(res.ASM), 0o644); werr != nil {
			return werr
		}
		written = append(written, out)
		log.WithField("file", out).Info("wrote assembly output")
	}

	return nil
}

func (f *flags) writeDump(path, ext, content string, written *[]string) error {
	if f.demo {
		fmt.Println(content)
		return nil
	}
	out := replaceExt(path, ext)
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return err
	}
	*written = append(*written, out)
	log.WithField("file", out).Info("wrote stage dump")
	return nil
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i] + "." + ext
	}
	return path + "." + ext
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
