// Package diag models the compiler's diagnostics: semantic errors surfaced
// to the user and internal invariant violations recovered at the CLI
// boundary.
package diag

import (
	"fmt"
)

// Kind classifies a semantic error.
type Kind string

const (
	KindBadDeclaration  Kind = "bad declaration"
	KindUndeclared      Kind = "undeclared symbol"
	KindRedeclaration   Kind = "redeclaration"
	KindTypeMismatch    Kind = "type mismatch"
	KindConstViolation  Kind = "const violation"
	KindReturnPath      Kind = "return path"
	KindLoopControl     Kind = "loop control"
	KindIgnoredResult   Kind = "ignored result"
	KindLexical         Kind = "lexical error"
	KindSyntax          Kind = "syntax error"
)

// Location pins a diagnostic to a source position.
type Location struct {
	File string
	Line int
}

// Error is the single diagnostic type produced by every stage of the
// pipeline. Its Error() string rendering is a byte-exact contract:
//
//	sclp error: <file>:<line>
//	<message>[: <auxiliary>]
type Error struct {
	Kind     Kind
	Location Location
	Message  string
	Aux      string
}

func (e *Error) Error() string {
	s := "sclp error:"
	if e.Location.File != "" {
		s += fmt.Sprintf(" %s:%d", e.Location.File, e.Location.Line)
	}
	s += "\n" + e.Message
	if e.Aux != "" {
		s += ": " + e.Aux
	}
	return s
}

// New builds a located diagnostic of the given kind.
func New(kind Kind, file string, line int, message string) *Error {
	return &Error{Kind: kind, Location: Location{File: file, Line: line}, Message: message}
}

// WithAux attaches an auxiliary clause (e.g. the offending type's printed
// form) to the message.
func (e *Error) WithAux(aux string) *Error {
	e.Aux = aux
	return e
}

// Invariant is panicked by internal assertions (register exhaustion,
// malformed IR, impossible parse-tree shapes) that indicate a bug in the
// compiler rather than a fault in the source program. cmd/sclp recovers it
// at the top of the run and prints it as "sclp internal error: <message>".
type Invariant struct {
	Message string
}

func (i Invariant) Error() string {
	return "sclp internal error: " + i.Message
}

// Assert panics with an Invariant if cond is false.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(Invariant{Message: fmt.Sprintf(format, args...)})
	}
}
