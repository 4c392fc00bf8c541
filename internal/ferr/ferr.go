// Package ferr is the typed error carrier threaded through every operation
// in the evaluation core, mirroring the teacher's diagnostics.DiagnosticError
// (a stable kind/code alongside a human-readable message) rather than bare
// fmt.Errorf strings.
package ferr

import (
	"fmt"

	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/token"
)

// Error is the single error type returned from every fallible core
// operation. It always carries a Kind so callers can switch on failure
// category, plus a human-readable Message and, when available, the Token
// that triggered the failure.
type Error struct {
	Kind    kind.Kind
	Message string
	Tok     *token.Token
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf lets callers test error kinds via errors.As without type-asserting.
func (e *Error) KindOf() kind.Kind { return e.Kind }

// New builds an Error with the given kind and formatted message.
func New(k kind.Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// At attaches a token (source position) to an existing error.
func At(k kind.Kind, tok token.Token, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: k, Message: msg, Tok: &tok}
}

// Is reports whether err is a *ferr.Error of the given kind.
func Is(err error, k kind.Kind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == k
}
