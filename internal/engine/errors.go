package engine

import (
	"errors"
	"fmt"

	"github.com/flosch/pongo2/v6"
)

type Kind int

const (
	KindInitialization Kind = iota + 1
	KindTemplateSyntax
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindInitialization:
		return "initialization"
	case KindTemplateSyntax:
		return "template syntax"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

var (
	ErrInitialization = errors.New("initialization error")
	ErrTemplateSyntax = errors.New("template syntax error")
	ErrRender         = errors.New("render error")
)

// Error describes a failure reported by the template engine. Line and Column
// are zero when the engine did not report a position.
type Error struct {
	Kind     Kind
	Template string
	Line     int
	Column   int
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Template != "" {
		msg += " in " + e.Template
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d, col %d", e.Line, e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.cause()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInitialization:
		return e.Kind == KindInitialization
	case ErrTemplateSyntax:
		return e.Kind == KindTemplateSyntax
	case ErrRender:
		return e.Kind == KindRender
	}
	return false
}

// cause prefers the engine's original error over its decorated message, which
// already repeats the position we print ourselves.
func (e *Error) cause() string {
	var pe *pongo2.Error
	if errors.As(e.Err, &pe) && pe.OrigError != nil {
		return pe.OrigError.Error()
	}
	return e.Err.Error()
}

func newError(kind Kind, name string, err error) *Error {
	e := &Error{Kind: kind, Template: name, Err: err}
	var pe *pongo2.Error
	if errors.As(err, &pe) {
		e.Line = pe.Line
		e.Column = pe.Column
		if e.Template == "" {
			e.Template = pe.Filename
		}
	}
	return e
}
