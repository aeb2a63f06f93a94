package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		kind Kind
		want error
	}{
		{KindInitialization, ErrInitialization},
		{KindTemplateSyntax, ErrTemplateSyntax},
		{KindRender, ErrRender},
	}
	all := []error{ErrInitialization, ErrTemplateSyntax, ErrRender}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &Error{Kind: tc.kind, Err: errors.New("x")})
			for _, sentinel := range all {
				if got := errors.Is(err, sentinel); got != (sentinel == tc.want) {
					t.Errorf("errors.Is(%v) = %v", sentinel, got)
				}
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	orig := errors.New("unexpected token")
	err := newError(KindTemplateSyntax, "page.tpl", &pongo2.Error{
		Filename:  "page.tpl",
		Line:      3,
		Column:    7,
		Sender:    "parser",
		OrigError: orig,
	})

	if err.Line != 3 || err.Column != 7 {
		t.Fatalf("position not copied: %d:%d", err.Line, err.Column)
	}
	want := "template syntax in page.tpl at line 3, col 7: unexpected token"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	var pe *pongo2.Error
	if !errors.As(err, &pe) || pe.OrigError != orig {
		t.Fatal("expected engine error to be reachable through Unwrap")
	}
}

func TestErrorMessageWithoutPosition(t *testing.T) {
	err := &Error{Kind: KindInitialization, Err: errors.New("register filter")}
	if got := err.Error(); !strings.HasPrefix(got, "initialization: ") {
		t.Fatalf("unexpected message %q", got)
	}
}
