package engine

import "fmt"

type SourceContext struct {
	Renderer *Renderer
	Context  Context
}

// Source produces the rendered text of one plan entry.
type Source interface {
	Validate() error
	Render(ctx SourceContext) (string, error)
}

var (
	_ Source = (*SourceFile)(nil)
	_ Source = (*SourceInline)(nil)
)

// SourceFile is a template stored on disk. Relative paths resolve against the
// renderer's loader directory, which is the plan's directory during apply.
type SourceFile struct {
	Path string
}

func (s *SourceFile) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("source is not specified")
	}
	return nil
}

func (s *SourceFile) Render(ctx SourceContext) (string, error) {
	return ctx.Renderer.RenderFile(s.Path, ctx.Context)
}

type SourceInline struct {
	Text string
}

func (s *SourceInline) Validate() error {
	return nil
}

func (s *SourceInline) Render(ctx SourceContext) (string, error) {
	return ctx.Renderer.RenderTemplate(s.Text, ctx.Context)
}
