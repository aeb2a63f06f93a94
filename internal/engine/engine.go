package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loozhengyuan/djtmpl/internal/logger"
)

type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusPlanned   Status = "planned"
)

type Result struct {
	Target string
	Output string
	Status Status
}

type Engine struct {
	p       *Plan
	r       *Renderer
	base    Context
	log     logger.Logger
	force   bool
	dryRun  bool
	ropts   []Option
	confirm func(prompt string) (bool, error)
}

func (e *Engine) SetForce(force bool) {
	e.force = force
}

func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetConfirm replaces the prompt asked before overwriting a target whose
// content differs. It is not consulted when force is set.
func (e *Engine) SetConfirm(fn func(prompt string) (bool, error)) {
	if fn != nil {
		e.confirm = fn
	}
}

// Execute renders every template of the plan in order and stops at the first
// failure.
func (e *Engine) Execute(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(e.p.Templates))
	for i, t := range e.p.Templates {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := e.executeOne(t)
		if err != nil {
			return results, fmt.Errorf("templates.%d (%s): %w", i, t.Target, err)
		}
		e.log.Info("processed template", "target", res.Target, "status", res.Status)
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) executeOne(t Template) (Result, error) {
	src, err := t.GetSource()
	if err != nil {
		return Result{}, err
	}
	out, err := src.Render(SourceContext{
		Renderer: e.r,
		Context:  e.base.Merge(t.Context),
	})
	if err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	target := t.Target
	if !filepath.IsAbs(target) {
		target = filepath.Join(e.p.Dir(), target)
	}
	res := Result{Target: target, Output: out}

	if e.dryRun {
		res.Status = StatusPlanned
		return res, nil
	}

	existing, ok, err := readExisting(target)
	if err != nil {
		return Result{}, err
	}
	if ok && bytes.Equal(existing, []byte(out)) {
		res.Status = StatusUnchanged
		return res, nil
	}
	if ok && !e.force {
		proceed, err := e.confirm(fmt.Sprintf("Overwrite %s?", target))
		if err != nil {
			return Result{}, fmt.Errorf("prompt confirm: %w", err)
		}
		if !proceed {
			res.Status = StatusSkipped
			return res, nil
		}
	}

	if err := WriteFile(target, []byte(out)); err != nil {
		return Result{}, err
	}
	res.Status = StatusWritten
	return res, nil
}

type EngineOption func(*Engine)

// WithRendererOptions adds options for the engine's renderer. Its loader
// directory defaults to the plan's directory.
func WithRendererOptions(opts ...Option) EngineOption {
	return func(e *Engine) {
		e.ropts = append(e.ropts, opts...)
	}
}

func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func New(p *Plan, opts ...EngineOption) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}

	e := &Engine{
		p:       p,
		log:     logger.L(),
		confirm: promptConfirm(os.Stdin, os.Stderr),
	}
	for _, opt := range opts {
		opt(e)
	}

	r, err := NewRenderer(append([]Option{WithLoader(p.Dir()), WithLogger(e.log)}, e.ropts...)...)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	e.r = r

	base, err := p.BaseContext()
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}
	if err := p.Inject(e.r, base); err != nil {
		return nil, fmt.Errorf("inject tmpl: %w", err)
	}
	e.base = base
	return e, nil
}

func NewFromFile(name string, opts ...EngineOption) (*Engine, error) {
	p, err := NewPlanFromFile(name)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return New(p, opts...)
}
