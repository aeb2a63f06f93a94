package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const PlanVersion = 1

type Plan struct {
	Version      int        `json:"version"`
	Context      Context    `json:"context"`
	ContextFiles []string   `json:"contextFiles"`
	Templates    []Template `json:"templates"`

	// dir is where the plan was loaded from; relative paths resolve against it.
	dir string
}

type Template struct {
	Source  string  `json:"source"`
	Inline  *string `json:"inline"`
	Target  string  `json:"target"`
	Context Context `json:"context"`
}

func (t Template) GetSource() (Source, error) {
	switch {
	case t.Source != "" && t.Inline != nil:
		return nil, errors.New("source and inline are mutually exclusive")
	case t.Source != "":
		return &SourceFile{Path: t.Source}, nil
	case t.Inline != nil:
		return &SourceInline{Text: *t.Inline}, nil
	default:
		return nil, errors.New("one of source or inline must be specified")
	}
}

func (p *Plan) Validate() error {
	if p.Version != PlanVersion {
		return fmt.Errorf("unsupported version: %d", p.Version)
	}
	if len(p.Templates) == 0 {
		return errors.New("templates is not specified")
	}
	for i, t := range p.Templates {
		src, err := t.GetSource()
		if err != nil {
			return fmt.Errorf("templates.%d: %w", i, err)
		}
		if err := src.Validate(); err != nil {
			return fmt.Errorf("templates.%d: %w", i, err)
		}
		if strings.TrimSpace(t.Target) == "" {
			return fmt.Errorf("templates.%d: target is not specified", i)
		}
	}
	return nil
}

// Dir returns the directory relative paths in the plan resolve against.
func (p *Plan) Dir() string {
	if p.dir == "" {
		return "."
	}
	return p.dir
}

// BaseContext merges the inline context with every context file, in order.
func (p *Plan) BaseContext() (Context, error) {
	ctx, err := NormalizeContext(p.Context)
	if err != nil {
		return nil, fmt.Errorf("normalize context: %w", err)
	}
	for _, name := range p.ContextFiles {
		if !filepath.IsAbs(name) {
			name = filepath.Join(p.Dir(), name)
		}
		c, err := LoadContextFile(name)
		if err != nil {
			return nil, fmt.Errorf("load context file %s: %w", name, err)
		}
		ctx = ctx.Merge(c)
	}
	return ctx, nil
}

// Inject renders every target path against data. Paths are not HTML, so
// autoescaping is switched off for them.
func (p *Plan) Inject(r *Renderer, data Context) error {
	for i := range p.Templates {
		tpl := "{% autoescape off %}" + p.Templates[i].Target + "{% endautoescape %}"
		target, err := r.RenderTemplate(tpl, data.Merge(p.Templates[i].Context))
		if err != nil {
			return fmt.Errorf("inject templates.%d.target: %w", i, err)
		}
		p.Templates[i].Target = strings.TrimSpace(target)
		if p.Templates[i].Target == "" {
			return fmt.Errorf("inject templates.%d.target: rendered to an empty path", i)
		}
	}
	return nil
}

func NewPlanFromJSON(r io.Reader) (*Plan, error) {
	var p Plan
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &p, nil
}

func NewPlanFromYAML(r io.Reader) (*Plan, error) {
	var p Plan
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &p, nil
}

// NewPlanFromFile decodes a plan, picking JSON or YAML by extension.
func NewPlanFromFile(name string) (*Plan, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var p *Plan
	if strings.EqualFold(filepath.Ext(name), ".json") {
		p, err = NewPlanFromJSON(f)
	} else {
		p, err = NewPlanFromYAML(f)
	}
	if err != nil {
		return nil, err
	}
	p.dir = filepath.Dir(name)
	return p, nil
}
