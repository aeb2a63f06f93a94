package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/charmbracelet/log"
	"github.com/flosch/pongo2/v6"

	"github.com/loozhengyuan/djtmpl/internal/logger"
)

type Option func(*rendererConfig)

type rendererConfig struct {
	baseDir string
	globals Context
	logger  logger.Logger
}

// WithGlobals exposes values to every render. Keys in the per-call context
// take precedence.
func WithGlobals(globals map[string]any) Option {
	return func(c *rendererConfig) {
		for k, v := range globals {
			if k = strings.TrimSpace(k); k != "" {
				c.globals[k] = v
			}
		}
	}
}

// WithFuncs exposes functions that templates can call, e.g. {{ upper(name) }}.
func WithFuncs(funcs map[string]any) Option {
	return WithGlobals(funcs)
}

// WithSprig exposes the sprig helper library as callable globals.
func WithSprig() Option {
	return WithFuncs(sprig.GenericFuncMap())
}

// WithLoader resolves {% include %} and {% extends %} relative to dir.
func WithLoader(dir string) Option {
	return func(c *rendererConfig) {
		c.baseDir = strings.TrimSpace(dir)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *rendererConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Renderer compiles and executes templates on its own pongo2 template set.
// It is safe for concurrent use. Calls are serialized: pongo2 writes to the
// set on every compile, including includes resolved during execution.
type Renderer struct {
	mu  sync.Mutex
	set *pongo2.TemplateSet
	log logger.Logger
}

func NewRenderer(opts ...Option) (*Renderer, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	cfg := &rendererConfig{
		globals: Context{},
		logger:  logger.L(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		l, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, &Error{Kind: KindInitialization, Err: fmt.Errorf("create loader: %w", err)}
		}
		loaders = append(loaders, l)
	} else {
		loaders = append(loaders, pongo2.DefaultLoader)
	}

	set := pongo2.NewSet("djtmpl", loaders...)
	set.Globals = pongo2.Context(cfg.globals)
	return &Renderer{set: set, log: cfg.logger}, nil
}

// RenderTemplate renders tpl against ctx.
func (r *Renderer) RenderTemplate(tpl string, ctx Context) (string, error) {
	var b bytes.Buffer
	if err := r.RenderTo(&b, tpl, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTo renders tpl against ctx into w. Nothing is written when
// compilation or execution fails.
func (r *Renderer) RenderTo(w io.Writer, tpl string, ctx Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.set.FromString(tpl)
	if err != nil {
		return newError(KindTemplateSyntax, "", err)
	}
	return r.execute(w, "", t, ctx)
}

// RenderFile renders the template stored at name. With a loader configured,
// relative names resolve against its base directory.
func (r *Renderer) RenderFile(name string, ctx Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.set.FromFile(name)
	if err != nil {
		if isNotExist(err) {
			return "", fmt.Errorf("open template %s: %w", name, err)
		}
		return "", newError(KindTemplateSyntax, name, err)
	}
	var b bytes.Buffer
	if err := r.execute(&b, name, t, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// execute must be called with r.mu held.
func (r *Renderer) execute(w io.Writer, name string, t *pongo2.Template, ctx Context) error {
	if ctx == nil {
		ctx = Context{}
	}

	out, err := t.ExecuteBytes(ctx.toPongo2())
	if err != nil {
		return newError(KindRender, name, err)
	}

	r.log.Debug("rendered template", "name", name, "bytes", len(out))
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func isNotExist(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var pe *pongo2.Error
	return errors.As(err, &pe) && errors.Is(pe.OrigError, fs.ErrNotExist)
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// Default returns the process-wide renderer, creating it on first use.
func Default() (*Renderer, error) {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = NewRenderer()
	})
	return defaultRenderer, defaultErr
}

// RenderTemplate renders tpl against ctx with the default renderer.
func RenderTemplate(tpl string, ctx Context) (string, error) {
	r, err := Default()
	if err != nil {
		return "", err
	}
	return r.RenderTemplate(tpl, ctx)
}
