package engine

import (
	"fmt"
	"os"
)

// ConfigReader reads configuration files that may contain template markup and
// returns their rendered text, ready for a format-specific parser.
type ConfigReader struct {
	r   *Renderer
	ctx Context
}

func NewConfigReader(r *Renderer, ctx Context) *ConfigReader {
	if ctx == nil {
		ctx = Context{}
	}
	return &ConfigReader{r: r, ctx: ctx}
}

func (c *ConfigReader) Read(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", name, err)
	}
	out, err := c.r.RenderTemplate(string(b), c.ctx)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", name, err)
	}
	return out, nil
}
