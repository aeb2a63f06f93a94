package engine

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

// Settings holds the process-wide engine configuration. pongo2 keeps its
// filter registry and autoescape flag in package state, so these apply to
// every Renderer in the process.
type Settings struct {
	Autoescape bool
	Filters    map[string]pongo2.FilterFunction
}

func DefaultSettings() Settings {
	return Settings{Autoescape: true}
}

var (
	setupOnce sync.Once
	setupErr  error

	mu      sync.Mutex
	applied Settings
	done    bool
)

// Init configures the engine with DefaultSettings.
func Init() error {
	return Configure(DefaultSettings())
}

// Configure applies s the first time it is called. Later calls are no-ops
// that return the outcome of the first one, whatever settings they pass.
func Configure(s Settings) error {
	setupOnce.Do(func() {
		setupErr = setup(s)
		mu.Lock()
		applied, done = s, true
		mu.Unlock()
	})
	return setupErr
}

// Configured reports the settings the engine was initialised with, and
// whether initialisation has happened yet.
func Configured() (Settings, bool) {
	mu.Lock()
	defer mu.Unlock()
	return applied, done
}

func setup(s Settings) error {
	pongo2.SetAutoescape(s.Autoescape)

	defaults := map[string]pongo2.FilterFunction{
		"trim":       filterTrim,
		"lowerfirst": filterLowerFirst,
		"indent":     filterIndent,
	}
	for name, fn := range defaults {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return &Error{Kind: KindInitialization, Err: fmt.Errorf("register filter %q: %w", name, err)}
		}
	}
	for name, fn := range s.Filters {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return &Error{Kind: KindInitialization, Err: fmt.Errorf("register filter %q: %w", name, err)}
		}
	}
	return nil
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterLowerFirst lowers the first non-whitespace rune. Invalid UTF-8 is
// left untouched.
func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	t := in.String()
	for i := 0; i < len(t); {
		r, size := utf8.DecodeRuneInString(t[i:])
		if strings.ContainsRune(" \t\n\r", r) {
			i += size
			continue
		}
		if r == utf8.RuneError && size <= 1 {
			break
		}
		return pongo2.AsValue(t[:i] + strings.ToLower(string(r)) + t[i+size:]), nil
	}
	return pongo2.AsValue(t), nil
}

// filterIndent prefixes every line but the first with param spaces (default 4).
func filterIndent(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	n := 4
	if param != nil && !param.IsNil() {
		n = param.Integer()
	}
	if n < 0 {
		n = 0
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(in.String(), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		lines[i] = pad + lines[i]
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}
