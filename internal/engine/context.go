package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-yaml"
)

// Context maps names to the values a template can reference.
type Context map[string]any

// Merge returns a new Context holding c overlaid with other. Nested maps are
// merged recursively; any other value in other replaces the one in c.
func (c Context) Merge(other Context) Context {
	out := make(Context, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if dst, ok := out[k].(map[string]any); ok {
			if src, ok := v.(map[string]any); ok {
				out[k] = map[string]any(Context(dst).Merge(Context(src)))
				continue
			}
		}
		out[k] = v
	}
	return out
}

func (c Context) toPongo2() pongo2.Context {
	return pongo2.Context(c)
}

// NormalizeContext converts data into a Context. Maps and slices are walked
// recursively, scalars and functions are kept as they are, and anything else
// goes through a JSON round trip so the engine sees plain maps and slices.
func NormalizeContext(data any) (Context, error) {
	switch v := data.(type) {
	case nil:
		return Context{}, nil
	case Context:
		return normalizeMap(v)
	case pongo2.Context:
		return normalizeMap(v)
	case map[string]any:
		return normalizeMap(v)
	case map[string]string:
		out := make(Context, len(v))
		for key, value := range v {
			if key = strings.TrimSpace(key); key != "" {
				out[key] = value
			}
		}
		return out, nil
	default:
		raw, err := jsonRoundTrip(v)
		if err != nil {
			return nil, fmt.Errorf("convert %T: %w", data, err)
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("context must be an object, got %T", data)
		}
		return normalizeMap(m)
	}
}

func normalizeMap(in map[string]any) (Context, error) {
	out := make(Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := normalizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	case float32:
		return json.Number(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case float64:
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case Context:
		m, err := normalizeMap(v)
		return map[string]any(m), err
	case map[string]any:
		m, err := normalizeMap(v)
		return map[string]any(m), err
	case []any:
		out := make([]any, 0, len(v))
		for i, item := range v {
			converted, err := normalizeValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, converted)
		}
		return out, nil
	}

	if reflect.ValueOf(value).Kind() == reflect.Func {
		return value, nil
	}
	raw, err := jsonRoundTrip(value)
	if err != nil {
		return nil, err
	}
	return normalizeValue(raw)
}

// jsonRoundTrip keeps numbers as json.Number; pongo2 prints float64 with six
// decimals, which would turn 8080 into 8080.000000. normalizeValue applies the
// same rule to floats decoded from YAML.
func jsonRoundTrip(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadContextFile reads a JSON or YAML document into a Context. The format is
// chosen by extension; anything other than .json is parsed as YAML.
func LoadContextFile(name string) (Context, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	return NormalizeContext(raw)
}

// ParseAssignments turns key=value pairs into a Context. Dotted keys build
// nested maps, so "server.port=80" yields {"server": {"port": "80"}}.
func ParseAssignments(pairs []string) (Context, error) {
	out := Context{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected key=value", pair)
		}

		parts := strings.Split(key, ".")
		node := map[string]any(out)
		for i, part := range parts[:len(parts)-1] {
			if part == "" {
				return nil, fmt.Errorf("invalid assignment %q: empty key segment", pair)
			}
			next, ok := node[part].(map[string]any)
			if !ok {
				if _, exists := node[part]; exists {
					return nil, fmt.Errorf("invalid assignment %q: %s is not a map", pair, strings.Join(parts[:i+1], "."))
				}
				next = map[string]any{}
				node[part] = next
			}
			node = next
		}
		last := parts[len(parts)-1]
		if last == "" {
			return nil, fmt.Errorf("invalid assignment %q: empty key segment", pair)
		}
		node[last] = value
	}
	return out, nil
}
