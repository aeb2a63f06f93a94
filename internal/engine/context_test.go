package engine

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeContext(t *testing.T) {
	type server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	type config struct {
		Name    string   `json:"name"`
		Server  server   `json:"server"`
		Aliases []string `json:"aliases"`
	}

	ctx, err := NormalizeContext(config{
		Name:    "api",
		Server:  server{Host: "example.com", Port: 8080},
		Aliases: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	got, err := RenderTemplate("{{ name }} {{ server.host }}:{{ server.port }} {{ aliases|join:\",\" }}", ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "api example.com:8080 a,b"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestNormalizeContextShapes(t *testing.T) {
	fn := func() string { return "called" }

	tests := []struct {
		name string
		in   any
		want Context
	}{
		{"nil", nil, Context{}},
		{"string map", map[string]string{"a": "1", " ": "dropped"}, Context{"a": "1"}},
		{"any map", map[string]any{" b ": true, "n": nil}, Context{"b": true, "n": nil}},
		{"nested", Context{"m": map[string]any{"k": []any{1, "x"}}}, Context{"m": map[string]any{"k": []any{1, "x"}}}},
		{"floats", map[string]any{"f": 1.5, "g": float32(0.25), "l": []any{2.0}}, Context{"f": json.Number("1.5"), "g": json.Number("0.25"), "l": []any{json.Number("2")}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeContext(tc.in)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("context mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("func kept", func(t *testing.T) {
		got, err := NormalizeContext(map[string]any{"f": fn})
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		out, err := RenderTemplate("{{ f() }}", got)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if out != "called" {
			t.Fatalf("want %q, got %q", "called", out)
		}
	})

	t.Run("non object", func(t *testing.T) {
		if _, err := NormalizeContext([]string{"a"}); err == nil {
			t.Fatal("expected error for non-object context")
		}
	})
}

func TestContextMerge(t *testing.T) {
	base := Context{
		"env":    "dev",
		"server": map[string]any{"host": "localhost", "port": 80},
	}
	over := Context{
		"env":    "prod",
		"server": map[string]any{"port": 443},
		"extra":  "x",
	}

	got := base.Merge(over)
	want := Context{
		"env":    "prod",
		"server": map[string]any{"host": "localhost", "port": 443},
		"extra":  "x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["env"] != "dev" {
		t.Fatal("merge mutated receiver")
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"name=World", "server.port=80", "server.host=a=b", "empty="})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Context{
		"name":   "World",
		"server": map[string]any{"port": "80", "host": "a=b"},
		"empty":  "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignmentsInvalid(t *testing.T) {
	tests := [][]string{
		{"novalue"},
		{"=x"},
		{"a..b=x"},
		{"a.=x"},
		{"a=x", "a.b=y"},
	}
	for _, pairs := range tests {
		if _, err := ParseAssignments(pairs); err == nil {
			t.Errorf("expected error for %q", pairs)
		}
	}
}

func TestLoadContextFile(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "values.yml")
	mustWrite(t, yml, "name: api\nserver:\n  host: example.com\n  port: 8080\n  weight: 1.5\ntags:\n  - a\n  - b\n")
	jsn := filepath.Join(dir, "values.json")
	mustWrite(t, jsn, `{"name": "api", "server": {"host": "example.com", "port": 8080, "weight": 1.5}, "tags": ["a", "b"]}`)

	for _, name := range []string{yml, jsn} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			ctx, err := LoadContextFile(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			got, err := RenderTemplate("{{ name }} {{ server.host }}:{{ server.port }} w={{ server.weight }} {% for t in tags %}{{ t }}{% endfor %}", ctx)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if want := "api example.com:8080 w=1.5 ab"; got != want {
				t.Fatalf("want %q, got %q", want, got)
			}
		})
	}
}

func TestLoadContextFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	mustWrite(t, bad, "{not json")

	if _, err := LoadContextFile(bad); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := LoadContextFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("expected read error")
	}
}
