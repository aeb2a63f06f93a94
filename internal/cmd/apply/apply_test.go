package apply

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePlan(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	plan := `version: 1
context:
  env: prod
templates:
  - inline: "env={{ env }}"
    target: "out/{{ env }}.conf"
`
	if err := os.WriteFile(filepath.Join(dir, "plan.yml"), []byte(plan), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestApply(t *testing.T) {
	dir := writePlan(t)
	target := filepath.Join(dir, "out", "prod.conf")

	out, err := run(t, filepath.Join(dir, "plan.yml"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if want := "written\t" + target + "\n"; out != want {
		t.Fatalf("want %q, got %q", want, out)
	}
	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(b) != "env=prod" {
		t.Fatalf("unexpected content %q", b)
	}

	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "--force", filepath.Join(dir, "plan.yml"))
	if err != nil {
		t.Fatalf("apply --force: %v", err)
	}
	if !strings.HasPrefix(out, "written\t") {
		t.Fatalf("expected overwrite, got %q", out)
	}
}

func TestApplyDryRun(t *testing.T) {
	dir := writePlan(t)

	out, err := run(t, "--dry-run", filepath.Join(dir, "plan.yml"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "==> " + filepath.Join(dir, "out", "prod.conf") + "\nenv=prod\n"
	if out != want {
		t.Fatalf("want %q, got %q", want, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote files: %v", err)
	}
}

func TestApplyArgs(t *testing.T) {
	if _, err := run(t); err == nil {
		t.Fatal("expected error without plan argument")
	}
	if _, err := run(t, filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing plan")
	}
}
