// Package testutil builds throwaway Go modules around generated code so
// integration tests can compile and run it.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/simonhull/tlgen/internal/commands"
	"github.com/simonhull/tlgen/internal/output"
)

// TestProject represents a temporary Go module that hosts generated code
type TestProject struct {
	Root   string
	Module string
	t      *testing.T
}

// NewTestProject creates a temporary module directory. The module requires
// this repository through a replace directive.
func NewTestProject(t *testing.T, module string) *TestProject {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	p := &TestProject{Root: t.TempDir(), Module: module, t: t}
	gomod := fmt.Sprintf("module %s\n\ngo 1.22\n\nrequire github.com/simonhull/tlgen v0.0.0\n\nreplace github.com/simonhull/tlgen => %s\n",
		module, filepath.ToSlash(RepoRoot(t)))
	p.WriteFile("go.mod", gomod)
	return p
}

// RepoRoot returns the root of the tlgen module.
func RepoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", ".."))
}

// WriteFile writes a file relative to the project root
func (p *TestProject) WriteFile(path, content string) {
	p.t.Helper()
	full := filepath.Join(p.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		p.t.Fatalf("creating %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		p.t.Fatalf("writing %s: %v", path, err)
	}
}

// CopyDir copies the regular files of src into dst below the project root.
func (p *TestProject) CopyDir(src, dst string) {
	p.t.Helper()
	entries, err := os.ReadDir(src)
	if err != nil {
		p.t.Fatalf("reading %s: %v", src, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			p.CopyDir(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name()))
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			p.t.Fatalf("reading %s: %v", e.Name(), err)
		}
		p.WriteFile(filepath.Join(dst, e.Name()), string(data))
	}
}

// FileExists checks if a file exists in the project
func (p *TestProject) FileExists(path string) bool {
	p.t.Helper()
	_, err := os.Stat(filepath.Join(p.Root, path))
	return err == nil
}

// RunTlgen runs the tlgen CLI in-process against the project's manifest.
func (p *TestProject) RunTlgen(args ...string) error {
	p.t.Helper()
	var out bytes.Buffer
	output.SetWriters(&out, &out)
	defer output.SetWriters(os.Stdout, os.Stderr)

	root := commands.RootCmd()
	root.AddCommand(commands.GenerateCmd(), commands.CheckCmd(), commands.InitCmd(), commands.VersionCmd())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(p.Root, "tlgen.yml")))
	err := root.Execute()
	p.t.Logf("tlgen %v:\n%s", args, out.String())
	return err
}

// Go runs a go command in the project root
func (p *TestProject) Go(args ...string) error {
	p.t.Helper()
	cmd := exec.Command("go", args...)
	cmd.Dir = p.Root
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		p.t.Logf("go %v failed: %s\nOutput: %s", args, err, out.String())
		return err
	}
	p.t.Logf("go %v:\n%s", args, out.String())
	return nil
}
