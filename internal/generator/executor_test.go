package generator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tlgen/internal/generator"
)

func generated(body string) []byte {
	return []byte(generator.GeneratedHeader + "\n\n" + body)
}

func TestExecute_DryRun(t *testing.T) {
	dir := t.TempDir()
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(dir, "a.go"), Content: generated("package a\n"), Mode: 0o644},
	}

	var buf bytes.Buffer
	require.NoError(t, generator.Execute(context.Background(), ops, generator.ExecuteOptions{DryRun: true, Writer: &buf}))

	assert.NoFileExists(t, filepath.Join(dir, "a.go"))
	assert.Contains(t, buf.String(), "[DRY RUN]")
}

func TestExecute_WritesAll(t *testing.T) {
	dir := t.TempDir()
	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(dir, "a.go"), Content: generated("package a\n"), Mode: 0o644},
		&generator.WriteFileOp{Path: filepath.Join(dir, "b.go"), Content: generated("package a\n"), Mode: 0o644},
	}

	var buf bytes.Buffer
	require.NoError(t, generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &buf}))

	assert.FileExists(t, filepath.Join(dir, "a.go"))
	assert.FileExists(t, filepath.Join(dir, "b.go"))
	assert.Contains(t, buf.String(), "Write "+filepath.Join(dir, "b.go"))
}

func TestExecute_OverwritesGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, generated("package old\n"), 0o644))

	op := &generator.WriteFileOp{Path: path, Content: generated("package a\n"), Mode: 0o644}
	require.NoError(t, generator.Execute(context.Background(), []generator.Operation{op}, generator.ExecuteOptions{Writer: &bytes.Buffer{}}))
	assert.True(t, op.Unchanged())
}

func TestExecute_RefusesHandWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	handWritten := filepath.Join(dir, "core.go")
	require.NoError(t, os.WriteFile(handWritten, []byte("package a\n"), 0o644))

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(dir, "fresh.go"), Content: generated("package a\n"), Mode: 0o644},
		&generator.WriteFileOp{Path: handWritten, Content: generated("package a\n"), Mode: 0o644},
	}

	err := generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not generated by tlgen")
	assert.NoFileExists(t, filepath.Join(dir, "fresh.go"), "validation failure must not write anything")

	require.NoError(t, generator.Execute(context.Background(), ops, generator.ExecuteOptions{Force: true, Writer: &bytes.Buffer{}}))
	assert.FileExists(t, filepath.Join(dir, "fresh.go"))
}

func TestWriteFileOp_NilContent(t *testing.T) {
	op := &generator.WriteFileOp{Path: filepath.Join(t.TempDir(), "a.go")}
	assert.Error(t, op.Validate(context.Background(), false))
}

func TestExecute_CancelledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(dir, "a.go"), Content: generated("package a\n"), Mode: 0o644},
	}
	var buf bytes.Buffer
	err := generator.Execute(ctx, ops, generator.ExecuteOptions{Writer: &buf})
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, buf.String())
}
