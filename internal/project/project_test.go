package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module github.com/example/app\n\ngo 1.25\n")

	info, err := DetectModule(dir)
	require.NoError(t, err)
	assert.Equal(t, "github.com/example/app", info.Path)
	assert.Equal(t, "1.25", info.GoVersion)
	assert.Equal(t, dir, info.Root)
}

func TestDetectModuleErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := DetectModule(t.TempDir())
		assert.True(t, errors.Is(err, ErrNoModule))
	})

	t.Run("invalid", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "go.mod"), "module\n")
		_, err := DetectModule(dir)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoModule))
	})
}

func TestFindModuleAndImportPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module github.com/example/app\n")
	out := filepath.Join(root, "internal", "tdb")
	require.NoError(t, os.MkdirAll(out, 0o755))

	info, err := FindModule(out)
	require.NoError(t, err)
	assert.Equal(t, root, info.Root)

	path, err := info.ImportPath(out)
	require.NoError(t, err)
	assert.Equal(t, "github.com/example/app/internal/tdb", path)

	path, err = info.ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "github.com/example/app", path)

	_, err = info.ImportPath(filepath.Dir(root))
	assert.Error(t, err)
}

func TestDiscoverSchemas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scheme", "td_api.tl"), "")
	writeFile(t, filepath.Join(dir, "scheme", "extra.tl"), "")
	writeFile(t, filepath.Join(dir, "local", "tdb.tl"), "")

	files, err := DiscoverSchemas(dir, []string{"local/*.tl", "scheme/*.tl", "local/tdb.tl"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "local", "tdb.tl"),
		filepath.Join(dir, "scheme", "extra.tl"),
		filepath.Join(dir, "scheme", "td_api.tl"),
	}, files)

	_, err = DiscoverSchemas(dir, []string{"missing/*.tl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema files match")

	_, err = DiscoverSchemas(dir, []string{"scheme/[.tl"})
	assert.Error(t, err)
}
