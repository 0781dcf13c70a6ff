package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/tlgen"
	"github.com/simonhull/tlgen/internal/config"
	"github.com/simonhull/tlgen/internal/output"
)

const tdApi = `
double ? = Double;
string ? = String;
int32 = Int32;
int53 = Int53;
int64 = Int64;
bytes = Bytes;
vector {t:Type} # [ t ] = Vector t;

boolFalse = Bool;
boolTrue = Bool;

user id:int53 name:string is_bot:Bool = User;
users total_count:int32 user_ids:vector<int53> = Users;

---functions---
getMe = User;
`

func newRoot() *cobra.Command {
	root := RootCmd()
	root.AddCommand(GenerateCmd(), CheckCmd(), InitCmd(), VersionCmd())
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	output.SetWriters(&out, &out)
	t.Cleanup(func() { output.SetWriters(os.Stdout, os.Stderr) })

	root := newRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setupProject(t *testing.T) (dir, manifest string) {
	t.Helper()
	dir = t.TempDir()
	manifest = filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(manifest, config.TdbManifestYAML(), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scheme"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scheme", "td_api.tl"), []byte(tdApi), 0o644))
	return dir, manifest
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tlgen "+tlgen.Version)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tlgen.yml")

	_, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.TdbManifestYAML(), data)

	_, err = run(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = run(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestGenerateAndCheck(t *testing.T) {
	dir, manifest := setupProject(t)
	outDir := filepath.Join(dir, "tdb")

	out, err := run(t, "generate", "--config", manifest, "--output", outDir, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 2 units from 1 schema files")
	assert.FileExists(t, filepath.Join(outDir, "tdb_tl.go"))
	assert.FileExists(t, filepath.Join(outDir, "tdb_tl_conversion.go"))

	out, err = run(t, "check", "--config", manifest, "--output", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 units are up to date")

	schemaPath := filepath.Join(dir, "scheme", "td_api.tl")
	require.NoError(t, os.WriteFile(schemaPath, []byte(tdApi+"\nok = Ok;\n"), 0o644))

	out, err = run(t, "check", "--config", manifest, "--output", outDir, "--diff")
	assert.True(t, errors.Is(err, ErrStale))
	assert.Contains(t, out, "2 of 2 units are out of date")
	assert.Contains(t, out, "tdb_tl.go")
	assert.Contains(t, out, "TLOk")
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir, manifest := setupProject(t)
	outDir := filepath.Join(dir, "tdb")

	out, err := run(t, "generate", "--config", manifest, "--output", outDir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY RUN]")
	assert.NoDirExists(t, outDir)
}

func TestGenerateReportsCompileErrors(t *testing.T) {
	dir, manifest := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scheme", "broken.tl"), []byte("broken id:Missing = Broken;"), 0o644))

	_, err := run(t, "generate", "--config", manifest, "--output", filepath.Join(dir, "tdb"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
	assert.NoDirExists(t, filepath.Join(dir, "tdb"))
}

func TestMissingManifest(t *testing.T) {
	_, err := run(t, "generate", "--config", filepath.Join(t.TempDir(), "none.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSettingsFromEnvironment(t *testing.T) {
	dir, manifest := setupProject(t)
	t.Setenv("TLGEN_CONFIG", manifest)
	t.Setenv("TLGEN_OUTPUT", filepath.Join(dir, "env"))

	_, err := run(t, "generate")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "env", "tdb_tl.go"))
}
