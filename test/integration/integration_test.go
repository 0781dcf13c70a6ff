//go:build integration
// +build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/tlgen/internal/testing/testutil"
)

// fixture copies the gotd-shaped schema and manifest into a fresh module.
func fixture(t *testing.T) *testutil.TestProject {
	project := testutil.NewTestProject(t, "example.com/fixture")
	testdata := filepath.Join(testutil.RepoRoot(t), "internal", "compiler", "testdata")

	project.CopyDir(filepath.Join(testdata, "gotd", "scheme"), "scheme")
	manifest, err := os.ReadFile(filepath.Join(testdata, "gotd", "tlgen.yml"))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	project.WriteFile("tlgen.yml", string(manifest))
	return project
}

// generateAndTest runs the generator, drops the round-trip tests next to the
// generated package and runs them.
func generateAndTest(t *testing.T, project *testutil.TestProject) {
	if err := project.RunTlgen("generate"); err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	for _, f := range []string{"tdb/tdb_tl.go", "tdb/tdb_tl_conversion.go"} {
		if !project.FileExists(f) {
			t.Fatalf("%s not generated", f)
		}
	}

	roundtrip, err := os.ReadFile(filepath.Join("testdata", "roundtrip_test.go"))
	if err != nil {
		t.Fatalf("Failed to read round-trip tests: %v", err)
	}
	project.WriteFile("tdb/roundtrip_test.go", string(roundtrip))

	if err := project.Go("mod", "tidy"); err != nil {
		t.Fatalf("go mod tidy failed: %v", err)
	}
	if err := project.Go("vet", "./..."); err != nil {
		t.Fatalf("go vet failed: %v", err)
	}
	if err := project.Go("test", "./..."); err != nil {
		t.Fatalf("Round-trip tests failed: %v", err)
	}
}

func TestGeneratedPackageAgainstLocalTdapi(t *testing.T) {
	project := fixture(t)

	stub := filepath.Join(testutil.RepoRoot(t), "internal", "compiler", "testdata", "tdapi")
	project.CopyDir(stub, "gotd/tdapi")
	project.WriteFile("gotd/go.mod", "module github.com/gotd/td\n\ngo 1.22\n")

	gomod, err := os.ReadFile(filepath.Join(project.Root, "go.mod"))
	if err != nil {
		t.Fatal(err)
	}
	project.WriteFile("go.mod", string(gomod)+
		"\nrequire github.com/gotd/td v0.0.0\n\nreplace github.com/gotd/td => ./gotd\n")

	generateAndTest(t, project)
}

// TestGeneratedPackageAgainstGotd builds against the published tdapi
// package. It needs network access, so it only runs when TLGEN_GOTD_VERSION
// names the version to fetch.
func TestGeneratedPackageAgainstGotd(t *testing.T) {
	version := os.Getenv("TLGEN_GOTD_VERSION")
	if version == "" {
		t.Skip("TLGEN_GOTD_VERSION not set")
	}
	project := fixture(t)
	if err := project.Go("get", "github.com/gotd/td@"+version); err != nil {
		t.Fatalf("Failed to fetch gotd: %v", err)
	}
	generateAndTest(t, project)
}
