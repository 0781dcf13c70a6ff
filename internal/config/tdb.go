package config

import (
	_ "embed"
	"fmt"
)

//go:embed tdb.yml
var tdbManifest []byte

// TdbManifest returns the built-in manifest for the Tdb types.
func TdbManifest() *Manifest {
	m, err := ParseBytes(tdbManifest)
	if err != nil {
		panic(fmt.Sprintf("config: embedded tdb.yml is invalid: %v", err))
	}
	return m
}

// TdbManifestYAML returns the raw embedded manifest, for writing a starting
// tlgen.yml.
func TdbManifestYAML() []byte {
	out := make([]byte, len(tdbManifest))
	copy(out, tdbManifest)
	return out
}
