// Package config loads the tlgen manifest (tlgen.yml) and the command-line
// settings layered on top of it.
//
// The manifest describes what to generate: namespaces, name prefixes,
// output sections, skipped declarations, builtins and the conversion target.
// Decoding is strict; unknown keys are rejected and every validation problem
// is reported with its key path and YAML line.
//
// Settings (--config, --output, --workers, --verbose) come from flags and
// TLGEN_* environment variables through viper.
package config
