// Package project locates the inputs of a tlgen run: the Go module the
// output lands in and the schema files named by the manifest.
package project
