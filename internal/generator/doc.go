// Package generator provides the plumbing shared by the emitters: template
// rendering with case helpers, gofmt/goimports formatting, file operations
// committed through an all-or-nothing Transaction, and unified diffs for
// checking generated files against disk.
package generator
