// Package tlgen compiles TL schemas into typed Go codecs and conversion code.
package tlgen

// Version is the current tlgen release.
const Version = "0.1.0"
