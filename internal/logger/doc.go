// Package logger provides leveled, structured logging for the compiler
// pipeline.
//
// Stages log through the Logger interface with key/value fields:
//
//	log.Info("Parsed schema", logger.F("file", path), logger.F("constructors", n))
//
// The implementation is backed by logrus with a plain text formatter, so
// output looks like:
//
//	level=info msg="Parsed schema" constructors=812 file=scheme/td_api.tl
//
// User-facing CLI messages belong in the output package instead.
package logger
