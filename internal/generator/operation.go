package generator

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
)

// Operation represents a file system change that can be validated and then
// staged into a Transaction.
//
// Validate checks if the operation would succeed without performing it.
// force=true skips conflict checks.
//
// Description returns a human-readable description for output
// (e.g. "Write tdb/tdb_tl.go (23410 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Stage(tx *Transaction)
	Description() string
}

// GeneratedHeader marks files this tool owns and may overwrite.
const GeneratedHeader = "// Code generated by tlgen. DO NOT EDIT."

// WriteFileOp writes generated content to Path.
//
// Validation rejects nil content and refuses to overwrite an existing file
// that does not start with GeneratedHeader, unless force is set.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	if force {
		return nil
	}

	existing, err := os.ReadFile(op.Path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("cannot read %s: %w", op.Path, err)
	case !bytes.HasPrefix(existing, []byte(GeneratedHeader)):
		return fmt.Errorf("file already exists and was not generated by tlgen: %s (use --force to overwrite)", op.Path)
	}
	return nil
}

func (op *WriteFileOp) Stage(tx *Transaction) {
	tx.AddFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Write %s (%d bytes)", op.Path, len(op.Content))
}

// Unchanged reports whether the file on disk already holds Content.
func (op *WriteFileOp) Unchanged() bool {
	existing, err := os.ReadFile(op.Path)
	return err == nil && bytes.Equal(existing, op.Content)
}
