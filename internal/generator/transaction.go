package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Transaction represents a set of file writes that either all land or none do.
type Transaction struct {
	operations []fileOperation
	committed  bool
}

type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode

	temp     string // staged sibling, empty until written
	previous []byte // prior content, nil when the file did not exist
	existed  bool
	renamed  bool
}

// NewTransaction creates a new file operation transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddFile stages a file write (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	if mode == 0 {
		mode = 0o644
	}
	t.operations = append(t.operations, fileOperation{path: path, content: content, mode: mode})
}

// Commit writes every staged file to a temporary sibling, then renames them
// into place. A failure while writing removes the temporaries; a failure
// while renaming also restores the files already replaced.
func (t *Transaction) Commit(ctx context.Context) error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for i := range t.operations {
		if err := ctx.Err(); err != nil {
			t.cleanup()
			return err
		}
		if err := t.operations[i].writeTemp(); err != nil {
			t.cleanup()
			return err
		}
	}

	for i := range t.operations {
		op := &t.operations[i]
		if err := os.Rename(op.temp, op.path); err != nil {
			t.restore()
			t.cleanup()
			return fmt.Errorf("failed to move %s into place: %w", op.path, err)
		}
		op.renamed = true
		op.temp = ""
	}

	t.committed = true
	return nil
}

func (op *fileOperation) writeTemp() error {
	dir := filepath.Dir(op.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if prev, err := os.ReadFile(op.path); err == nil {
		op.previous = prev
		op.existed = true
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", op.path, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(op.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", op.path, err)
	}
	op.temp = f.Name()
	if _, err := f.Write(op.content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", op.path, err)
	}
	if err := f.Chmod(op.mode); err != nil {
		f.Close()
		return fmt.Errorf("failed to set mode on %s: %w", op.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", op.path, err)
	}
	return nil
}

// restore puts back every file that was already renamed into place.
func (t *Transaction) restore() {
	for i := range t.operations {
		op := &t.operations[i]
		if !op.renamed {
			continue
		}
		if op.existed {
			_ = os.WriteFile(op.path, op.previous, op.mode) // Best effort
		} else {
			_ = os.Remove(op.path)
		}
		op.renamed = false
	}
}

func (t *Transaction) cleanup() {
	for i := range t.operations {
		op := &t.operations[i]
		if op.temp != "" {
			_ = os.Remove(op.temp)
			op.temp = ""
		}
	}
}

// Rollback discards a transaction that was not committed. It is safe to
// defer.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.cleanup()
	}
}
