package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eaiti/eai-security-check-sub001/internal/report"
)

// Deliverer sends a formatted report somewhere durable.
type Deliverer interface {
	Deliver(ctx context.Context, doc report.Document) error
}

// FileDeliverer writes each report document into a directory, one file per
// run, using the document's suggested filename.
type FileDeliverer struct {
	Dir string
}

func (d *FileDeliverer) Deliver(_ context.Context, doc report.Document) error {
	if err := os.MkdirAll(d.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(d.Dir, doc.Filename)
	if err := os.WriteFile(path, []byte(doc.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
