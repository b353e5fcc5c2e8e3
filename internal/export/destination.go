package export

import (
	"context"
	"fmt"
	"os"
)

// Destination receives a complete JSONL snapshot.
type Destination interface {
	Write(ctx context.Context, data []byte) error
}

// FileDestination writes the snapshot to a local file.
type FileDestination struct {
	Path string
}

func (d *FileDestination) Write(_ context.Context, data []byte) error {
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
