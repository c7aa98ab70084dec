package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives finished OutputAssets. Delivery is fire-and-forget from the
// pipeline's point of view; an error is logged and reported but nothing is retried.
type Sink interface {
	Deliver(ctx context.Context, out *OutputAsset) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, out *OutputAsset) error

// Deliver calls f
func (f SinkFunc) Deliver(ctx context.Context, out *OutputAsset) error {
	return f(ctx, out)
}

// DirSink saves outputs into a directory, never overwriting an existing file
// unless Overwrite is set.
type DirSink struct {
	Dir       string
	Overwrite bool
	// Saved is the path of the last file written
	Saved string
}

// Deliver writes out into the directory
func (d *DirSink) Deliver(ctx context.Context, out *OutputAsset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, filepath.Base(out.Name))
	if !d.Overwrite {
		path = uniquePath(path)
	}
	if err := os.WriteFile(path, out.Data, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	d.Saved = path
	Logger.Info("Saved converted image", "path", path, "bytes", len(out.Data))
	return nil
}

// uniquePath appends " (n)" before the extension until the name is free,
// the way browsers name repeated downloads.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
