package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink accepts one artifact's bytes under a derived name. The extension is
// the sink's concern; callers pass bare names.
type Sink interface {
	// Exists reports whether an artifact already occupies the derived name.
	Exists(ctx context.Context, name string) (bool, error)
	// Deliver streams the artifact to its destination. On failure the
	// destination may hold an incomplete artifact; the error says so.
	Deliver(ctx context.Context, r io.Reader, name string) error
	// Destination is the human-readable location for the derived name.
	Destination(name string) string
}

// LocalSink writes artifacts into a directory, created if absent.
type LocalSink struct {
	Dir string
	Ext string
}

func (s *LocalSink) Destination(name string) string {
	return filepath.Join(s.Dir, name+s.Ext)
}

func (s *LocalSink) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.Destination(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("check destination %s: %w", s.Destination(name), err)
}

func (s *LocalSink) Deliver(_ context.Context, r io.Reader, name string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.Dir, err)
	}
	dest := s.Destination(name)
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

func (s *LocalSink) String() string { return "dir " + s.Dir }
