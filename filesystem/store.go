// Package filesystem provides the on-disk storage writer for camupload.
// Writes go through a temp file in the target directory and are renamed
// into place, so a reader browsing the upload tree never sees a partial image.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sagarc03/camupload"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Base returns the directory the store writes below.
func (s *Store) Base() string {
	return s.root.Name()
}

// EnsureDir creates dir and any missing parents. It does not fail when
// the directories already exist.
func (s *Store) EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := s.root.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("could not create directories: %w", err)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write stores content at path, relative to the store root. Missing parent
// directories are created; an existing file at path is replaced. The result
// carries the full path, the number of bytes written and the SHA-256
// checksum of the content.
func (s *Store) Write(ctx context.Context, path string, content io.Reader) (camupload.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return camupload.SaveResult{}, ctxErr
	}

	destDir := filepath.Dir(path)
	if err := s.EnsureDir(destDir); err != nil {
		return camupload.SaveResult{}, err
	}

	tmpFile := filepath.Join(destDir, tmpFileName())
	t, createErr := s.root.OpenFile(tmpFile, os.O_RDWR|os.O_CREATE|os.O_EXCL, filePerm)
	if createErr != nil {
		return camupload.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	closed, success := false, false
	defer func() {
		if !closed {
			if closeErr := t.Close(); closeErr != nil {
				slog.Warn("failed to close tmp file", "err", closeErr)
			}
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	written, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return camupload.SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return camupload.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	closed = true
	if err = t.Close(); err != nil {
		return camupload.SaveResult{}, fmt.Errorf("could not close written file: %w", err)
	}

	if renameErr := s.root.Rename(tmpFile, path); renameErr != nil {
		return camupload.SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true

	return camupload.SaveResult{
		Path:         filepath.Join(s.root.Name(), path),
		BytesWritten: written,
		Checksum:     hex.EncodeToString(h.Sum(nil)),
	}, nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
