package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalFileStore writes uploads below a directory of an afero file system.
type LocalFileStore struct {
	FS  afero.Fs
	Dir string
}

func NewLocalFileStore(fs afero.Fs, dir string) *LocalFileStore {
	return &LocalFileStore{FS: fs, Dir: dir}
}

func (s *LocalFileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.FS.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	location := filepath.Join(s.Dir, name)
	f, err := s.FS.OpenFile(location, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", location, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", location, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", location, err)
	}
	return location, nil
}

func (s *LocalFileStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}

func (s *LocalFileStore) Remove(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.FS.Remove(location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", location, err)
	}
	return nil
}
