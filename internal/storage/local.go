package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

// MirrorKeyPrefix is the object key prefix of mirrored uploads.
const MirrorKeyPrefix = "uploads/"

// Mirror receives a copy of every stored upload.
type Mirror interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// LocalStore writes uploads to <dir>/<filename>. A later upload with the same
// name replaces the earlier file.
type LocalStore struct {
	dir    string
	mirror Mirror
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// WithMirror copies every saved file to m after it is written locally.
func (s *LocalStore) WithMirror(m Mirror) *LocalStore {
	s.mirror = m
	return s
}

// Save writes r to the uploads directory and returns the file path.
func (s *LocalStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	name := filepath.Base(filename)
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, filename)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}

	// Uploads land in a temp file and are renamed into place, so readers of
	// dst (including r itself) never see a truncated or partial file.
	dst := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", dst, err)
	}
	tmpPath := tmp.Name()
	var size int64
	err = tmp.Chmod(0o644)
	if err == nil {
		size, err = io.Copy(tmp, r)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, dst)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}

	if s.mirror != nil {
		if err := s.mirrorFile(ctx, dst, path.Join(MirrorKeyPrefix, name), contentType, size); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func (s *LocalStore) mirrorFile(ctx context.Context, src, key, contentType string, size int64) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("reopening %s: %w", src, err)
	}
	defer f.Close()

	if err := s.mirror.PutObject(ctx, key, contentType, f, size); err != nil {
		return fmt.Errorf("mirroring %s: %w", key, err)
	}
	return nil
}
