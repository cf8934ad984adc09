package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps objects under a local directory served as static files.
type DiskStore struct {
	root      string
	urlPrefix string
	now       func() time.Time
}

func NewDiskStore(root, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &DiskStore{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/"), now: time.Now}, nil
}

// Root is the directory objects are written to.
func (s *DiskStore) Root() string { return s.root }

// URLPrefix is the path the root is served under.
func (s *DiskStore) URLPrefix() string { return s.urlPrefix }

func (s *DiskStore) Put(ctx context.Context, prefix, filename string, r io.Reader, size int64, contentType string) (Object, error) {
	key, err := objectKey(prefix, filename, contentType, s.now())
	if err != nil {
		return Object{}, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create dir for %s: %w", key, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, io.LimitReader(r, size)); err != nil {
		f.Close()
		os.Remove(full)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return Object{}, fmt.Errorf("close %s: %w", key, err)
	}
	return Object{Key: key, URL: path.Join(s.urlPrefix, key)}, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	clean := path.Clean("/" + key)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
