package indexcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// FileStore keeps a single index bundle on disk. The key is not part of the path;
// staleness is detected by the fingerprint stored inside the bundle.
type FileStore struct {
	path string
}

// NewFileStore constructs a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements faq.IndexStore.
func (s *FileStore) Load(_ context.Context, _ string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read index cache: %w", err)
	}
	return data, true, nil
}

// Save writes payload to a temporary file in the target directory and renames it
// into place, so readers only ever observe a complete bundle.
func (s *FileStore) Save(_ context.Context, _ string, payload []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

var _ faq.IndexStore = (*FileStore)(nil)
