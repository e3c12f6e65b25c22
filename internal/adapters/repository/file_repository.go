package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

var _ domain.StoreRepository = (*FileStoreRepository)(nil)

// FileStoreRepository persists the store as one JSON file. Writes go to a
// temp file in the same directory, fsync, then rename over the canonical
// path, so a reader sees either the old blob or the new one, never a partial
// write. The mutex serializes writers within this process; concurrent
// processes are last-write-wins.
type FileStoreRepository struct {
	path string

	mu sync.Mutex
}

func NewFileStoreRepository(path string) *FileStoreRepository {
	return &FileStoreRepository{
		path: path,
	}
}

func (r *FileStoreRepository) Read(ctx context.Context) domain.HabitStore {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.DefaultStore()
	}
	return domain.NormalizeJSON(data)
}

func (r *FileStoreRepository) Write(ctx context.Context, store domain.HabitStore) error {
	payload, err := store.CanonicalPayload()
	if err != nil {
		return fmt.Errorf("file store: serialize: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file store: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".hidden-habits-tmp-*")
	if err != nil {
		return fmt.Errorf("file store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		return fmt.Errorf("file store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("file store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	success = true
	return nil
}
