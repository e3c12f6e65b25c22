package tracker

import (
	"os"
	"path/filepath"
	"sync"
)

// cacheFileName mirrors the browser-side cache key of the original tracker
// (`venkat:hidden:habit-store:v1`).
const cacheFileName = "venkat-hidden-habit-store-v1.json"

// LocalCache is the on-device cache consulted before the first fetch. It is
// latency cover only; the server response always wins. Implementations are
// best-effort: Store failures are silent and Load reports absence rather
// than erroring.
type LocalCache interface {
	Load() ([]byte, bool)
	Store(payload []byte)
}

// MemoryCache is a process-lifetime LocalCache.
type MemoryCache struct {
	mu      sync.Mutex
	payload []byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Load() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil {
		return nil, false
	}
	return append([]byte{}, c.payload...), true
}

func (c *MemoryCache) Store(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = append([]byte{}, payload...)
}

// FileCache persists the last-known payload under a directory, surviving
// restarts the way browser localStorage survives reloads.
type FileCache struct {
	path string
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{
		path: filepath.Join(dir, cacheFileName),
	}
}

func (c *FileCache) Load() ([]byte, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *FileCache) Store(payload []byte) {
	_ = os.MkdirAll(filepath.Dir(c.path), 0o755)
	_ = os.WriteFile(c.path, payload, 0o600)
}
