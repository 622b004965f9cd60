// Package assets loads models and textures off the main thread and hands
// the results back to it.
package assets

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Asset kinds reported in LoadError.
const (
	KindModel   = "model"
	KindTexture = "texture"
)

// LoadError describes an asset that could not be loaded.
type LoadError struct {
	Path string
	Kind string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source reads raw asset bytes from a file system. Concurrent reads of the
// same path share one read, and results are cached.
type Source struct {
	fsys  fs.FS
	cache *Cache
	group singleflight.Group
}

// NewSource creates a source reading from fsys.
func NewSource(fsys fs.FS) *Source {
	return &Source{
		fsys:  fsys,
		cache: NewCache(),
	}
}

// Read returns the contents of name.
func (s *Source) Read(name string) ([]byte, error) {
	key, err := cleanPath(name)
	if err != nil {
		return nil, err
	}

	// Check cache first
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := fs.ReadFile(s.fsys, key)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Cache returns the byte cache backing s.
func (s *Source) Cache() *Cache {
	return s.cache
}

// cleanPath turns an OS-style relative path into an fs.FS name.
func cleanPath(name string) (string, error) {
	p := path.Clean(filepath.ToSlash(name))
	p = strings.TrimPrefix(p, "./")
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid asset path %q", name)
	}
	return p, nil
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// logger returns log or a no-op logger.
func logger(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
