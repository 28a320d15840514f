package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ppiankov/knowval/internal/cache"
)

// recordDir reads and writes JSON records of one directory through a memory cache
type recordDir struct {
	path  string
	cache *cache.MemoryCache
	ttl   time.Duration

	// mu orders cache fills after a miss against writes, so a slow reader
	// never caches bytes older than the last write
	mu       sync.Mutex
	readFile func(string) ([]byte, error)
}

func newRecordDir(path string, ttl time.Duration) *recordDir {
	return &recordDir{
		path:     path,
		cache:    cache.NewMemoryCache(ttl, time.Minute),
		ttl:      ttl,
		readFile: os.ReadFile,
	}
}

func (d *recordDir) file(name string) string {
	return filepath.Join(d.path, name)
}

// read returns the raw bytes of a record. ok is false when the file does not exist.
func (d *recordDir) read(name string) ([]byte, bool, error) {
	key := cache.RecordKey(name)
	if data, found := d.cache.Get(key); found {
		return data, true, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if data, found := d.cache.Get(key); found {
		return data, true, nil
	}

	data, err := d.readFile(d.file(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}

	// A file caught mid-write may read empty; leave it uncached
	if len(data) > 0 {
		_ = d.cache.Set(key, data, d.ttl)
	}
	return data, true, nil
}

// write stores v as indented JSON via a temp file and rename
func (d *recordDir) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(d.path, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.Rename(tmpName, d.file(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	_ = d.cache.Set(cache.RecordKey(name), data, d.ttl)
	return nil
}

func (d *recordDir) exists(name string) bool {
	_, err := os.Stat(d.file(name))
	return err == nil
}

func (d *recordDir) evict(name string) {
	_ = d.cache.Delete(cache.RecordKey(name))
}
