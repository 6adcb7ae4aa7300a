package metadata

import (
	"path/filepath"

	"github.com/On-Jun9/MetaSpy/pkg/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Cache remembers successful extractions keyed by file identity
// (absolute path, size, modification time).
type Cache struct {
	entries *lru.Cache[cacheKey, *types.Fields]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, *types.Fields](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func keyFor(entry types.FileEntry) cacheKey {
	path := entry.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return cacheKey{path: path, size: entry.Size, modTime: entry.ModTime.UnixNano()}
}

func (c *Cache) Get(entry types.FileEntry) (*types.Fields, bool) {
	return c.entries.Get(keyFor(entry))
}

// Add stores fields unless they describe a failed extraction.
func (c *Cache) Add(entry types.FileEntry, fields *types.Fields) {
	if fields == nil {
		return
	}
	if _, failed := fields.Get(types.ErrorKey); failed {
		return
	}
	c.entries.Add(keyFor(entry), fields)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
