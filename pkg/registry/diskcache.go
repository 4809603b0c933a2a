package registry

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"xflscene/pkg/scene"
	"xflscene/pkg/xflerr"
)

const cacheBucket = "symbols"

// DiskCache persists parsed symbols keyed by the sha256 of their source XML,
// so a host that re-opens the same archive (or shares a LIBRARY/ directory
// across archives) skips re-parsing unchanged symbol XML. It is an optional
// companion to Registry.Load, not a requirement of it.
type DiskCache struct {
	db *bolt.DB
}

// OpenDiskCache opens (creating if absent) a bbolt database at dbPath for
// symbol caching.
func OpenDiskCache(dbPath string) (*DiskCache, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open symbol cache: %w: %v", err, dbPath)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cacheBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create symbol cache bucket: %w", err)
	}
	return &DiskCache{db: db}, nil
}

// Close releases the underlying bbolt database.
func (c *DiskCache) Close() error {
	return c.db.Close()
}

func contentKey(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Get looks up a previously cached Symbol by the sha256 of its source XML.
func (c *DiskCache) Get(data []byte) (*scene.Symbol, bool) {
	var symbol *scene.Symbol
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		raw := b.Get(contentKey(data))
		if raw == nil {
			return nil
		}
		symbol = &scene.Symbol{}
		return json.Unmarshal(raw, symbol)
	})
	if err != nil || symbol == nil {
		return nil, false
	}
	return symbol, true
}

// Put stores symbol under the sha256 of its source XML.
func (c *DiskCache) Put(data []byte, symbol *scene.Symbol) error {
	raw, err := json.Marshal(symbol)
	if err != nil {
		return fmt.Errorf("could not marshal symbol: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cacheBucket))
		return b.Put(contentKey(data), raw)
	})
}

// LoadCached behaves like Load, but consults cache before parse and
// populates it after a successful parse, so repeat runs over an unchanged
// LIBRARY/ directory skip the XML walk entirely.
func (reg *Registry) LoadCached(archive ArchiveEntry, cache *DiskCache, parse ParseSymbolFunc, cancelled func() bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.loaded {
		return nil
	}

	for _, path := range archive.ListLibrary() {
		if cancelled != nil && cancelled() {
			return xflerr.ErrCancelled
		}
		if !strings.HasSuffix(strings.ToLower(path), ".xml") {
			continue
		}
		data, err := archive.ReadFile(path)
		if err != nil {
			continue
		}

		symbol, ok := cache.Get(data)
		if !ok {
			symbol, err = parse(data)
			if err != nil {
				continue
			}
			_ = cache.Put(data, symbol)
		}
		reg.store(path, symbol)
	}

	reg.loaded = true
	return nil
}
