// Package registry loads and caches library symbols from an XFL archive's
// LIBRARY/ directory, keyed by a path-normalised name.
package registry

import (
	"context"
	"strings"
	"sync"

	"xflscene/pkg/scene"
	"xflscene/pkg/xflerr"
)

// ParseSymbolFunc parses one LIBRARY/*.xml document into a Symbol. The
// registry is deliberately ignorant of the XFL schema; xmldom.MapSymbol
// supplies the real implementation so the two packages share one parser.
type ParseSymbolFunc func(data []byte) (*scene.Symbol, error)

// ArchiveEntry is the minimal view of an archive the registry needs: a
// listing of LIBRARY/ paths and a way to read one entry's bytes. It is
// satisfied by archivereader.Reader.
type ArchiveEntry interface {
	ListLibrary() []string
	ReadFile(path string) ([]byte, error)
}

// Normalise converts a library path to the registry's canonical key form:
// backslashes become forward slashes, case is preserved.
func Normalise(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

// Registry loads every LIBRARY/*.xml exactly once, storing each Symbol
// under both its original and normalised key (§4.6) to tolerate
// cross-platform authoring without burdening callers with a separate
// fallback path.
type Registry struct {
	mu      sync.Mutex
	symbols map[string]*scene.Symbol
	loaded  bool
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{symbols: make(map[string]*scene.Symbol)}
}

// Load parses every *.xml under LIBRARY/ in archive, exactly once. Calling
// Load again is a no-op. A symbol XML that fails to parse is skipped
// (RecoverableMalformedData, §7); the loop continues.
func (reg *Registry) Load(ctx context.Context, archive ArchiveEntry, parse ParseSymbolFunc, cancelled func() bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.loaded {
		return nil
	}

	for _, path := range archive.ListLibrary() {
		if cancelled != nil && cancelled() {
			return xflerr.ErrCancelled
		}
		select {
		case <-ctx.Done():
			return xflerr.ErrCancelled
		default:
		}

		if !strings.HasSuffix(strings.ToLower(path), ".xml") {
			continue
		}
		data, err := archive.ReadFile(path)
		if err != nil {
			continue
		}
		symbol, err := parse(data)
		if err != nil {
			continue
		}
		reg.store(path, symbol)
	}

	reg.loaded = true
	return nil
}

func (reg *Registry) store(path string, symbol *scene.Symbol) {
	normalised := Normalise(path)
	reg.symbols[path] = symbol
	reg.symbols[normalised] = symbol
}

// Lookup resolves a library item name (§3 invariant 4): try the exact key,
// then the normalised form, then a case-insensitive scan over normalised
// keys.
func (reg *Registry) Lookup(name string) (*scene.Symbol, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if s, ok := reg.symbols[name]; ok {
		return s, true
	}
	normalised := Normalise(name)
	if s, ok := reg.symbols[normalised]; ok {
		return s, true
	}
	lowerTarget := strings.ToLower(normalised)
	for key, s := range reg.symbols {
		if strings.ToLower(key) == lowerTarget {
			return s, true
		}
	}
	return nil, false
}

// Len reports how many distinct symbols are registered (each appears under
// up to two keys, so this counts by pointer identity, not map size).
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	seen := make(map[*scene.Symbol]bool)
	for _, s := range reg.symbols {
		seen[s] = true
	}
	return len(seen)
}
