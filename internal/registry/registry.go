package registry

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
	"github.com/danielpatrickdp/fuzzy-controller/internal/store"
)

// #region config
// Config sizes the engine cache.
type Config struct {
	Size       int // built engines kept, keyed by version id
	Partitions int // overrides every system's partitions when > 0
}

// DefaultConfig returns a 64-entry cache with no partitions override.
func DefaultConfig() Config {
	return Config{Size: 64}
}

// #endregion config

// #region types
// Source provides stored system definitions. *store.Store implements it.
type Source interface {
	GetActive(name string) (store.SystemRecord, error)
	ListSystems() ([]store.SystemSummary, error)
}

// Entry is a ready engine and the version it was built from.
type Entry struct {
	Name      string
	VersionID string // "" for pinned engines
	Engine    *fuzzy.Engine
}

// #endregion types

// #region registry
// Registry resolves system names to built engines. Engines are shared
// between callers and must not be modified after they are returned.
type Registry struct {
	src        Source
	cache      *lru.Cache
	partitions int

	mu     sync.RWMutex
	pinned map[string]*fuzzy.Engine
}

// New creates a registry over src. src may be nil when only pinned engines are used.
func New(src Source, cfg Config) (*Registry, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	cache, err := lru.New(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("engine cache: %w", err)
	}
	return &Registry{
		src:        src,
		cache:      cache,
		partitions: cfg.Partitions,
		pinned:     map[string]*fuzzy.Engine{},
	}, nil
}

// Pin serves e under name ahead of any stored system of the same name.
func (r *Registry) Pin(name string, e *fuzzy.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pinned[name] = e
}

// Engine returns the engine for the active version of name.
func (r *Registry) Engine(name string) (Entry, error) {
	r.mu.RLock()
	e, ok := r.pinned[name]
	r.mu.RUnlock()
	if ok {
		return Entry{Name: name, Engine: e}, nil
	}
	if r.src == nil {
		return Entry{}, fmt.Errorf("system %q: %w", name, store.ErrNotFound)
	}

	rec, err := r.src.GetActive(name)
	if err != nil {
		return Entry{}, err
	}
	if cached, ok := r.cache.Get(rec.VersionID); ok {
		return Entry{Name: name, VersionID: rec.VersionID, Engine: cached.(*fuzzy.Engine)}, nil
	}

	e, err = r.build(rec)
	if err != nil {
		return Entry{}, fmt.Errorf("system %q version %s: %w", name, rec.VersionID, err)
	}
	r.cache.Add(rec.VersionID, e)
	return Entry{Name: name, VersionID: rec.VersionID, Engine: e}, nil
}

// Systems lists pinned and stored systems, ordered by name.
func (r *Registry) Systems() ([]store.SystemSummary, error) {
	var out []store.SystemSummary
	seen := map[string]bool{}

	r.mu.RLock()
	for name := range r.pinned {
		out = append(out, store.SystemSummary{Name: name})
		seen[name] = true
	}
	r.mu.RUnlock()

	if r.src != nil {
		stored, err := r.src.ListSystems()
		if err != nil {
			return nil, err
		}
		for _, s := range stored {
			if !seen[s.Name] {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Purge drops every cached engine. Pinned engines stay.
func (r *Registry) Purge() {
	r.cache.Purge()
}

// Len reports the number of cached engines.
func (r *Registry) Len() int {
	return r.cache.Len()
}

func (r *Registry) build(rec store.SystemRecord) (*fuzzy.Engine, error) {
	sf, err := config.ParseSystem([]byte(rec.Definition))
	if err != nil {
		return nil, err
	}
	if r.partitions > 0 {
		sf.Partitions = r.partitions
	}
	return sf.Build()
}

// #endregion registry
