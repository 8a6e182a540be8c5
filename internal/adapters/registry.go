package adapters

import (
	"fmt"
	"sync"

	"github.com/RahulGupta0712/Spotify-to-Youtube/internal/ports"
)

// SearcherRegistry maps backend names to their VideoSearcher
// implementations. It is safe for concurrent use.
type SearcherRegistry struct {
	mu        sync.RWMutex
	searchers map[string]ports.VideoSearcher
}

// NewSearcherRegistry creates an empty registry.
func NewSearcherRegistry() *SearcherRegistry {
	return &SearcherRegistry{
		searchers: make(map[string]ports.VideoSearcher),
	}
}

// Register adds a searcher to the registry, keyed by its Name().
func (r *SearcherRegistry) Register(s ports.VideoSearcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchers[s.Name()] = s
}

// Get returns the searcher for the given backend name, or an error if not
// registered.
func (r *SearcherRegistry) Get(name string) (ports.VideoSearcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.searchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown search backend: %s", name)
	}
	return s, nil
}

// Available returns the names of all registered backends.
func (r *SearcherRegistry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.searchers))
	for name := range r.searchers {
		names = append(names, name)
	}
	return names
}
