package store

import (
	"sync"

	"github.com/vesselworks/dashboard/internal/modules/model"
)

// Registry hands out one ProjectStore per session visibility scope.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*ProjectStore
}

func NewRegistry() *Registry {
	return &Registry{stores: map[string]*ProjectStore{}}
}

func (r *Registry) For(sess model.SessionContext) *ProjectStore {
	key := sess.ScopeKey()

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[key]
	if !ok {
		s = NewProjectStore()
		r.stores[key] = s
	}
	return s
}

// Each calls fn for every store created so far.
func (r *Registry) Each(fn func(*ProjectStore)) {
	r.mu.Lock()
	stores := make([]*ProjectStore, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, s)
	}
	r.mu.Unlock()

	for _, s := range stores {
		fn(s)
	}
}

// Lookup returns the store of scope key if one has been created.
func (r *Registry) Lookup(key string) (*ProjectStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[key]
	return s, ok
}
