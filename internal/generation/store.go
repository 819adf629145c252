package generation

import (
	"sync"

	"github.com/phrazzld/promptlab/internal/domain"
)

// Store is the in-process memo of resolved requests. Entries are insert-only:
// once a key is resolved its value is never replaced or removed, and there is
// no invalidation for the lifetime of the process.
type Store struct {
	entries sync.Map // domain.CacheKey -> string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the result stored under key.
func (s *Store) Load(key domain.CacheKey) (string, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Store records result under key unless the key is already resolved, and
// returns the value that is now stored.
func (s *Store) Store(key domain.CacheKey, result string) string {
	actual, _ := s.entries.LoadOrStore(key, result)
	return actual.(string)
}

// Len returns the number of resolved keys.
func (s *Store) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
