package routetree

import "sync/atomic"

// Swapper publishes tree snapshots to concurrent readers.
//
// Mutation and resolution never race through a Swapper: a
// reconfiguration builds a fresh tree off to the side and publishes it
// with Store, while readers Load a fully-built snapshot per lookup and
// traverse it without locks. A snapshot must not be mutated after it
// has been stored.
type Swapper[V any] struct {
	current atomic.Pointer[Tree[V]]
}

// NewSwapper creates a swapper publishing an empty tree.
func NewSwapper[V any]() *Swapper[V] {
	s := &Swapper[V]{}
	s.current.Store(New[V]())
	return s
}

// Load returns the currently published snapshot.
func (s *Swapper[V]) Load() *Tree[V] {
	return s.current.Load()
}

// Store publishes t as the new snapshot visible to subsequent Load
// calls. In-flight lookups keep traversing the snapshot they loaded.
func (s *Swapper[V]) Store(t *Tree[V]) {
	s.current.Store(t)
}

// Lookup resolves path against the current snapshot.
func (s *Swapper[V]) Lookup(path string) (Match[V], bool) {
	return s.Load().Lookup(path)
}
