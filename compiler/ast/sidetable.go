package ast

import "sync"

// SideTable stores per-node data outside the tree, keyed by node identity.
// Unlike the tag slot it is safe for concurrent use, so independent passes
// can annotate a shared tree at the same time.
type SideTable[V any] struct {
	entries map[Node]V
	mu      sync.RWMutex
}

// NewSideTable creates an empty side table.
func NewSideTable[V any]() *SideTable[V] {
	return &SideTable[V]{
		entries: make(map[Node]V),
	}
}

// Get retrieves the value stored for n.
func (st *SideTable[V]) Get(n Node) (V, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	v, ok := st.entries[n]
	return v, ok
}

// Set stores v for n.
func (st *SideTable[V]) Set(n Node, v V) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.entries[n] = v
}

// Delete removes the entry for n.
func (st *SideTable[V]) Delete(n Node) {
	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.entries, n)
}

// Len returns the number of entries.
func (st *SideTable[V]) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.entries)
}

// Range calls fn for each entry until fn returns false. fn must not modify
// the table.
func (st *SideTable[V]) Range(fn func(Node, V) bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for n, v := range st.entries {
		if !fn(n, v) {
			return
		}
	}
}
