package buffer

import (
	"sync"
)

// Buffer collects entries in insertion order, keeping one entry per key.
type Buffer[K comparable, T any] struct {
	mu   sync.Mutex
	keys map[K]struct{}
	ts   []T
}

func NewBuffer[K comparable, T any]() *Buffer[K, T] {
	return &Buffer[K, T]{keys: map[K]struct{}{}}
}

// Add appends e unless an entry with the same key is already buffered.
// It reports whether e was added.
func (b *Buffer[K, T]) Add(key K, e T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.keys[key]; ok {
		return false
	}
	b.keys[key] = struct{}{}
	b.ts = append(b.ts, e)
	return true
}

func (b *Buffer[K, T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ts)
}

// Drain returns the buffered entries and empties the buffer.
func (b *Buffer[K, T]) Drain() []T {
	b.mu.Lock()
	es := b.ts
	b.ts = nil
	clear(b.keys)
	b.mu.Unlock()
	return es
}

func (b *Buffer[K, T]) Reset() {
	b.Drain()
}
