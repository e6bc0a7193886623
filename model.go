package trackable

import (
	"errors"
	"slices"
	"sync"
)

var (
	ErrNotTrackable    = errors.New("trackable: type does not embed trackable.Model")
	ErrNotTracked      = errors.New("trackable: attribute is not tracked")
	ErrTypeMismatch    = errors.New("trackable: value type mismatch")
	ErrUnsupportedKind = errors.New("trackable: unsupported attribute type")
	ErrSetterSignature = errors.New("trackable: setter must take exactly one value")
	ErrInvalidPayload  = errors.New("trackable: invalid payload")
)

// Tracker is the dirty-tracking surface promoted by an embedded Model.
type Tracker interface {
	Identifier() string
	IsDirty() bool
	DirtyAttributes() []string
	MarkDirty(name string)
	MarkClean()
}

// Model is the base every tracked model embeds by value.
//
// The dirty set is guarded by a mutex, but the attribute fields written by
// setters are not: an instance shared between goroutines needs a single writer
// or external locking around assignment and flush.
type Model struct {
	ID string `attr:"id"`

	mu    sync.Mutex
	dirty map[string]struct{}
}

var _ Tracker = (*Model)(nil)

// Identifier returns the external identity hydrated from the "id" key.
func (m *Model) Identifier() string {
	return m.ID
}

// IsDirty reports whether any attribute was assigned since the last MarkClean.
func (m *Model) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dirty) > 0
}

// IsAttributeDirty reports whether name was assigned since the last MarkClean.
func (m *Model) IsAttributeDirty(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.dirty[name]
	return ok
}

// DirtyAttributes returns a sorted copy of the dirty attribute names.
func (m *Model) DirtyAttributes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.dirty))
	for name := range m.dirty {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MarkDirty records name as assigned. Tracked setters call it after a
// successful assignment; models may call it for attributes set by other means.
func (m *Model) MarkDirty(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirty == nil {
		m.dirty = make(map[string]struct{})
	}
	m.dirty[name] = struct{}{}
}

// MarkClean clears the dirty set.
func (m *Model) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.dirty)
}
