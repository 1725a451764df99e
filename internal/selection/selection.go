// Package selection is the single source of truth for what is selected.
// Both renderers, the tree view, and the input layer mutate and observe
// selection exclusively through the Manager, so canvas-originated and
// tree-originated changes can never diverge.
package selection

import (
	"github.com/openblast/kadview/internal/model"
)

// Type classifies how much of an entity a descriptor selects.
type Type int

const (
	// TypeEntity selects a whole entity (or a whole blast hole).
	TypeEntity Type = iota
	// TypeVertex selects one element of a KAD entity.
	TypeVertex
	// TypeSegment selects the segment starting at ElementIndex. Property
	// edits on a segment resolve their style element through
	// KADEntity.SegmentStyleTarget, never by using ElementIndex directly.
	TypeSegment
)

func (t Type) String() string {
	switch t {
	case TypeEntity:
		return "entity"
	case TypeVertex:
		return "vertex"
	case TypeSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Descriptor identifies one selected thing. For blast holes, HoleID is set
// and ElementIndex is unused. For KAD vertex/segment selections,
// ElementIndex is the element (vertex) or the segment's start element.
// Descriptors compare by value.
type Descriptor struct {
	EntityName   string
	HoleID       string
	EntityKind   model.EntityKind
	ElementIndex int
	Type         Type
}

// HoleDescriptor builds an entity-level descriptor for a blast hole.
func HoleDescriptor(entityName, holeID string) Descriptor {
	return Descriptor{EntityName: entityName, HoleID: holeID, Type: TypeEntity, ElementIndex: -1}
}

// EntityDescriptor builds an entity-level descriptor for a KAD entity.
func EntityDescriptor(e *model.KADEntity) Descriptor {
	return Descriptor{EntityName: e.Name, EntityKind: e.Kind, Type: TypeEntity, ElementIndex: -1}
}

// IsHole reports whether the descriptor refers to a blast hole.
func (d Descriptor) IsHole() bool {
	return d.HoleID != ""
}

// State is a snapshot of the current selection.
type State struct {
	Primary  *Descriptor
	Multiple []Descriptor
}

// Lookup is the slice of the data store the manager needs to detect stale
// descriptors.
type Lookup interface {
	Entity(name string) (*model.KADEntity, bool)
	Hole(entityName, holeID string) (*model.BlastHole, bool)
}

// Listener observes every selection mutation.
type Listener func(State)

// Manager owns the selection state. Not safe for concurrent use; all calls
// arrive from the single UI event queue.
type Manager struct {
	lookup    Lookup
	primary   *Descriptor
	multiple  []Descriptor
	listeners []Listener
}

// NewManager creates a selection manager validating against the given store.
func NewManager(lookup Lookup) *Manager {
	return &Manager{lookup: lookup}
}

// Subscribe registers a listener invoked after every mutation.
func (m *Manager) Subscribe(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify() {
	snap := m.Current()
	for _, fn := range m.listeners {
		fn(snap)
	}
}

// Current returns a read-only snapshot.
func (m *Manager) Current() State {
	var primary *Descriptor
	if m.primary != nil {
		p := *m.primary
		primary = &p
	}
	multiple := make([]Descriptor, len(m.multiple))
	copy(multiple, m.multiple)
	return State{Primary: primary, Multiple: multiple}
}

// SelectSingle replaces the primary selection and clears the multiple set.
// A descriptor that no longer resolves against the store clears instead.
func (m *Manager) SelectSingle(d Descriptor) {
	if !m.valid(d) {
		m.primary = nil
		m.multiple = nil
		m.notify()
		return
	}
	m.primary = &d
	m.multiple = nil
	m.notify()
}

// ToggleInMultiple adds the descriptor to the multiple set, or removes it if
// already present. Used for modifier-key multi-select; its own inverse.
func (m *Manager) ToggleInMultiple(d Descriptor) {
	if !m.valid(d) {
		return
	}
	for i, existing := range m.multiple {
		if existing == d {
			m.multiple = append(m.multiple[:i], m.multiple[i+1:]...)
			m.notify()
			return
		}
	}
	m.multiple = append(m.multiple, d)
	m.notify()
}

// Clear empties both the primary selection and the multiple set. Called on
// Escape, empty-space click, tool change, delete, and move completion.
func (m *Manager) Clear() {
	if m.primary == nil && len(m.multiple) == 0 {
		return
	}
	m.primary = nil
	m.multiple = nil
	m.notify()
}

// Prune drops descriptors that no longer resolve against the store, e.g.
// after an element deletion shrank an entity. Renderers never see an
// out-of-range index.
func (m *Manager) Prune() {
	changed := false
	if m.primary != nil && !m.valid(*m.primary) {
		m.primary = nil
		changed = true
	}
	kept := m.multiple[:0]
	for _, d := range m.multiple {
		if m.valid(d) {
			kept = append(kept, d)
		} else {
			changed = true
		}
	}
	m.multiple = kept
	if changed {
		m.notify()
	}
}

func (m *Manager) valid(d Descriptor) bool {
	if m.lookup == nil {
		return true
	}
	if d.IsHole() {
		_, ok := m.lookup.Hole(d.EntityName, d.HoleID)
		return ok
	}
	e, ok := m.lookup.Entity(d.EntityName)
	if !ok {
		return false
	}
	switch d.Type {
	case TypeEntity:
		return true
	case TypeVertex:
		return d.ElementIndex >= 0 && d.ElementIndex < len(e.Elements)
	case TypeSegment:
		return d.ElementIndex >= 0 && d.ElementIndex < e.SegmentCount()
	default:
		return false
	}
}
