// Package store owns the canonical entity data: blast holes and KAD drawing
// entities. It holds no rendering state; renderers and hit-test engines read
// from it, and every mutation funnels through it so structural invariants
// (contiguous element indices, poly downgrades, no dangling timing
// references) hold before anything else can observe the data.
package store

import (
	"strconv"
	"strings"

	"github.com/openblast/kadview/internal/model"
)

// Store is the single per-session owner of entity data. Iteration order is
// insertion order, which also serves as the deterministic tie-break order
// for hit-testing.
type Store struct {
	holes     []*model.BlastHole
	holeIndex map[model.HoleKey]int

	entities    []*model.KADEntity
	entityIndex map[string]int

	onDirty func()
}

// New creates an empty store.
func New() *Store {
	return &Store{
		holeIndex:   make(map[model.HoleKey]int),
		entityIndex: make(map[string]int),
	}
}

// SetOnDirty registers the callback invoked after every mutation, used by
// the surrounding system to debounce-save. The store itself performs no I/O.
func (s *Store) SetOnDirty(fn func()) {
	s.onDirty = fn
}

func (s *Store) markDirty() {
	if s.onDirty != nil {
		s.onDirty()
	}
}

// Hole returns the hole with the given composite key.
func (s *Store) Hole(entityName, holeID string) (*model.BlastHole, bool) {
	i, ok := s.holeIndex[model.HoleKey{EntityName: entityName, HoleID: holeID}]
	if !ok {
		return nil, false
	}
	return s.holes[i], true
}

// Entity returns the KAD entity with the given name.
func (s *Store) Entity(name string) (*model.KADEntity, bool) {
	i, ok := s.entityIndex[name]
	if !ok {
		return nil, false
	}
	return s.entities[i], true
}

// AllHoles returns the holes in insertion order. The slice is shared; callers
// must not mutate it.
func (s *Store) AllHoles() []*model.BlastHole {
	return s.holes
}

// AllEntities returns the KAD entities in insertion order. The slice is
// shared; callers must not mutate it.
func (s *Store) AllEntities() []*model.KADEntity {
	return s.entities
}

// UpsertHole inserts the hole or replaces an existing one with the same key,
// keeping its position in the iteration order.
func (s *Store) UpsertHole(h *model.BlastHole) {
	key := h.Key()
	if i, ok := s.holeIndex[key]; ok {
		s.holes[i] = h
	} else {
		s.holeIndex[key] = len(s.holes)
		s.holes = append(s.holes, h)
	}
	s.markDirty()
}

// DeleteHole removes a hole. Timing references from surviving holes to the
// deleted one are cleared, never left dangling.
func (s *Store) DeleteHole(entityName, holeID string) bool {
	key := model.HoleKey{EntityName: entityName, HoleID: holeID}
	i, ok := s.holeIndex[key]
	if !ok {
		return false
	}
	s.holes = append(s.holes[:i], s.holes[i+1:]...)
	s.reindexHoles()

	for _, h := range s.holes {
		if h.EntityName == entityName && h.FromHoleID == holeID {
			h.FromHoleID = ""
		}
	}
	s.markDirty()
	return true
}

// RenumberHoles relabels every hole of the entity in iteration order,
// starting from startLabel (numeric or alphanumeric). Timing references
// within the entity are remapped through the old→new label table; a
// reference whose target is not part of the entity is cleared.
func (s *Store) RenumberHoles(entityName, startLabel string) {
	var entityHoles []*model.BlastHole
	for _, h := range s.holes {
		if h.EntityName == entityName {
			entityHoles = append(entityHoles, h)
		}
	}
	if len(entityHoles) == 0 {
		return
	}

	relabel := make(map[string]string, len(entityHoles))
	label := startLabel
	for _, h := range entityHoles {
		relabel[h.HoleID] = label
		label = nextLabel(label)
	}

	for _, h := range entityHoles {
		h.HoleID = relabel[h.HoleID]
		if h.FromHoleID != "" {
			if mapped, ok := relabel[h.FromHoleID]; ok {
				h.FromHoleID = mapped
			} else {
				h.FromHoleID = ""
			}
		}
	}
	s.reindexHoles()
	s.markDirty()
}

// nextLabel increments a hole label. Pure numbers count up ("7" → "8"), a
// trailing numeric suffix counts up keeping its prefix ("A9" → "A10"), and
// pure alphabetic labels roll like spreadsheet columns ("Z" → "AA").
func nextLabel(label string) string {
	if label == "" {
		return "1"
	}
	if n, err := strconv.Atoi(label); err == nil {
		return strconv.Itoa(n + 1)
	}

	// Split off a trailing numeric suffix
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i < len(label) {
		n, _ := strconv.Atoi(label[i:])
		return label[:i] + strconv.Itoa(n+1)
	}

	return nextAlpha(label)
}

func nextAlpha(label string) string {
	upper := strings.ToUpper(label)
	chars := []byte(upper)
	for i := len(chars) - 1; i >= 0; i-- {
		if chars[i] < 'A' || chars[i] > 'Z' {
			// Not a clean alpha label; fall back to appending a counter
			return label + "1"
		}
		if chars[i] < 'Z' {
			chars[i]++
			return string(chars)
		}
		chars[i] = 'A'
	}
	return "A" + string(chars)
}

func (s *Store) reindexHoles() {
	s.holeIndex = make(map[model.HoleKey]int, len(s.holes))
	for i, h := range s.holes {
		s.holeIndex[h.Key()] = i
	}
}

// UpsertEntity inserts or replaces a KAD entity by name. A degenerate
// entity (no elements, or a line below two elements) is resolved by
// dropping it instead of storing it.
func (s *Store) UpsertEntity(e *model.KADEntity) {
	if isDegenerate(e) {
		s.DeleteEntity(e.Name)
		return
	}
	if i, ok := s.entityIndex[e.Name]; ok {
		s.entities[i] = e
	} else {
		s.entityIndex[e.Name] = len(s.entities)
		s.entities = append(s.entities, e)
	}
	s.markDirty()
}

func isDegenerate(e *model.KADEntity) bool {
	switch e.Kind {
	case model.KindLine:
		return len(e.Elements) < 2
	case model.KindPoly:
		return len(e.Elements) < 3
	case model.KindPoint, model.KindCircle, model.KindText:
		return len(e.Elements) == 0
	default:
		return len(e.Elements) == 0
	}
}

// DeleteEntity removes a KAD entity by name.
func (s *Store) DeleteEntity(name string) bool {
	i, ok := s.entityIndex[name]
	if !ok {
		return false
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	s.reindexEntities()
	s.markDirty()
	return true
}

// DeleteElement removes one element from an entity, renumbering the rest and
// applying the structural downgrades (poly→line at 2 elements; whole-entity
// deletion when too few elements remain). Callers never observe a degenerate
// entity.
func (s *Store) DeleteElement(entityName string, elementIndex int) bool {
	e, ok := s.Entity(entityName)
	if !ok {
		return false
	}
	entityRemoved, ok := e.RemoveElement(elementIndex)
	if !ok {
		return false
	}
	if entityRemoved {
		return s.DeleteEntity(entityName)
	}
	s.markDirty()
	return true
}

func (s *Store) reindexEntities() {
	s.entityIndex = make(map[string]int, len(s.entities))
	for i, e := range s.entities {
		s.entityIndex[e.Name] = i
	}
}
