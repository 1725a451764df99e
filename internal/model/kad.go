package model

import (
	"image/color"

	"github.com/openblast/kadview/internal/transform"
)

// EntityKind tags a KAD entity with its drawing type. Every switch over an
// EntityKind must list all five kinds; the catch-all default is reserved for
// corrupt data.
type EntityKind int

const (
	KindPoint EntityKind = iota
	KindLine
	KindPoly
	KindCircle
	KindText
)

func (k EntityKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPoly:
		return "poly"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Element is one vertex of a KAD entity. Radius applies to circles only;
// Text and FontHeight to text only.
type Element struct {
	PointID   int
	Position  transform.WorldPoint
	Color     color.RGBA
	LineWidth float64

	Radius     float64
	Text       string
	FontHeight float64
}

// KADEntity is a CAD-like drawing object: an ordered element sequence under
// a unique name.
//
// Styling convention for line and poly entities: element i's color and line
// width style the segment that ENDS at element i, so the segment from
// element i-1 to element i carries element i's attributes. A poly's closing
// segment (last element back to element 0) is styled by element 0.
type KADEntity struct {
	Name     string
	Kind     EntityKind
	Elements []Element
}

// SegmentCount returns the number of drawable segments: len-1 for an open
// line, len for a closed poly (the wrap segment included), 0 otherwise.
func (e *KADEntity) SegmentCount() int {
	switch e.Kind {
	case KindLine:
		if len(e.Elements) < 2 {
			return 0
		}
		return len(e.Elements) - 1
	case KindPoly:
		if len(e.Elements) < 3 {
			return 0
		}
		return len(e.Elements)
	case KindPoint, KindCircle, KindText:
		return 0
	default:
		return 0
	}
}

// Segment returns the endpoints of segment i, where i indexes the segment's
// START element. The poly wrap segment runs from the last element to
// element 0.
func (e *KADEntity) Segment(i int) (a, b transform.WorldPoint, ok bool) {
	n := e.SegmentCount()
	if i < 0 || i >= n {
		return transform.WorldPoint{}, transform.WorldPoint{}, false
	}
	a = e.Elements[i].Position
	b = e.Elements[(i+1)%len(e.Elements)].Position
	return a, b, true
}

// SegmentStyleTarget maps a segment index to the element whose color and
// line width the segment inherits. Because segments are indexed by their
// start element but styled by their end element, the target is always
// elementIndex+1, wrapping to 0 on a poly's closing segment.
//
// This mapping is intentionally centralized: every property edit on a
// selected segment must resolve its element through here.
func (e *KADEntity) SegmentStyleTarget(segIndex int) (int, bool) {
	if segIndex < 0 || segIndex >= e.SegmentCount() {
		return 0, false
	}
	return (segIndex + 1) % len(e.Elements), true
}

// RemoveElement deletes element i, renumbers the remaining elements to a
// contiguous 0-based sequence, and applies the structural downgrades: a poly
// reduced to 2 elements becomes a line, and an entity left with too few
// elements to exist reports removed=true so the owner can drop it.
func (e *KADEntity) RemoveElement(i int) (removed bool, ok bool) {
	if i < 0 || i >= len(e.Elements) {
		return false, false
	}
	e.Elements = append(e.Elements[:i], e.Elements[i+1:]...)
	for idx := range e.Elements {
		e.Elements[idx].PointID = idx
	}

	switch e.Kind {
	case KindPoly:
		if len(e.Elements) == 2 {
			e.Kind = KindLine
		}
		if len(e.Elements) <= 1 {
			return true, true
		}
	case KindLine:
		if len(e.Elements) <= 1 {
			return true, true
		}
	case KindPoint, KindCircle, KindText:
		if len(e.Elements) == 0 {
			return true, true
		}
	default:
		if len(e.Elements) == 0 {
			return true, true
		}
	}
	return false, true
}

// Anchor returns the representative position of the entity: the first
// element for points, circles, and text; the first vertex otherwise.
func (e *KADEntity) Anchor() (transform.WorldPoint, bool) {
	if len(e.Elements) == 0 {
		return transform.WorldPoint{}, false
	}
	return e.Elements[0].Position, true
}
