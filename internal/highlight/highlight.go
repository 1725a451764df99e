// Package highlight turns selection state into render-ready feedback
// primitives. Emitters are pure: they read the store and return shapes, and
// the owning view draws them. Highlight geometry is always distinct from
// data geometry and, in 3D, always tagged non-pickable.
package highlight

import (
	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
)

// Style classifies a highlight primitive for the view's palette.
type Style int

const (
	// StyleSelected marks a selected entity (neutral accent).
	StyleSelected Style = iota
	// StyleActive marks the specific active element or segment (strong accent).
	StyleActive
	// StyleReference marks the remaining vertices of a selected entity.
	StyleReference
)

// Primitive2D is one plan-view highlight shape in local coordinates: a
// marker when Marker is set, a circle outline when Radius is positive,
// otherwise a stroke from A to B.
type Primitive2D struct {
	Style  Style
	Marker bool
	At     geometry.Vector2
	A, B   geometry.Vector2
	Radius float64
}

// Primitives2D computes the plan-view highlight shapes for the selection
// state. Pure function: no drawing, no caching.
func Primitives2D(state selection.State, st *store.Store, tf *transform.Service) []Primitive2D {
	var prims []Primitive2D

	emit := func(d selection.Descriptor, active bool) {
		prims = append(prims, descriptorPrimitives2D(d, st, tf, active)...)
	}
	for _, d := range state.Multiple {
		emit(d, false)
	}
	if state.Primary != nil {
		emit(*state.Primary, true)
	}
	return prims
}

func descriptorPrimitives2D(d selection.Descriptor, st *store.Store, tf *transform.Service, active bool) []Primitive2D {
	accent := StyleSelected
	if active {
		accent = StyleActive
	}

	if d.IsHole() {
		h, ok := st.Hole(d.EntityName, d.HoleID)
		if !ok {
			return nil
		}
		collar := tf.WorldToLocal(h.Collar)
		return []Primitive2D{{Style: accent, Marker: true, At: geometry.Vector2{X: collar.X, Y: collar.Y}}}
	}

	e, ok := st.Entity(d.EntityName)
	if !ok {
		return nil
	}

	local := func(w transform.WorldPoint) geometry.Vector2 {
		l := tf.WorldToLocal(w)
		return geometry.Vector2{X: l.X, Y: l.Y}
	}

	var prims []Primitive2D

	switch e.Kind {
	case model.KindPoint, model.KindText:
		anchor, _ := e.Anchor()
		return []Primitive2D{{Style: accent, Marker: true, At: local(anchor)}}

	case model.KindCircle:
		el := e.Elements[0]
		return []Primitive2D{
			{Style: accent, At: local(el.Position), Radius: el.Radius},
			{Style: StyleReference, Marker: true, At: local(el.Position)},
		}

	case model.KindLine, model.KindPoly:
		// Entity outline in the neutral accent.
		for i := 0; i < e.SegmentCount(); i++ {
			a, b, _ := e.Segment(i)
			prims = append(prims, Primitive2D{Style: StyleSelected, A: local(a), B: local(b)})
		}

		switch d.Type {
		case selection.TypeEntity:
			for _, el := range e.Elements {
				prims = append(prims, Primitive2D{Style: accent, Marker: true, At: local(el.Position)})
			}
		case selection.TypeVertex:
			for i, el := range e.Elements {
				style := StyleReference
				if i == d.ElementIndex {
					style = accent
				}
				prims = append(prims, Primitive2D{Style: style, Marker: true, At: local(el.Position)})
			}
		case selection.TypeSegment:
			if a, b, ok := e.Segment(d.ElementIndex); ok {
				prims = append(prims, Primitive2D{Style: accent, A: local(a), B: local(b)})
			}
			for _, el := range e.Elements {
				prims = append(prims, Primitive2D{Style: StyleReference, Marker: true, At: local(el.Position)})
			}
		}
	}
	return prims
}
