package highlight

import (
	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/pick"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
)

// Overlay3D is one 3D highlight primitive in local coordinates: a marker at
// A, or a segment from A to B.
type Overlay3D struct {
	Style   Style
	A, B    geometry.Vector3
	Segment bool
}

// Overlays3D computes the 3D highlight primitives for the selection state.
// Pure function; the OverlaySet owns their lifecycle.
func Overlays3D(state selection.State, st *store.Store, tf *transform.Service) []Overlay3D {
	var out []Overlay3D
	for _, d := range state.Multiple {
		out = append(out, descriptorOverlays3D(d, st, tf, false)...)
	}
	if state.Primary != nil {
		out = append(out, descriptorOverlays3D(*state.Primary, st, tf, true)...)
	}
	return out
}

func descriptorOverlays3D(d selection.Descriptor, st *store.Store, tf *transform.Service, active bool) []Overlay3D {
	accent := StyleSelected
	if active {
		accent = StyleActive
	}

	local := func(w transform.WorldPoint) geometry.Vector3 {
		return tf.WorldToLocal(w).Vec3()
	}

	if d.IsHole() {
		h, ok := st.Hole(d.EntityName, d.HoleID)
		if !ok {
			return nil
		}
		collar, toe := local(h.Collar), local(h.Toe)
		return []Overlay3D{
			{Style: accent, A: collar},
			{Style: accent, A: collar, B: toe, Segment: true},
		}
	}

	e, ok := st.Entity(d.EntityName)
	if !ok {
		return nil
	}

	var out []Overlay3D
	switch e.Kind {
	case model.KindPoint, model.KindCircle, model.KindText:
		anchor, _ := e.Anchor()
		return []Overlay3D{{Style: accent, A: local(anchor)}}

	case model.KindLine, model.KindPoly:
		for i := 0; i < e.SegmentCount(); i++ {
			a, b, _ := e.Segment(i)
			style := StyleSelected
			if active && d.Type == selection.TypeSegment && i == d.ElementIndex {
				style = StyleActive
			}
			out = append(out, Overlay3D{Style: style, A: local(a), B: local(b), Segment: true})
		}
		for i, el := range e.Elements {
			style := StyleReference
			if d.Type == selection.TypeVertex && i == d.ElementIndex {
				style = accent
			}
			out = append(out, Overlay3D{Style: style, A: local(el.Position)})
		}
	}
	return out
}

// OverlaySet owns the live 3D highlight objects. Every selection or camera
// change rebuilds the set in place; the previous generation is disposed
// before the new one is created, so overlays never accumulate.
type OverlaySet struct {
	items      []Overlay3D
	generation int
}

// NewOverlaySet creates an empty overlay set.
func NewOverlaySet() *OverlaySet {
	return &OverlaySet{}
}

// Rebuild disposes the current overlays and generates a fresh set for the
// given selection state.
func (s *OverlaySet) Rebuild(state selection.State, st *store.Store, tf *transform.Service) {
	s.Dispose()
	s.items = Overlays3D(state, st, tf)
	s.generation++
}

// Dispose releases all current overlays.
func (s *OverlaySet) Dispose() {
	s.items = nil
}

// Items returns the live overlays for drawing.
func (s *OverlaySet) Items() []Overlay3D {
	return s.items
}

// Generation counts rebuilds; views use it to detect staleness.
func (s *OverlaySet) Generation() int {
	return s.generation
}

// SceneItems exposes the overlays to the pick scene, tagged non-pickable so
// the 3D engine's exclusion filter skips them.
func (s *OverlaySet) SceneItems() []pick.SceneItem {
	out := make([]pick.SceneItem, 0, len(s.items))
	for _, o := range s.items {
		b := o.B
		if !o.Segment {
			b = o.A
		}
		out = append(out, pick.SceneItem{
			Descriptor: selection.Descriptor{EntityName: "__highlight__"},
			A:          o.A,
			B:          b,
			Segment:    o.Segment,
			Pickable:   false,
		})
	}
	return out
}
