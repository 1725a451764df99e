// Package pick implements hit-testing for both renderers. The 2D engine
// scans entity geometry by planar distance on the working plane; the 3D
// engine casts a camera ray against the retained scene index. Both derive
// their tolerance from the same pixel snap radius so selection feels
// identical in either view.
package pick

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
)

// PlanView is the 2D viewport: a local-space center, a zoom scale in pixels
// per world unit, and the widget size in pixels.
type PlanView struct {
	Center geometry.Vector2 // view center, local coordinates
	Scale  float64          // pixels per world unit
	Width  float64
	Height float64
}

// ScreenToLocal converts widget pixels to local plan coordinates.
func (v PlanView) ScreenToLocal(sx, sy float64) geometry.Vector2 {
	return geometry.Vector2{
		X: v.Center.X + (sx-v.Width/2)/v.Scale,
		Y: v.Center.Y - (sy-v.Height/2)/v.Scale,
	}
}

// LocalToScreen converts local plan coordinates to widget pixels.
func (v PlanView) LocalToScreen(p geometry.Vector2) (float64, float64) {
	return v.Width/2 + (p.X-v.Center.X)*v.Scale,
		v.Height/2 - (p.Y-v.Center.Y)*v.Scale
}

// Engine2D hit-tests the plan view by direct distance against the entity
// store. It exists because rendered stroke widths do not track the
// user-configurable snap radius; a uniform world-unit distance scan does.
// A separate fast path against the rendered pixels would be subsumed by the
// scan (anything on a drawn stroke is within tolerance of that stroke's
// centerline), so the distance scan is deliberately the only path.
type Engine2D struct {
	store *store.Store
	tf    *transform.Service
}

// NewEngine2D creates a 2D hit-test engine over the given store.
func NewEngine2D(s *store.Store, tf *transform.Service) *Engine2D {
	return &Engine2D{store: s, tf: tf}
}

// PickAt finds the nearest entity or element within pixelRadius of the
// screen point. Returns nil when nothing is in range. Ties resolve to the
// first candidate in store iteration order (holes before KAD entities); the
// comparison is strict so earlier candidates keep the win.
func (e *Engine2D) PickAt(screenX, screenY float64, view PlanView, pixelRadius float64) *selection.Descriptor {
	if view.Scale <= 0 {
		return nil
	}
	tolerance := pixelRadius / view.Scale
	local := view.ScreenToLocal(screenX, screenY)
	click := orb.Point{local.X, local.Y}

	best := math.Inf(1)
	var bestDesc *selection.Descriptor

	consider := func(dist float64, desc selection.Descriptor) {
		if dist <= tolerance && dist < best {
			best = dist
			d := desc
			bestDesc = &d
		}
	}

	for _, h := range e.store.AllHoles() {
		collar := e.localPoint(h.Collar)
		consider(planar.Distance(click, collar), selection.HoleDescriptor(h.EntityName, h.HoleID))
	}

	for _, ent := range e.store.AllEntities() {
		dist, desc, ok := e.nearestOnEntity(ent, click, tolerance)
		if ok {
			consider(dist, desc)
		}
	}

	return bestDesc
}

// SnapToleranceWorldUnits converts the pixel radius for the given view; the
// 3D engine applies the identical conversion through the camera so both
// views honor one snap slider.
func (v PlanView) SnapToleranceWorldUnits(pixelRadius float64) float64 {
	if v.Scale <= 0 {
		return 0
	}
	return pixelRadius / v.Scale
}

func (e *Engine2D) localPoint(w transform.WorldPoint) orb.Point {
	l := e.tf.WorldToLocal(w)
	return orb.Point{l.X, l.Y}
}

// nearestOnEntity returns the closest sub-element of one entity, applying
// the type-specific distance function. Vertices within tolerance win over
// the segment they belong to.
func (e *Engine2D) nearestOnEntity(ent *model.KADEntity, click orb.Point, tolerance float64) (float64, selection.Descriptor, bool) {
	if len(ent.Elements) == 0 {
		return 0, selection.Descriptor{}, false
	}

	switch ent.Kind {
	case model.KindPoint:
		dist := planar.Distance(click, e.localPoint(ent.Elements[0].Position))
		return dist, selection.EntityDescriptor(ent), true

	case model.KindCircle:
		center := e.localPoint(ent.Elements[0].Position)
		radius := ent.Elements[0].Radius
		dist := math.Abs(planar.Distance(click, center) - radius)
		return dist, selection.EntityDescriptor(ent), true

	case model.KindText:
		anchor, _ := ent.Anchor()
		dist := planar.Distance(click, e.localPoint(anchor))
		return dist, selection.EntityDescriptor(ent), true

	case model.KindLine, model.KindPoly:
		return e.nearestOnPath(ent, click, tolerance)

	default:
		return 0, selection.Descriptor{}, false
	}
}

func (e *Engine2D) nearestOnPath(ent *model.KADEntity, click orb.Point, tolerance float64) (float64, selection.Descriptor, bool) {
	path := make(orb.LineString, 0, len(ent.Elements)+1)
	for _, el := range ent.Elements {
		path = append(path, e.localPoint(el.Position))
	}
	if ent.Kind == model.KindPoly {
		// Close the ring so the wrap segment (last element back to element
		// 0) is segment index len-1, matching segment numbering.
		path = append(path, path[0])
	}
	if len(path) < 2 {
		return 0, selection.Descriptor{}, false
	}

	segDist, segIndex := planar.DistanceFromWithIndex(path, click)

	// A vertex within tolerance takes priority over its segment.
	vertexDist := math.Inf(1)
	vertexIndex := -1
	for i, el := range ent.Elements {
		d := planar.Distance(click, e.localPoint(el.Position))
		if d < vertexDist {
			vertexDist = d
			vertexIndex = i
		}
	}

	if vertexDist <= tolerance && vertexDist <= segDist+tolerance*0.25 {
		return vertexDist, selection.Descriptor{
			EntityName:   ent.Name,
			EntityKind:   ent.Kind,
			ElementIndex: vertexIndex,
			Type:         selection.TypeVertex,
		}, true
	}

	return segDist, selection.Descriptor{
		EntityName:   ent.Name,
		EntityKind:   ent.Kind,
		ElementIndex: segIndex,
		Type:         selection.TypeSegment,
	}, true
}
