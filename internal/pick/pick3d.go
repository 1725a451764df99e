package pick

import (
	"sort"

	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
	"github.com/openblast/kadview/pkg/viewer"
)

// SceneItem is one pickable primitive in the retained 3D scene: a point
// marker or a segment. Positions are LOCAL coordinates; anything leaving
// the 3D engine goes back through the transform service first.
//
// Highlight overlays are added to the scene with Pickable=false so the
// engine can never re-pick its own selection feedback.
type SceneItem struct {
	Descriptor selection.Descriptor
	A, B       geometry.Vector3 // point items have B == A
	Segment    bool
	Pickable   bool

	// ElementCount is the owning entity's element count, set on segment
	// items so vertex classification can wrap a poly's closing segment
	// without a store lookup inside the engine.
	ElementCount int
}

// Hit is a successful 3D pick: the logical target plus the hit position
// converted back to world space.
type Hit struct {
	Descriptor selection.Descriptor
	Position   transform.WorldPoint
}

// Engine3D casts camera rays against the scene index.
type Engine3D struct {
	tf *transform.Service

	// vertexSnapFraction of the pick tolerance decides when a hit near a
	// segment endpoint becomes a vertex selection instead.
	vertexSnapFraction float64
}

// NewEngine3D creates a 3D hit-test engine.
func NewEngine3D(tf *transform.Service) *Engine3D {
	return &Engine3D{tf: tf, vertexSnapFraction: 0.5}
}

type rayHit struct {
	item SceneItem
	dist float64
	rayT float64
	segT float64
}

// PickAt casts a ray through the screen point and returns the nearest
// pickable scene item within tolerance, or nil. The pick threshold is the
// same pixel radius the 2D engine uses, converted to local units at the
// camera target depth, so the two views stay perceptually identical.
func (e *Engine3D) PickAt(items []SceneItem, cam *viewer.Camera, screenX, screenY, width, height, pixelRadius float64) *Hit {
	tolerance := pixelRadius * cam.WorldUnitsPerPixel(height)
	ray := cam.Unproject(screenX, screenY, width, height)

	var hits []rayHit
	for _, item := range items {
		if !item.Pickable {
			// Selection overlays and other decorations are tagged
			// non-pickable; skip before measuring anything.
			continue
		}
		if item.Segment {
			dist, rayT, segT := ray.DistanceToSegment(item.A, item.B)
			if dist <= tolerance {
				hits = append(hits, rayHit{item: item, dist: dist, rayT: rayT, segT: segT})
			}
		} else {
			dist, rayT := ray.DistanceToPoint(item.A)
			if dist <= tolerance {
				hits = append(hits, rayHit{item: item, dist: dist, rayT: rayT})
			}
		}
	}
	if len(hits) == 0 {
		return nil
	}

	// Nearest along the ray wins; scene order breaks exact ties so the
	// result is deterministic.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].rayT < hits[j].rayT
	})
	h := hits[0]

	desc := h.item.Descriptor
	hitLocal := ray.At(h.rayT)

	if h.item.Segment && desc.Type == selection.TypeSegment {
		desc = e.classifySegmentHit(h, tolerance)
	}

	pos := e.tf.LocalToWorld(transform.LocalFromVec3(hitLocal))
	return &Hit{Descriptor: desc, Position: pos}
}

// classifySegmentHit turns a segment hit into a vertex selection when the
// closest approach lies within the vertex snap distance of an endpoint.
// The endpoint element indices follow segment numbering: start = the
// segment's ElementIndex, end = the style-target wrap.
func (e *Engine3D) classifySegmentHit(h rayHit, tolerance float64) selection.Descriptor {
	desc := h.item.Descriptor
	vertexSnap := tolerance * e.vertexSnapFraction

	closest := h.item.A.Lerp(h.item.B, h.segT)
	distToStart := closest.Distance(h.item.A)
	distToEnd := closest.Distance(h.item.B)

	if distToStart <= vertexSnap || distToEnd <= vertexSnap {
		index := desc.ElementIndex
		if distToEnd < distToStart {
			index = desc.ElementIndex + 1
			if n := h.item.ElementCount; n > 0 && index >= n {
				index = 0 // poly wrap segment ends at element 0
			}
		}
		desc.Type = selection.TypeVertex
		desc.ElementIndex = index
	}
	return desc
}
