// Package transform owns the world/local coordinate split. World coordinates
// are UTM-scale (1e5..1e7); the renderers work in a local space offset by a
// per-session origin so float precision survives the GPU/float32 path.
//
// WorldPoint and LocalPoint are distinct types on purpose: a function that
// takes one will not compile when handed the other. All conversions go
// through a single Service instance.
package transform

import (
	"log"

	"github.com/openblast/kadview/pkg/geometry"
)

// WorldPoint is a point in absolute (UTM-scale) coordinates.
type WorldPoint struct {
	X, Y, Z float64
}

// LocalPoint is a point in renderer-local coordinates, offset from world by
// the session origin. Z is never offset: elevations are small-magnitude
// already and keeping them absolute avoids a second bookkeeping axis.
type LocalPoint struct {
	X, Y, Z float64
}

// Vec3 exposes the local point to the renderer math in pkg/geometry.
// Only local points get this escape hatch; world points must be converted
// first.
func (p LocalPoint) Vec3() geometry.Vector3 {
	return geometry.Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

// LocalFromVec3 wraps renderer math results back into a LocalPoint.
func LocalFromVec3(v geometry.Vector3) LocalPoint {
	return LocalPoint{X: v.X, Y: v.Y, Z: v.Z}
}

// originTolerance is the threshold below which a repeated SetOrigin call is
// treated as idempotent rather than inconsistent.
const originTolerance = 1e-6

// Service converts between world and local space. One instance per session;
// every call site shares it.
type Service struct {
	originX   float64
	originY   float64
	originSet bool

	conversions int

	// logf is swappable so tests can capture the inconsistency warning.
	logf func(format string, args ...any)
}

// NewService creates a transform service with the origin at (0,0).
func NewService() *Service {
	return &Service{logf: log.Printf}
}

// SetLogger replaces the warning sink.
func (s *Service) SetLogger(logf func(format string, args ...any)) {
	s.logf = logf
}

// SetOrigin fixes the local origin. Idempotent for the same value. Calling
// it with a materially different origin after conversions have happened is a
// programming error elsewhere; it is logged loudly and the new origin wins,
// invalidating any cached local coordinates until they are re-derived.
func (s *Service) SetOrigin(x, y float64) {
	if s.originSet {
		dx := x - s.originX
		dy := y - s.originY
		if dx < originTolerance && dx > -originTolerance &&
			dy < originTolerance && dy > -originTolerance {
			return
		}
		if s.conversions > 0 {
			s.logf("transform: origin changed from (%.3f, %.3f) to (%.3f, %.3f) after %d conversions; cached local coordinates are stale",
				s.originX, s.originY, x, y, s.conversions)
		}
	}
	s.originX = x
	s.originY = y
	s.originSet = true
}

// Origin returns the current origin and whether it has been set.
func (s *Service) Origin() (x, y float64, set bool) {
	return s.originX, s.originY, s.originSet
}

// WorldToLocal offsets x and y by the origin. Z passes through unchanged.
func (s *Service) WorldToLocal(w WorldPoint) LocalPoint {
	s.conversions++
	return LocalPoint{X: w.X - s.originX, Y: w.Y - s.originY, Z: w.Z}
}

// LocalToWorld is the inverse of WorldToLocal.
func (s *Service) LocalToWorld(l LocalPoint) WorldPoint {
	s.conversions++
	return WorldPoint{X: l.X + s.originX, Y: l.Y + s.originY, Z: l.Z}
}
