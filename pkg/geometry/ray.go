package geometry

import "math"

// Ray is a half-line from Origin along the unit direction Dir.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, dir Vector3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// DistanceToPoint returns the distance from the ray to p and the ray
// parameter of the closest approach (clamped to the ray origin).
func (r Ray) DistanceToPoint(p Vector3) (float64, float64) {
	t := p.Sub(r.Origin).Dot(r.Dir)
	if t < 0 {
		t = 0
	}
	return p.Distance(r.At(t)), t
}

// DistanceToSegment returns the minimum distance between the ray and segment
// [a, b], the ray parameter, and the segment parameter in [0, 1] at the
// closest approach.
func (r Ray) DistanceToSegment(a, b Vector3) (dist, rayT, segT float64) {
	e := b.Sub(a)
	w0 := r.Origin.Sub(a)

	bb := r.Dir.Dot(e)
	c := e.Dot(e)
	d := r.Dir.Dot(w0)
	eDot := e.Dot(w0)

	var s, u float64
	denom := c - bb*bb // A*C - B*B with A = 1
	if c == 0 {
		// Degenerate segment
		dist, s = r.DistanceToPoint(a)
		return dist, s, 0
	}
	if math.Abs(denom) < 1e-12 {
		s = 0
		u = eDot / c
	} else {
		s = (bb*eDot - c*d) / denom
		u = (eDot - bb*d) / denom
	}
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	s = bb*u - d
	if s < 0 {
		s = 0
		u = eDot / c
		if u < 0 {
			u = 0
		} else if u > 1 {
			u = 1
		}
	}
	closestRay := r.At(s)
	closestSeg := a.Add(e.Scale(u))
	return closestRay.Distance(closestSeg), s, u
}

// IntersectPlaneZ returns the point where the ray crosses the horizontal
// plane at elevation z. Returns false when the ray is parallel to the plane
// or the crossing lies behind the origin.
func (r Ray) IntersectPlaneZ(z float64) (Vector3, bool) {
	if math.Abs(r.Dir.Z) < 1e-12 {
		return Vector3{}, false
	}
	t := (z - r.Origin.Z) / r.Dir.Z
	if t < 0 {
		return Vector3{}, false
	}
	return r.At(t), true
}
