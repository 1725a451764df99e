package geometry

// ClosestPointOnSegment returns the point on segment [a, b] nearest to p,
// clamped to the segment ends.
func ClosestPointOnSegment(p, a, b Vector3) Vector3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// PointSegmentDistance returns the distance from p to segment [a, b].
func PointSegmentDistance(p, a, b Vector3) float64 {
	return p.Distance(ClosestPointOnSegment(p, a, b))
}

// PointSegmentDistance2D returns the distance from p to segment [a, b] in the
// horizontal plane.
func PointSegmentDistance2D(p, a, b Vector2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}
