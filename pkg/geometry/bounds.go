package geometry

import "math"

// BoundingBox is an axis-aligned bounding box.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// IsEmpty reports whether the box has never been extended.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Extend expands the bounding box to include a point.
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = Vector3{
		X: math.Min(b.Min.X, point.X),
		Y: math.Min(b.Min.Y, point.Y),
		Z: math.Min(b.Min.Z, point.Z),
	}
	b.Max = Vector3{
		X: math.Max(b.Max.X, point.X),
		Y: math.Max(b.Max.Y, point.Y),
		Z: math.Max(b.Max.Z, point.Z),
	}
}

// Size returns the dimensions of the bounding box.
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box.
func (b BoundingBox) Center() Vector3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Diagonal returns the length of the bounding box diagonal.
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}
