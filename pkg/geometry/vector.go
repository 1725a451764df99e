// Package geometry provides the vector, segment, and ray math shared by the
// renderers and hit-test engines.
package geometry

import "math"

// Vector3 represents a 3D point or direction.
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 creates a new 3D vector.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the difference between two vectors.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale multiplies the vector by a scalar.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the distance between two points.
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// DistanceXY returns the horizontal (plan-view) distance between two points.
func (v Vector3) DistanceXY(other Vector3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Hypot(dx, dy)
}

// Normalize returns a unit vector in the same direction, or the zero vector
// if the input has zero length.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.Scale(1.0 / length)
}

// Lerp returns the point a fraction t of the way from v to other.
func (v Vector3) Lerp(other Vector3, t float64) Vector3 {
	return v.Add(other.Sub(v).Scale(t))
}

// XY drops the Z component.
func (v Vector3) XY() Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}

// Vector2 represents a 2D point or direction in the horizontal plane.
type Vector2 struct {
	X, Y float64
}

// NewVector2 creates a new 2D vector.
func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of two vectors.
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude of the vector.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points.
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}
