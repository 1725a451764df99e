// Package viewer provides the orbit camera shared by the 3D widget and the
// 3D hit-test engine. The camera works exclusively in renderer-local
// coordinates (Z up: X east, Y north, Z elevation); world coordinates never
// reach it.
package viewer

import (
	"math"

	"github.com/openblast/kadview/pkg/geometry"
)

// Camera is an orbiting perspective camera around a target point.
type Camera struct {
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // field of view in radians
	Distance float64

	// Azimuth rotates around the vertical axis; elevation tilts the view
	// between plan (pi/2) and horizon (0).
	Azimuth   float64
	Elevation float64

	Position geometry.Vector3
}

// NewCamera creates a camera framing the given bounds from a high oblique
// angle.
func NewCamera(bounds geometry.BoundingBox) *Camera {
	c := &Camera{
		Target:    bounds.Center(),
		Up:        geometry.NewVector3(0, 0, 1),
		FOV:       math.Pi / 4,
		Distance:  math.Max(bounds.Diagonal()*1.5, 10),
		Azimuth:   math.Pi / 4,
		Elevation: math.Pi / 4,
	}
	c.updatePosition()
	return c
}

func (c *Camera) updatePosition() {
	horiz := c.Distance * math.Cos(c.Elevation)
	offset := geometry.Vector3{
		X: horiz * math.Sin(c.Azimuth),
		Y: horiz * math.Cos(c.Azimuth),
		Z: c.Distance * math.Sin(c.Elevation),
	}
	c.Position = c.Target.Add(offset)
}

// Rotate orbits the camera by the given angle deltas, clamping elevation
// short of the poles.
func (c *Camera) Rotate(deltaAzimuth, deltaElevation float64) {
	c.Azimuth += deltaAzimuth
	c.Elevation += deltaElevation

	limit := math.Pi/2 - 0.05
	if c.Elevation > limit {
		c.Elevation = limit
	}
	if c.Elevation < -limit {
		c.Elevation = -limit
	}
	c.updatePosition()
}

// Zoom scales the camera distance.
func (c *Camera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < 0.5 {
		c.Distance = 0.5
	}
	c.updatePosition()
}

// Pan shifts the target in the camera's screen plane by a pixel delta.
func (c *Camera) Pan(deltaX, deltaY, height float64) {
	_, right, up := c.basis()
	perPixel := c.WorldUnitsPerPixel(height)
	c.Target = c.Target.
		Add(right.Scale(-deltaX * perPixel)).
		Add(up.Scale(deltaY * perPixel))
	c.updatePosition()
}

// FitBounds re-targets and re-distances the camera to frame the bounds.
func (c *Camera) FitBounds(bounds geometry.BoundingBox) {
	if bounds.IsEmpty() {
		return
	}
	c.Target = bounds.Center()
	c.Distance = math.Max(bounds.Diagonal()*1.5, 10)
	c.updatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project maps a local-space point to screen coordinates, returning the
// camera-space depth as the third value. Points at or behind the camera are
// clamped to a small positive depth.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + width/2
	screenY := (-y/(z*fovScale))*(height/2) + height/2
	return screenX, screenY, z
}

// Unproject converts screen coordinates into a local-space pick ray.
func (c *Camera) Unproject(screenX, screenY, width, height float64) geometry.Ray {
	ndcX := (2.0*screenX)/width - 1.0
	ndcY := 1.0 - (2.0*screenY)/height

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.basis()
	dir := forward.
		Add(right.Scale(ndcX * fovScale * aspect)).
		Add(up.Scale(ndcY * fovScale))

	return geometry.NewRay(c.Position, dir)
}

// WorldUnitsPerPixel returns the approximate size of one pixel in local
// units at the camera target depth. The hit-test engines use it to convert
// a pixel snap radius into the same world-unit tolerance the 2D view uses.
func (c *Camera) WorldUnitsPerPixel(height float64) float64 {
	if height <= 0 {
		return 1
	}
	return 2 * c.Distance * math.Tan(c.FOV/2) / height
}
