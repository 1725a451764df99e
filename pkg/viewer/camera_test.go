package viewer

import (
	"math"
	"testing"

	"github.com/openblast/kadview/pkg/geometry"
)

func testBounds() geometry.BoundingBox {
	b := geometry.NewBoundingBox()
	b.Extend(geometry.NewVector3(-50, -50, 0))
	b.Extend(geometry.NewVector3(50, 50, 20))
	return b
}

func TestProjectTargetIsScreenCenter(t *testing.T) {
	c := NewCamera(testBounds())

	x, y, depth := c.Project(c.Target, 800, 600)
	if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("target should project to screen center, got (%v, %v)", x, y)
	}
	if math.Abs(depth-c.Distance) > 1e-6 {
		t.Errorf("target depth should equal camera distance, got %v", depth)
	}
}

func TestUnprojectRayHitsProjectedPoint(t *testing.T) {
	c := NewCamera(testBounds())
	point := geometry.NewVector3(12, -7, 5)

	sx, sy, _ := c.Project(point, 800, 600)
	ray := c.Unproject(sx, sy, 800, 600)

	dist, _ := ray.DistanceToPoint(point)
	if dist > 1e-6 {
		t.Errorf("unprojected ray should pass through the point, distance %v", dist)
	}
}

func TestUnprojectCenterAimsAtTarget(t *testing.T) {
	c := NewCamera(testBounds())

	ray := c.Unproject(400, 300, 800, 600)
	dist, _ := ray.DistanceToPoint(c.Target)
	if dist > 1e-6 {
		t.Errorf("center ray should pass through the target, distance %v", dist)
	}
}

func TestRotateKeepsDistance(t *testing.T) {
	c := NewCamera(testBounds())
	before := c.Distance

	c.Rotate(0.5, 0.3)

	if math.Abs(c.Position.Distance(c.Target)-before) > 1e-9 {
		t.Error("rotation must not change the orbit distance")
	}
}

func TestRotateClampsElevation(t *testing.T) {
	c := NewCamera(testBounds())
	c.Rotate(0, 10)

	if c.Elevation >= math.Pi/2 {
		t.Errorf("elevation must clamp short of the pole, got %v", c.Elevation)
	}
}

func TestZoomFloor(t *testing.T) {
	c := NewCamera(testBounds())
	for i := 0; i < 100; i++ {
		c.Zoom(-0.5)
	}
	if c.Distance < 0.5 {
		t.Errorf("distance floor violated: %v", c.Distance)
	}
}

func TestPanMovesTargetInViewPlane(t *testing.T) {
	c := NewCamera(testBounds())
	before := c.Target

	c.Pan(100, 0, 600)

	moved := c.Target.Sub(before)
	if moved.Length() < 1e-9 {
		t.Fatal("pan should move the target")
	}
	forward := c.Target.Sub(c.Position).Normalize()
	if math.Abs(moved.Normalize().Dot(forward)) > 1e-6 {
		t.Error("pan must stay in the view plane")
	}
}

func TestWorldUnitsPerPixelScalesWithDistance(t *testing.T) {
	c := NewCamera(testBounds())
	near := c.WorldUnitsPerPixel(600)
	c.Zoom(1.0) // double the distance
	far := c.WorldUnitsPerPixel(600)

	if math.Abs(far/near-2.0) > 1e-9 {
		t.Errorf("per-pixel size should double with distance, ratio %v", far/near)
	}
}
