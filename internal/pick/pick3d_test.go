package pick

import (
	"math"
	"testing"

	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
	"github.com/openblast/kadview/pkg/viewer"
)

const screenW, screenH = 800.0, 600.0

func sceneCamera() *viewer.Camera {
	b := geometry.NewBoundingBox()
	b.Extend(geometry.NewVector3(-30, -30, 0))
	b.Extend(geometry.NewVector3(30, 30, 15))
	return viewer.NewCamera(b)
}

func aimAt(cam *viewer.Camera, p geometry.Vector3) (float64, float64) {
	x, y, _ := cam.Project(p, screenW, screenH)
	return x, y
}

func TestPickPointItem(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(500000, 6000000)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	collar := geometry.NewVector3(10, 5, 12)
	items := []SceneItem{{
		Descriptor: selection.HoleDescriptor("shot1", "4"),
		A:          collar, B: collar,
		Pickable: true,
	}}

	sx, sy := aimAt(cam, collar)
	hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Descriptor.HoleID != "4" {
		t.Errorf("expected hole 4, got %+v", hit.Descriptor)
	}

	// The hit position must come back in world space.
	if math.Abs(hit.Position.X-500010) > 0.5 || math.Abs(hit.Position.Y-6000005) > 0.5 {
		t.Errorf("hit position not converted to world space: %+v", hit.Position)
	}
}

func TestOverlayNeverPicked(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	p := geometry.NewVector3(0, 0, 5)
	dataDesc := selection.HoleDescriptor("shot1", "1")
	overlayDesc := selection.Descriptor{EntityName: "__highlight__"}

	// Overlay marker sits between the camera and the data point, exactly on
	// the pick ray. It must be skipped.
	toward := cam.Position.Sub(p).Normalize()
	overlayPos := p.Add(toward.Scale(2))
	items := []SceneItem{
		{Descriptor: overlayDesc, A: overlayPos, B: overlayPos, Pickable: false},
		{Descriptor: dataDesc, A: p, B: p, Pickable: true},
	}

	sx, sy := aimAt(cam, p)
	for i := 0; i < 3; i++ {
		hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
		if hit == nil {
			t.Fatal("expected a hit")
		}
		if hit.Descriptor != dataDesc {
			t.Fatalf("pick %d returned the overlay, not the data item: %+v", i, hit.Descriptor)
		}
	}
}

func TestNearestAlongRayWins(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	near := geometry.NewVector3(0, 0, 5)
	toward := cam.Position.Sub(near).Normalize()
	far := near.Sub(toward.Scale(10)) // further along the same ray

	items := []SceneItem{
		{Descriptor: selection.HoleDescriptor("shot1", "far"), A: far, B: far, Pickable: true},
		{Descriptor: selection.HoleDescriptor("shot1", "near"), A: near, B: near, Pickable: true},
	}

	sx, sy := aimAt(cam, near)
	hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Descriptor.HoleID != "near" {
		t.Errorf("expected the nearer item, got %q", hit.Descriptor.HoleID)
	}
}

func TestSegmentMidHitStaysSegment(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	a := geometry.NewVector3(-20, 0, 0)
	b := geometry.NewVector3(20, 0, 0)
	items := []SceneItem{{
		Descriptor: selection.Descriptor{
			EntityName: "pit", ElementIndex: 1, Type: selection.TypeSegment,
		},
		A: a, B: b, Segment: true, ElementCount: 4, Pickable: true,
	}}

	sx, sy := aimAt(cam, a.Lerp(b, 0.5))
	hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Descriptor.Type != selection.TypeSegment || hit.Descriptor.ElementIndex != 1 {
		t.Errorf("expected segment 1, got %v %d", hit.Descriptor.Type, hit.Descriptor.ElementIndex)
	}
}

func TestSegmentEndpointHitBecomesVertex(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	a := geometry.NewVector3(-20, 0, 0)
	b := geometry.NewVector3(20, 0, 0)
	items := []SceneItem{{
		Descriptor: selection.Descriptor{
			EntityName: "pit", ElementIndex: 1, Type: selection.TypeSegment,
		},
		A: a, B: b, Segment: true, ElementCount: 4, Pickable: true,
	}}

	sx, sy := aimAt(cam, b)
	hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Descriptor.Type != selection.TypeVertex || hit.Descriptor.ElementIndex != 2 {
		t.Errorf("expected vertex 2, got %v %d", hit.Descriptor.Type, hit.Descriptor.ElementIndex)
	}
}

func TestWrapSegmentEndpointWrapsToElementZero(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	// Closing segment of a 4-element poly: index 3, ending at element 0.
	a := geometry.NewVector3(0, 20, 0)
	b := geometry.NewVector3(0, -20, 0)
	items := []SceneItem{{
		Descriptor: selection.Descriptor{
			EntityName: "pit", ElementIndex: 3, Type: selection.TypeSegment,
		},
		A: a, B: b, Segment: true, ElementCount: 4, Pickable: true,
	}}

	sx, sy := aimAt(cam, b)
	hit := e.PickAt(items, cam, sx, sy, screenW, screenH, 6)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Descriptor.Type != selection.TypeVertex || hit.Descriptor.ElementIndex != 0 {
		t.Errorf("expected wrap to vertex 0, got %v %d", hit.Descriptor.Type, hit.Descriptor.ElementIndex)
	}
}

func TestMissReturnsNil(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	p := geometry.NewVector3(0, 0, 5)
	items := []SceneItem{{Descriptor: selection.HoleDescriptor("shot1", "1"), A: p, B: p, Pickable: true}}

	if hit := e.PickAt(items, cam, 5, 5, screenW, screenH, 6); hit != nil {
		t.Errorf("corner click far from geometry must miss, got %+v", hit)
	}
}

func TestEmptySceneReturnsNil(t *testing.T) {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	cam := sceneCamera()
	e := NewEngine3D(tf)

	if hit := e.PickAt(nil, cam, screenW/2, screenH/2, screenW, screenH, 6); hit != nil {
		t.Errorf("empty scene must miss, got %+v", hit)
	}
}
