package pick

import (
	"testing"

	"github.com/openblast/kadview/internal/model"
	"github.com/openblast/kadview/internal/selection"
	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/internal/transform"
	"github.com/openblast/kadview/pkg/geometry"
)

// view1to1 maps local coordinates 1:1 onto a 200x200 screen centered at the
// local origin, so world distances equal pixel distances.
func view1to1() PlanView {
	return PlanView{Center: geometry.Vector2{}, Scale: 1, Width: 200, Height: 200}
}

func originService() *transform.Service {
	tf := transform.NewService()
	tf.SetOrigin(0, 0)
	return tf
}

func screenAt(view PlanView, x, y float64) (float64, float64) {
	return view.LocalToScreen(geometry.Vector2{X: x, Y: y})
}

func addPoly(s *store.Store, name string, pts ...[2]float64) {
	e := &model.KADEntity{Name: name, Kind: model.KindPoly}
	for i, p := range pts {
		e.Elements = append(e.Elements, model.Element{
			PointID:  i,
			Position: transform.WorldPoint{X: p[0], Y: p[1]},
		})
	}
	s.UpsertEntity(e)
}

func TestFallbackSelectsSegmentByIndex(t *testing.T) {
	// 4-vertex polygon; click 0.5 world units from the midpoint of segment
	// 2-3 with tolerance 1.0 must select segment 2.
	s := store.New()
	addPoly(s, "pit", [2]float64{0, 0}, [2]float64{40, 0}, [2]float64{40, 40}, [2]float64{0, 40})
	e := NewEngine2D(s, originService())
	view := view1to1()

	// Segment 2 runs from (40,40) to (0,40); midpoint (20,40). Click 0.5
	// below it.
	sx, sy := screenAt(view, 20, 39.5)
	got := e.PickAt(sx, sy, view, 1.0)
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.Type != selection.TypeSegment || got.ElementIndex != 2 {
		t.Errorf("expected segment 2, got %v %d", got.Type, got.ElementIndex)
	}

	// 2.0 world units away with the same tolerance selects nothing.
	sx, sy = screenAt(view, 20, 38.0)
	if hit := e.PickAt(sx, sy, view, 1.0); hit != nil {
		t.Errorf("expected no hit outside tolerance, got %+v", hit)
	}
}

func TestFallbackSelectsWrapSegment(t *testing.T) {
	s := store.New()
	addPoly(s, "pit", [2]float64{0, 0}, [2]float64{40, 0}, [2]float64{40, 40}, [2]float64{0, 40})
	e := NewEngine2D(s, originService())
	view := view1to1()

	// Wrap segment (index 3) runs from (0,40) back to (0,0); midpoint (0,20).
	sx, sy := screenAt(view, 0.5, 20)
	got := e.PickAt(sx, sy, view, 1.0)
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.Type != selection.TypeSegment || got.ElementIndex != 3 {
		t.Errorf("expected wrap segment 3, got %v %d", got.Type, got.ElementIndex)
	}
}

func TestVertexTakesPriorityOverSegment(t *testing.T) {
	s := store.New()
	addPoly(s, "pit", [2]float64{0, 0}, [2]float64{40, 0}, [2]float64{40, 40}, [2]float64{0, 40})
	e := NewEngine2D(s, originService())
	view := view1to1()

	sx, sy := screenAt(view, 40.3, 0.3)
	got := e.PickAt(sx, sy, view, 1.0)
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.Type != selection.TypeVertex || got.ElementIndex != 1 {
		t.Errorf("expected vertex 1, got %v %d", got.Type, got.ElementIndex)
	}
}

func TestCircleDistanceIsToPerimeter(t *testing.T) {
	s := store.New()
	s.UpsertEntity(&model.KADEntity{
		Name: "exclusion",
		Kind: model.KindCircle,
		Elements: []model.Element{{
			Position: transform.WorldPoint{X: 0, Y: 0},
			Radius:   30,
		}},
	})
	e := NewEngine2D(s, originService())
	view := view1to1()

	// Near the perimeter hits...
	sx, sy := screenAt(view, 30.4, 0)
	if e.PickAt(sx, sy, view, 1.0) == nil {
		t.Error("click near circle perimeter should hit")
	}
	// ...but the center does not.
	sx, sy = screenAt(view, 0, 0)
	if e.PickAt(sx, sy, view, 1.0) != nil {
		t.Error("click at circle center should miss")
	}
}

func TestHoleCollarPick(t *testing.T) {
	s := store.New()
	h, err := model.NewBlastHole("shot1", "7", transform.WorldPoint{X: 10, Y: 20, Z: 50}, 10, 0, 0, 1, 115)
	if err != nil {
		t.Fatalf("NewBlastHole: %v", err)
	}
	s.UpsertHole(h)
	e := NewEngine2D(s, originService())
	view := view1to1()

	sx, sy := screenAt(view, 10.5, 20)
	got := e.PickAt(sx, sy, view, 1.0)
	if got == nil {
		t.Fatal("expected collar hit")
	}
	if !got.IsHole() || got.HoleID != "7" {
		t.Errorf("expected hole 7, got %+v", got)
	}
}

func TestSnapToleranceMonotonic(t *testing.T) {
	s := store.New()
	addPoly(s, "pit", [2]float64{0, 0}, [2]float64{40, 0}, [2]float64{40, 40}, [2]float64{0, 40})
	e := NewEngine2D(s, originService())
	view := view1to1()

	sx, sy := screenAt(view, 20, 38.5) // 1.5 units from segment 2
	found := false
	for _, radius := range []float64{0.5, 1.0, 1.5, 2.0, 5.0, 10.0} {
		got := e.PickAt(sx, sy, view, radius)
		if found && got == nil {
			t.Fatalf("radius %v lost a previously-found selection", radius)
		}
		if got != nil {
			found = true
		}
	}
	if !found {
		t.Fatal("largest radius should have found the polygon")
	}
}

func TestTieBreakIsInsertionOrder(t *testing.T) {
	// Two point entities equidistant from the click: the first inserted wins.
	s := store.New()
	for _, tc := range []struct {
		name string
		x    float64
	}{{"west", -5}, {"east", 5}} {
		s.UpsertEntity(&model.KADEntity{
			Name:     tc.name,
			Kind:     model.KindPoint,
			Elements: []model.Element{{Position: transform.WorldPoint{X: tc.x, Y: 0}}},
		})
	}
	e := NewEngine2D(s, originService())
	view := view1to1()

	sx, sy := screenAt(view, 0, 0)
	got := e.PickAt(sx, sy, view, 10.0)
	if got == nil {
		t.Fatal("expected a hit")
	}
	if got.EntityName != "west" {
		t.Errorf("tie must resolve to first insertion, got %q", got.EntityName)
	}
}

func TestEmptySpaceReturnsNil(t *testing.T) {
	s := store.New()
	addPoly(s, "pit", [2]float64{0, 0}, [2]float64{40, 0}, [2]float64{40, 40}, [2]float64{0, 40})
	e := NewEngine2D(s, originService())
	view := view1to1()

	sx, sy := screenAt(view, -80, -80)
	if e.PickAt(sx, sy, view, 1.0) != nil {
		t.Error("far-away click must return nil, not an error")
	}
}

func TestToleranceScalesWithZoom(t *testing.T) {
	s := store.New()
	s.UpsertEntity(&model.KADEntity{
		Name:     "p",
		Kind:     model.KindPoint,
		Elements: []model.Element{{Position: transform.WorldPoint{X: 4, Y: 0}}},
	})
	e := NewEngine2D(s, originService())

	// At scale 1, a 2px radius misses a point 4 units away.
	view := view1to1()
	sx, sy := screenAt(view, 0, 0)
	if e.PickAt(sx, sy, view, 2.0) != nil {
		t.Error("should miss at scale 1")
	}

	// Zoomed out to 0.25 px/unit, the same 2px radius covers 8 units.
	zoomedOut := PlanView{Scale: 0.25, Width: 200, Height: 200}
	sx, sy = zoomedOut.LocalToScreen(geometry.Vector2{})
	if e.PickAt(sx, sy, zoomedOut, 2.0) == nil {
		t.Error("should hit when zoomed out")
	}
}

func TestScreenLocalRoundTrip(t *testing.T) {
	view := PlanView{Center: geometry.Vector2{X: 12, Y: -7}, Scale: 2.5, Width: 640, Height: 480}
	p := geometry.Vector2{X: 31.25, Y: -2.5}

	sx, sy := view.LocalToScreen(p)
	back := view.ScreenToLocal(sx, sy)
	if back.Distance(p) > 1e-9 {
		t.Errorf("round trip failed: %v -> %v", p, back)
	}
}
