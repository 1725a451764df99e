package model

import (
	"image/color"
	"testing"

	"github.com/openblast/kadview/internal/transform"
)

func polyEntity(name string, n int) *KADEntity {
	e := &KADEntity{Name: name, Kind: KindPoly}
	for i := 0; i < n; i++ {
		e.Elements = append(e.Elements, Element{
			PointID:  i,
			Position: transform.WorldPoint{X: float64(i * 10), Y: float64(i % 2 * 10)},
			Color:    color.RGBA{R: uint8(i), A: 255},
		})
	}
	return e
}

func TestSegmentCount(t *testing.T) {
	cases := []struct {
		kind     EntityKind
		elements int
		want     int
	}{
		{KindLine, 2, 1},
		{KindLine, 5, 4},
		{KindLine, 1, 0},
		{KindPoly, 3, 3},
		{KindPoly, 4, 4},
		{KindPoly, 2, 0},
		{KindPoint, 1, 0},
		{KindCircle, 1, 0},
		{KindText, 1, 0},
	}

	for _, c := range cases {
		e := &KADEntity{Kind: c.kind, Elements: make([]Element, c.elements)}
		if got := e.SegmentCount(); got != c.want {
			t.Errorf("%v with %d elements: expected %d segments, got %d", c.kind, c.elements, c.want, got)
		}
	}
}

func TestSegmentStyleTargetOffByOne(t *testing.T) {
	// Segment i runs from element i to element (i+1) mod N and inherits the
	// END element's style, for every i.
	e := polyEntity("p", 5)
	for i := 0; i < e.SegmentCount(); i++ {
		target, ok := e.SegmentStyleTarget(i)
		if !ok {
			t.Fatalf("segment %d: unexpected out of range", i)
		}
		want := (i + 1) % len(e.Elements)
		if target != want {
			t.Errorf("segment %d: expected style element %d, got %d", i, want, target)
		}
	}
}

func TestSegmentStyleTargetLine(t *testing.T) {
	e := &KADEntity{Kind: KindLine, Elements: make([]Element, 4)}

	target, ok := e.SegmentStyleTarget(2)
	if !ok || target != 3 {
		t.Errorf("line segment 2: expected element 3, got %d (ok=%v)", target, ok)
	}

	if _, ok := e.SegmentStyleTarget(3); ok {
		t.Error("line with 4 elements has only 3 segments")
	}
}

func TestPolyWrapSegment(t *testing.T) {
	e := polyEntity("p", 4)

	a, b, ok := e.Segment(3)
	if !ok {
		t.Fatal("wrap segment should exist")
	}
	if a != e.Elements[3].Position || b != e.Elements[0].Position {
		t.Errorf("wrap segment endpoints wrong: %v -> %v", a, b)
	}

	target, _ := e.SegmentStyleTarget(3)
	if target != 0 {
		t.Errorf("wrap segment styled by element 0, got %d", target)
	}
}

func TestRemoveElementRenumbers(t *testing.T) {
	e := polyEntity("p", 5)
	removed, ok := e.RemoveElement(2)
	if !ok || removed {
		t.Fatalf("expected in-place removal, removed=%v ok=%v", removed, ok)
	}

	if len(e.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(e.Elements))
	}
	for i, el := range e.Elements {
		if el.PointID != i {
			t.Errorf("element %d: PointID not renumbered, got %d", i, el.PointID)
		}
	}
}

func TestPolyDowngradesToLine(t *testing.T) {
	e := polyEntity("p", 3)
	removed, _ := e.RemoveElement(1)
	if removed {
		t.Fatal("3-element poly minus one should survive")
	}
	if e.Kind != KindLine {
		t.Errorf("expected downgrade to line, got %v", e.Kind)
	}
}

func TestLineDeletedBelowTwoElements(t *testing.T) {
	e := &KADEntity{Kind: KindLine, Elements: make([]Element, 2)}
	removed, _ := e.RemoveElement(0)
	if !removed {
		t.Error("line reduced to 1 element must be deleted")
	}
}

func TestPointDeletedWhenEmpty(t *testing.T) {
	e := &KADEntity{Kind: KindPoint, Elements: make([]Element, 1)}
	removed, _ := e.RemoveElement(0)
	if !removed {
		t.Error("point with no elements must be deleted")
	}
}

func TestRemoveElementOutOfRange(t *testing.T) {
	e := polyEntity("p", 3)
	if _, ok := e.RemoveElement(7); ok {
		t.Error("out-of-range removal must report not ok")
	}
}
