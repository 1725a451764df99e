package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	result := NewVector3(1, 2, 3).Add(NewVector3(4, 5, 6))

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	result := NewVector3(5, 7, 9).Sub(NewVector3(1, 2, 3))

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	length := NewVector3(3, 4, 0).Length()

	if math.Abs(length-5.0) > 1e-10 {
		t.Errorf("Length failed: expected 5.0, got %v", length)
	}
}

func TestVector3Distance(t *testing.T) {
	distance := NewVector3(0, 0, 0).Distance(NewVector3(3, 4, 0))

	if math.Abs(distance-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5.0, got %v", distance)
	}
}

func TestVector3DistanceXYIgnoresElevation(t *testing.T) {
	distance := NewVector3(0, 0, 100).DistanceXY(NewVector3(3, 4, -50))

	if math.Abs(distance-5.0) > 1e-10 {
		t.Errorf("DistanceXY failed: expected 5.0, got %v", distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	normalized := NewVector3(3, 4, 0).Normalize()

	if math.Abs(normalized.Length()-1.0) > 1e-10 {
		t.Errorf("Normalize failed: expected unit length, got %v", normalized.Length())
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	normalized := Vector3{}.Normalize()

	if normalized != (Vector3{}) {
		t.Errorf("Normalize of zero vector should be zero, got %v", normalized)
	}
}

func TestVector3Cross(t *testing.T) {
	result := NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0))

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	result := NewVector3(1, 2, 3).Dot(NewVector3(4, 5, 6))

	if math.Abs(result-32.0) > 1e-10 {
		t.Errorf("Dot failed: expected 32.0, got %v", result)
	}
}

func TestVector3Lerp(t *testing.T) {
	result := NewVector3(0, 0, 10).Lerp(NewVector3(10, 20, 30), 0.5)

	expected := NewVector3(5, 10, 20)
	if result != expected {
		t.Errorf("Lerp failed: expected %v, got %v", expected, result)
	}
}

func TestVector2Distance(t *testing.T) {
	distance := NewVector2(1, 1).Distance(NewVector2(4, 5))

	if math.Abs(distance-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5.0, got %v", distance)
	}
}

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(-1, 2, 3))
	bbox.Extend(NewVector3(4, -5, 6))

	if bbox.Min != NewVector3(-1, -5, 3) {
		t.Errorf("Min failed: got %v", bbox.Min)
	}
	if bbox.Max != NewVector3(4, 2, 6) {
		t.Errorf("Max failed: got %v", bbox.Max)
	}
	if bbox.IsEmpty() {
		t.Error("extended box should not be empty")
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	expected := NewVector3(5, 10, 15)
	if bbox.Center() != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, bbox.Center())
	}
}
