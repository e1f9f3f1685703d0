package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	dot := v1.Dot(v2)

	expected := 32.0
	if math.Abs(dot-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, dot)
	}
}

func TestVector3Axis(t *testing.T) {
	v := NewVector3(1, 2, 3)
	for i, expected := range []float64{1, 2, 3} {
		if got := v.Axis(i); got != expected {
			t.Errorf("Axis(%d) failed: expected %v, got %v", i, expected, got)
		}
	}
}

func TestVector3MinMax(t *testing.T) {
	v1 := NewVector3(1, 5, 3)
	v2 := NewVector3(4, 2, 6)

	if got := v1.Min(v2); got != NewVector3(1, 2, 3) {
		t.Errorf("Min failed: got %v", got)
	}
	if got := v1.Max(v2); got != NewVector3(4, 5, 6) {
		t.Errorf("Max failed: got %v", got)
	}
}
