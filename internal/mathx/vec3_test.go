package mathx

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != New(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != New(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != New(2, 4, 6) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestCross(t *testing.T) {
	x := New(1, 0, 0)
	y := New(0, 1, 0)

	if got := x.Cross(y); got != New(0, 0, 1) {
		t.Errorf("x cross y = %v, want +z", got)
	}
	if got := y.Cross(x); got != New(0, 0, -1) {
		t.Errorf("y cross x = %v, want -z", got)
	}
	if got := x.Cross(x); got != Zero {
		t.Errorf("self cross = %v, want zero", got)
	}
}

func TestLengthAndNormalized(t *testing.T) {
	v := New(3, 4, 0)
	if v.Length() != 5 {
		t.Errorf("Length = %v, want 5", v.Length())
	}

	n := v.Normalized()
	if math.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("normalized length = %v", n.Length())
	}
	if n.X != 0.6 || n.Y != 0.8 {
		t.Errorf("Normalized = %v", n)
	}

	if Zero.Normalized() != Zero {
		t.Error("normalizing zero must return zero, not NaN")
	}
}

func TestMinMax(t *testing.T) {
	a := New(1, 5, -2)
	b := New(3, 0, -7)

	if got := Min(a, b); got != New(1, 0, -7) {
		t.Errorf("Min = %v", got)
	}
	if got := Max(a, b); got != New(3, 5, -2) {
		t.Errorf("Max = %v", got)
	}
}
