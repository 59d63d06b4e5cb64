package common

import (
	"math"
	"testing"
)

func TestVec2(t *testing.T) {
	a := V(3, 4)
	if a.Len() != 5 || a.LenSq() != 25 {
		t.Fatalf("expected length 5, got %v", a.Len())
	}
	if got := a.Add(V(1, 1)).Sub(V(2, 2)); got != V(2, 3) {
		t.Fatalf("unexpected add/sub result %v", got)
	}
	if got := a.Dot(V(2, -1)); got != 2 {
		t.Fatalf("expected dot 2, got %v", got)
	}
	if got := a.Normalized(); math.Abs(got.Len()-1) > 1e-12 {
		t.Fatalf("expected unit vector, got %v", got)
	}
	if got := (Vec2{}).Normalized(); !got.IsZero() {
		t.Fatalf("zero vector must normalize to zero, got %v", got)
	}
	if got := a.WithLen(10); got != V(6, 8) {
		t.Fatalf("expected (6,8), got %v", got)
	}
	if got := V(1, 0).Perp(); got != V(0, 1) {
		t.Fatalf("expected quarter turn (0,1), got %v", got)
	}
}

func TestVec2Angle(t *testing.T) {
	cases := []struct {
		name string
		v    Vec2
		want float64
	}{
		{"right", V(1, 0), 0},
		{"up", V(0, -1), -math.Pi / 2},
		{"down", V(0, 2), math.Pi / 2},
		{"zero", Vec2{}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Angle(); math.Abs(got-c.want) > 1e-12 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}

	rotated := V(5, 0).WithAngle(math.Pi / 2)
	if math.Abs(rotated.X) > 1e-12 || math.Abs(rotated.Y-5) > 1e-12 {
		t.Fatalf("expected (0,5), got %v", rotated)
	}
}

func TestLerpClamp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
	if Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 || Clamp(0.5, 0, 1) != 0.5 {
		t.Fatalf("clamp out of range")
	}
}
