package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("got %v want 2.5", got)
	}
}

func TestModeInterpolate(t *testing.T) {
	if got := ModeLinear.Interpolate(0.5, 100, 0, 1, -100); got != 0.5 {
		t.Fatalf("linear got %v want 0.5 (neighbors must be ignored)", got)
	}

	got := ModeHermite.Interpolate(0.5, 0, 1, 2, 3)
	if diff := got - 1.5; diff < -1e-12 || diff > 1e-12 {
		t.Fatalf("hermite got %v want 1.5", got)
	}

	// Both modes pass through the integer points exactly.
	for _, m := range []Mode{ModeHermite, ModeLinear} {
		if got := m.Interpolate(0, 7, 3, 5, 11); got != 3 {
			t.Fatalf("%v at t=0 got %v want 3", m, got)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeHermite.String() != "hermite" || ModeLinear.String() != "linear" || Mode(42).String() != "unknown" {
		t.Fatal("unexpected mode names")
	}
}
