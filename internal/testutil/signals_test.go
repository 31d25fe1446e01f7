package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	// First sample of a sine at phase 0 should be 0.
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestHarmonicsPeriodicAndBounded(t *testing.T) {
	const period = 160
	s := Harmonics(300, 48000, 0.8, 6, 4*period)
	for i := 0; i+period < len(s); i++ {
		if math.Abs(s[i]-s[i+period]) > 1e-9 {
			t.Fatalf("not periodic at %d: %v vs %v", i, s[i], s[i+period])
		}
	}
	for i, v := range s {
		if math.Abs(v) > 0.8 {
			t.Fatalf("s[%d] = %v exceeds amplitude", i, v)
		}
	}
}

func TestHarmonicsZeroCount(t *testing.T) {
	for i, v := range Harmonics(300, 48000, 1, 0, 8) {
		if v != 0 {
			t.Fatalf("s[%d] = %v, want 0", i, v)
		}
	}
}

func TestPeriodicPulse(t *testing.T) {
	p := PeriodicPulse(4, 10)
	want := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 0}
	RequireSliceNearlyEqual(t, p, want, 0)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		if i == 3 {
			if v != 1 {
				t.Fatalf("imp[3] = %v, want 1", v)
			}
		} else if v != 0 {
			t.Fatalf("imp[%d] = %v, want 0", i, v)
		}
	}
	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("imp[%d] = %v, want all zeros for out-of-bounds pos", i, v)
		}
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestFloatConversions(t *testing.T) {
	in := []float64{0.5, -0.25}
	back := ToFloat64(ToFloat32(in))
	for i := range in {
		if back[i] != in[i] {
			t.Fatalf("index %d: got %v, want %v", i, back[i], in[i])
		}
	}
}
