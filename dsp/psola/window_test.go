package psola

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewWindowValidation(t *testing.T) {
	tests := []struct {
		name       string
		wavelength float64
		wantErr    bool
	}{
		{"nominal", 160, false},
		{"fractional", 109.09, false},
		{"minimum", MinWavelength, false},
		{"too short", 1.5, true},
		{"zero", 0, true},
		{"negative", -10, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
		{"too long", 1e6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.wavelength)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWavelength) {
					t.Fatalf("err = %v, want ErrInvalidWavelength", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Wavelength() != tt.wavelength {
				t.Fatalf("Wavelength() = %v, want %v", w.Wavelength(), tt.wavelength)
			}
		})
	}
}

func TestNewWindowErrorNamesRange(t *testing.T) {
	_, err := NewWindow(1e6)
	if err == nil {
		t.Fatal("expected error for 1e6 samples")
	}
	if got := err.Error(); !strings.Contains(got, "[2, 65536]") || strings.Contains(got, "%!") {
		t.Fatalf("error text = %q", got)
	}
}

func TestWindowWeightPartitionOfUnity(t *testing.T) {
	for _, shape := range []Shape{ShapeTriangle, ShapeHann} {
		for _, wl := range []float64{16, 37.5, 160} {
			w, err := NewWindow(wl, WithShape(shape))
			if err != nil {
				t.Fatal(err)
			}
			for u := 0.0; u < wl; u += 0.25 {
				sum := w.Weight(u) + w.Weight(u-wl)
				if math.Abs(sum-1) > 1e-12 {
					t.Fatalf("%v W=%v offset %v: weights sum to %v", shape, wl, u, sum)
				}
			}
		}
	}
}

func TestWindowWeightShape(t *testing.T) {
	w, _ := NewWindow(10)

	tests := []struct {
		offset float64
		want   float64
	}{
		{0, 1},
		{5, 0.5},
		{-5, 0.5},
		{10, 0},
		{-10, 0},
		{25, 0},
	}
	for _, tt := range tests {
		if got := w.Weight(tt.offset); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Weight(%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	h, _ := NewWindow(10, WithShape(ShapeHann))
	if h.Shape() != ShapeHann {
		t.Fatalf("Shape() = %v, want hann", h.Shape())
	}
	if got := h.Weight(5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("hann Weight(5) = %v, want 0.5", got)
	}
}

func TestWindowAdvance(t *testing.T) {
	w, _ := NewWindow(4)

	crossings := 0
	for i := 1; i <= 12; i++ {
		if w.Advance() {
			crossings++
			if i%4 != 0 {
				t.Fatalf("crossing at sample %d, want multiples of 4", i)
			}
		}
	}
	if crossings != 3 || w.Grain() != 3 {
		t.Fatalf("crossings = %d, Grain() = %d, want 3", crossings, w.Grain())
	}
	if !w.Polarity() {
		t.Fatal("polarity should have flipped an odd number of times")
	}
	if w.Phase() != 0 {
		t.Fatalf("Phase() = %v, want 0", w.Phase())
	}

	w.Reset()
	if w.Grain() != 0 || w.Phase() != 0 || w.Polarity() {
		t.Fatal("Reset did not rewind the cursor")
	}
}

func TestWindowAdvanceFractional(t *testing.T) {
	w, _ := NewWindow(2.5)

	var at []int
	for i := 1; i <= 10; i++ {
		if w.Advance() {
			at = append(at, i)
		}
	}

	want := []int{3, 5, 8, 10}
	if len(at) != len(want) {
		t.Fatalf("crossings at %v, want %v", at, want)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Fatalf("crossings at %v, want %v", at, want)
		}
	}
}

func TestShapeString(t *testing.T) {
	if ShapeTriangle.String() != "triangle" || ShapeHann.String() != "hann" || Shape(9).String() != "unknown" {
		t.Fatal("unexpected shape names")
	}
	w, _ := NewWindow(8, WithShape(Shape(9)))
	if w.Shape() != ShapeTriangle {
		t.Fatalf("invalid shape option changed shape to %v", w.Shape())
	}
}
