package control

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestNewPitch(t *testing.T) {
	p, err := NewPitch(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Get() != 1 {
		t.Fatalf("Get() = %v, want 1", p.Get())
	}

	if _, err := NewPitch(0); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("NewPitch(0): err = %v, want ErrInvalidRatio", err)
	}
}

func TestPitchSetRejectsInvalid(t *testing.T) {
	p, _ := NewPitch(1.5)

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := p.Set(v); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("Set(%v): err = %v, want ErrInvalidRatio", v, err)
		}
		if p.Get() != 1.5 {
			t.Fatalf("Set(%v) changed ratio to %v", v, p.Get())
		}
	}

	if err := p.Set(2); err != nil || p.Get() != 2 {
		t.Fatalf("Set(2): err = %v, Get() = %v", err, p.Get())
	}
}

func TestPitchSemitones(t *testing.T) {
	p, _ := NewPitch(1)

	if err := p.SetSemitones(12); err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Get()-2) > 1e-12 {
		t.Fatalf("+12 st = %v, want 2", p.Get())
	}
	if err := p.SetSemitones(-12); err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Semitones()+12) > 1e-9 {
		t.Fatalf("Semitones() = %v, want -12", p.Semitones())
	}
}

func TestEncodeDecodeExact(t *testing.T) {
	values := []float64{1, 0.5, 2, 1.0594630943592953, math.SmallestNonzeroFloat64, math.MaxFloat64, math.Copysign(0, -1),
		math.Inf(-1), math.NaN(), math.Float64frombits(0x7ff8000000000001)}
	for _, v := range values {
		got := Decode(Encode(v))
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Fatalf("round trip of %v gave %v", v, got)
		}
	}
	if Encode(1) != 0x3ff0000000000000 {
		t.Fatalf("Encode(1) = %#x", Encode(1))
	}
}

func TestPitchConcurrentAccess(t *testing.T) {
	p, _ := NewPitch(1)
	valid := map[float64]bool{1: true, 0.5: true, 2: true}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if (i+w)%2 == 0 {
					_ = p.Set(0.5)
				} else {
					_ = p.Set(2)
				}
				_ = p.Set(math.NaN())
			}
		}(w)
	}

	for i := 0; i < 10000; i++ {
		if v := p.Get(); !valid[v] {
			t.Fatalf("observed invalid ratio %v", v)
		}
	}
	wg.Wait()
}

func BenchmarkPitchGet(b *testing.B) {
	p, _ := NewPitch(1.25)
	var sink float64
	for b.Loop() {
		sink += p.Get()
	}
	_ = sink
}
