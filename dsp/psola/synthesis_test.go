package psola

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/measure/period"
)

type pipeline struct {
	a *Analysis
	s *Synthesis
}

func newPipeline(t *testing.T, wavelength, ratio float64, maxBlock int) *pipeline {
	t.Helper()
	a := newTestAnalysis(t, wavelength, maxBlock)
	s, err := NewSynthesis(TargetWavelength(wavelength, ratio))
	if err != nil {
		t.Fatalf("NewSynthesis: %v", err)
	}
	return &pipeline{a: a, s: s}
}

// process runs x through the pipeline in blocks of blockSize, drawing as
// many samples as are pushed per block.
func (p *pipeline) process(x []float64, blockSize int) []float64 {
	out := make([]float64, 0, len(x))
	in := testutil.ToFloat32(x)
	dst := make([]float32, blockSize)
	for start := 0; start < len(in); start += blockSize {
		end := min(start+blockSize, len(in))
		p.a.Push(in[start:end])
		n := p.s.Fill(p.a, dst[:end-start])
		out = append(out, testutil.ToFloat64(dst[:n])...)
	}
	return out
}

func TestNewSynthesisValidation(t *testing.T) {
	for _, target := range []float64{0, 0.5, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewSynthesis(target); !errors.Is(err, ErrInvalidWavelength) {
			t.Fatalf("target %v: err = %v, want ErrInvalidWavelength", target, err)
		}
	}

	s, err := NewSynthesis(80)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetWavelength(math.NaN()); !errors.Is(err, ErrInvalidWavelength) {
		t.Fatalf("SetWavelength(NaN): err = %v", err)
	}
	if s.Wavelength() != 80 {
		t.Fatalf("rejected SetWavelength changed target to %v", s.Wavelength())
	}
}

func TestTargetWavelengthMonotone(t *testing.T) {
	const nominal = 160.0

	prev := math.Inf(1)
	for _, ratio := range []float64{0.5, 1, 2} {
		target := TargetWavelength(nominal, ratio)
		if target >= prev {
			t.Fatalf("ratio %v: target %v not below %v", ratio, target, prev)
		}
		prev = target
	}

	if got := TargetWavelength(nominal, 1); got != nominal {
		t.Fatalf("ratio 1 changed wavelength to %v", got)
	}
	if got := TargetWavelength(nominal, 2); got != 80 {
		t.Fatalf("ratio 2 target = %v, want 80", got)
	}
	if got := Latency(nominal); got != 320 {
		t.Fatalf("Latency = %v, want 320", got)
	}
}

func TestSynthesisThroughputMatchesInput(t *testing.T) {
	x := testutil.Harmonics(300, 48000, 0.5, 8, 3000)

	for _, ratio := range []float64{0.25, 0.5, 0.8, 1, 1.5, 2, 4} {
		for _, blockSize := range []int{1, 37, 96, 256} {
			p := newPipeline(t, 160, ratio, blockSize)
			y := p.process(x, blockSize)
			if len(y) != len(x) {
				t.Fatalf("ratio %v block %d: produced %d samples for %d", ratio, blockSize, len(y), len(x))
			}
			if p.s.Produced() != int64(len(x)) {
				t.Fatalf("ratio %v block %d: Produced() = %d", ratio, blockSize, p.s.Produced())
			}
			testutil.RequireFinite(t, y)
		}
	}
}

func TestSynthesisHighRatioKeepsLevel(t *testing.T) {
	const wl = 160
	x := testutil.DC(1, 4000)

	for _, ratio := range []float64{1, 4, 8, 16, 32} {
		p := newPipeline(t, wl, ratio, 96)
		y := p.process(x, 96)
		for m := 5 * wl; m < len(y); m++ {
			if math.Abs(y[m]-1) > 1e-6 {
				t.Fatalf("ratio %v: y[%d] = %v, want 1", ratio, m, y[m])
			}
		}
	}
}

func TestSynthesisUnityRatioIsDelayedInput(t *testing.T) {
	const wl = 64
	x := testutil.DeterministicNoise(7, 0.5, 1200)
	p := newPipeline(t, wl, 1, 96)
	y := p.process(x, 96)

	delay := int(Latency(wl))
	for m := range y {
		want := 0.0
		if m >= delay {
			want = float64(float32(x[m-delay]))
		}
		if math.Abs(y[m]-want) > 1e-6 {
			t.Fatalf("y[%d] = %v, want x[%d] = %v", m, y[m], m-delay, want)
		}
	}
}

func TestSynthesisUnityRatioMovesImpulse(t *testing.T) {
	const wl = 64
	x := testutil.Impulse(600, 100)
	y := newPipeline(t, wl, 1, 37).process(x, 37)

	peak := 100 + int(Latency(wl))
	for m, v := range y {
		want := 0.0
		if m == peak {
			want = 1
		}
		if math.Abs(v-want) > 1e-6 {
			t.Fatalf("y[%d] = %v, want %v", m, v, want)
		}
	}
}

func TestSynthesisUnityRatioPreservesPeriod(t *testing.T) {
	x := testutil.Harmonics(300, 48000, 0.5, 8, 2048)
	p := newPipeline(t, 160, 1, 96)
	y := p.process(x, 96)

	res, err := period.Estimate(y[400:], period.Config{MinLag: 20, MaxLag: 600})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(res.Period-160) > 1 {
		t.Fatalf("period = %.2f, want 160", res.Period)
	}
}

func TestSynthesisDoublesPitch(t *testing.T) {
	// 300 Hz at 48 kHz has a period of exactly 160 samples.
	x := testutil.Harmonics(300, 48000, 0.5, 8, 1000)
	p := newPipeline(t, 160, 2, 96)
	y := p.process(x, 96)

	steady := y[400:]
	res, err := period.Estimate(steady, period.Config{MinLag: 20, MaxLag: 300, SampleRate: 48000})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(res.Period-80) > 1 {
		t.Fatalf("period = %.2f, want 80", res.Period)
	}
	if math.Abs(res.Frequency-600) > 10 {
		t.Fatalf("frequency = %.1f Hz, want about 600 Hz", res.Frequency)
	}

	for m := 0; m+80 < len(steady); m++ {
		if math.Abs(steady[m]-steady[m+80]) > 1e-5 {
			t.Fatalf("output not periodic at 80: y[%d]=%v y[%d]=%v", m, steady[m], m+80, steady[m+80])
		}
	}
}

func TestSynthesisBlockPartitionIndependent(t *testing.T) {
	x := testutil.Harmonics(220, 48000, 0.5, 6, 2000)

	ref := newPipeline(t, 218.18, 1.3, 256).process(x, 256)
	for _, blockSize := range []int{1, 33, 96} {
		got := newPipeline(t, 218.18, 1.3, blockSize).process(x, blockSize)
		testutil.RequireSliceNearlyEqual(t, got, ref, 0)
	}
}

func TestSynthesisSetWavelengthMidStream(t *testing.T) {
	x := testutil.Harmonics(300, 48000, 0.5, 8, 4000)
	p := newPipeline(t, 160, 1, 96)

	first := p.process(x[:2000], 96)
	if err := p.s.SetWavelength(TargetWavelength(160, 2)); err != nil {
		t.Fatal(err)
	}
	second := p.process(x[2000:], 96)

	if len(first)+len(second) != len(x) {
		t.Fatalf("produced %d samples, want %d", len(first)+len(second), len(x))
	}
	res, err := period.Estimate(second[1000:], period.Config{MinLag: 20, MaxLag: 300})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if math.Abs(res.Period-80) > 1 {
		t.Fatalf("period after change = %.2f, want 80", res.Period)
	}
}

func TestSynthesisSamplesIterator(t *testing.T) {
	x := testutil.DeterministicNoise(3, 0.5, 500)

	ref := newPipeline(t, 50, 1.5, 500).process(x, 500)

	p := newPipeline(t, 50, 1.5, 100)
	var got []float64
	for start := 0; start < len(x); start += 100 {
		p.a.Push(testutil.ToFloat32(x[start : start+100]))
		n := 0
		for v := range p.s.Samples(p.a) {
			got = append(got, float64(float32(v)))
			n++
			if n == 100 {
				break
			}
		}
	}

	testutil.RequireSliceNearlyEqual(t, got, ref, 0)
}

func TestSynthesisReset(t *testing.T) {
	x := testutil.DeterministicNoise(5, 0.5, 300)
	p := newPipeline(t, 40, 0.7, 300)
	first := p.process(x, 300)

	p.a.Reset()
	p.s.Reset()
	if p.s.Produced() != 0 {
		t.Fatalf("Produced() = %d after Reset", p.s.Produced())
	}
	second := p.process(x, 300)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestSynthesisFillDoesNotAllocate(t *testing.T) {
	p := newPipeline(t, 160, 1.7, 96)
	in := make([]float32, 96)
	out := make([]float32, 96)
	for i := range in {
		in[i] = float32(math.Sin(float64(i)))
	}

	allocs := testing.AllocsPerRun(200, func() {
		p.a.Push(in)
		p.s.Fill(p.a, out)
	})
	if allocs != 0 {
		t.Fatalf("Push+Fill allocated %v times per run", allocs)
	}
}

func BenchmarkPipeline96(b *testing.B) {
	w, _ := NewWindow(160)
	a, _ := NewAnalysis(w, 96)
	s, _ := NewSynthesis(TargetWavelength(160, 1.5))
	in := make([]float32, 96)
	out := make([]float32, 96)

	b.ReportAllocs()
	for b.Loop() {
		a.Push(in)
		s.Fill(a, out)
	}
}
