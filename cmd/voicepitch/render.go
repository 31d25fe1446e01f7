package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/device/offline"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/psola"
	"github.com/cwbudde/algo-voice/engine"
	"github.com/cwbudde/algo-voice/measure/period"
)

// teeSink forwards rendered samples to an optional file and keeps a copy
// when the output is measured.
type teeSink struct {
	file *audiofile.WAVWriter
	keep bool
	buf  []float32
}

func (s *teeSink) Write(p []float32) error {
	if s.keep {
		s.buf = append(s.buf, p...)
	}
	if s.file != nil {
		return s.file.Write(p)
	}
	return nil
}

func runOffline(ctx context.Context, opts options, logger *slog.Logger) error {
	if opts.out == "" && !opts.measure {
		return errors.New("offline mode needs -out or -measure")
	}

	input, sr, err := audiofile.ReadAll(opts.in)
	if err != nil {
		return err
	}
	sampleRate := float64(sr)
	wavelength, err := opts.nominalWavelength(sampleRate)
	if err != nil {
		return err
	}
	logger.Info("input", "path", opts.in, "samples", len(input), "sample_rate", sr)

	sink := &teeSink{keep: opts.measure}
	if opts.out != "" {
		if sink.file, err = audiofile.Create(opts.out, sr, opts.bitDepth); err != nil {
			return err
		}
	}

	host := offline.New(offline.NewSliceSource(input), sink, offline.WithJitter(opts.jitter))
	e, err := engine.Start(host, wavelength, opts.engineOptions(sampleRate, logger)...)
	if err != nil {
		closeSink(sink, logger)
		return err
	}

	select {
	case <-host.Done():
	case <-ctx.Done():
		logger.Warn("interrupted")
	}
	stopErr := e.Stop()
	closeErr := closeSink(sink, logger)
	if err := errors.Join(host.Err(), stopErr, closeErr); err != nil {
		return err
	}

	st := e.Stats()
	captured, rendered := host.Frames()
	logger.Info("rendered", "captured", captured, "rendered", rendered,
		"underruns", st.Underruns, "faults", st.Faults)

	if opts.measure {
		delay := int(psola.Latency(wavelength)) + opts.frames
		printPeriods(input, sink.buf, delay, sampleRate, e.Pitch())
	}
	return nil
}

func closeSink(s *teeSink, logger *slog.Logger) error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		logger.Error("close output", "err", err)
		return err
	}
	return nil
}

// printPeriods reports the fundamental period of input and of output past
// the pipeline delay.
func printPeriods(input, output []float32, delay int, sampleRate, ratio float64) {
	cfg := period.Config{
		MinLag:     max(2, int(sampleRate/1000)),
		MaxLag:     int(sampleRate / 40),
		SampleRate: sampleRate,
	}
	est := period.NewEstimator(cfg)

	report := func(name string, x []float32) {
		if len(x) == 0 {
			fmt.Printf("%s: no samples\n", name)
			return
		}
		res, err := est.Estimate(toFloat64(x))
		if err != nil {
			fmt.Printf("%s: %v\n", name, err)
			return
		}
		fmt.Printf("%s: period %.2f samples, %.1f Hz, clarity %.2f\n",
			name, res.Period, res.Frequency, res.Clarity)
	}

	report("input", input)
	if delay < len(output) {
		output = output[delay:]
	} else {
		output = nil
	}
	report("output", output)
	fmt.Printf("ratio: %.3f\n", ratio)
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	core.Widen(out, x)
	return out
}
