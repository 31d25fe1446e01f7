// Command voicepitch shifts the pitch of a voice in real time or renders a
// file through the same engine.
//
// Usage:
//
//	voicepitch [flags]
//
// Without -in it runs live on the default input and output devices and
// reads pitch commands from stdin, one per line: a ratio such as 1.5, a
// semitone offset such as +7st, or q to quit.
//
// Examples:
//
//	voicepitch
//	voicepitch -f0 120 -frames 128
//	voicepitch -in speech.wav -out high.wav -pitch 1.5
//	voicepitch -in speech.mp3 -out low.wav -semitones -5 -measure
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/psola"
	"github.com/cwbudde/algo-voice/engine"
)

type options struct {
	in, out    string
	measure    bool
	wavelength float64
	f0         float64
	frames     int
	cycles     int
	pitch      float64
	semitones  float64
	underrun   engine.UnderrunPolicy
	shape      psola.Shape
	stopPair   bool
	bitDepth   int
	jitter     int
}

func main() {
	var (
		opts     options
		underrun string
		shape    string
		verbose  bool
	)

	flag.StringVar(&opts.in, "in", "", "input audio file (wav, aiff, mp3, ogg); enables offline mode")
	flag.StringVar(&opts.out, "out", "", "output WAV file in offline mode")
	flag.BoolVar(&opts.measure, "measure", false, "print input and output periods in offline mode")
	flag.Float64Var(&opts.wavelength, "wavelength", 0, "nominal analysis period in samples (overrides -f0)")
	flag.Float64Var(&opts.f0, "f0", 300, "nominal voice fundamental in Hz")
	flag.IntVar(&opts.frames, "frames", core.DefaultBlockSize, "capture frames per buffer")
	flag.IntVar(&opts.cycles, "cycles", 8, "transport capacity in capture blocks")
	flag.Float64Var(&opts.pitch, "pitch", 1, "initial pitch ratio")
	flag.Float64Var(&opts.semitones, "semitones", 0, "initial pitch shift in semitones (overrides -pitch)")
	flag.StringVar(&underrun, "underrun", "silence", "render underrun policy: silence or hold")
	flag.StringVar(&shape, "shape", "triangle", "grain shape: triangle or hann")
	flag.BoolVar(&opts.stopPair, "stop-pair", false, "stop both streams when either side faults")
	flag.IntVar(&opts.bitDepth, "bits", 16, "output WAV bit depth (16 or 24)")
	flag.IntVar(&opts.jitter, "jitter", 0, "offline render block jitter in frames")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: voicepitch [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Shifts the pitch of a voice with TD-PSOLA.\n")
		fmt.Fprintf(os.Stderr, "Without -in, runs live and reads pitch commands from stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands (live mode):\n")
		fmt.Fprintf(os.Stderr, "  1.5     set pitch ratio (%.1f to %.1f)\n", minLiveRatio, maxLiveRatio)
		fmt.Fprintf(os.Stderr, "  +7st    set pitch in semitones\n")
		fmt.Fprintf(os.Stderr, "  q       quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  voicepitch -f0 120\n")
		fmt.Fprintf(os.Stderr, "  voicepitch -in speech.wav -out high.wav -pitch 1.5\n")
		fmt.Fprintf(os.Stderr, "  voicepitch -in speech.mp3 -out low.wav -semitones -5 -measure\n")
	}
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var err error
	if opts.underrun, err = parseUnderrun(underrun); err != nil {
		fatal(err)
	}
	if opts.shape, err = parseShape(shape); err != nil {
		fatal(err)
	}
	if opts.semitones != 0 {
		opts.pitch = core.SemitonesToRatio(opts.semitones)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.in != "" {
		err = runOffline(ctx, opts, logger)
	} else {
		err = runLive(ctx, opts, logger)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// engineOptions maps the flags onto engine options for sampleRate.
func (o options) engineOptions(sampleRate float64, logger *slog.Logger) []engine.Option {
	return []engine.Option{
		engine.WithSampleRate(sampleRate),
		engine.WithFramesPerBuffer(o.frames),
		engine.WithTransportCycles(o.cycles),
		engine.WithUnderrunPolicy(o.underrun),
		engine.WithShape(o.shape),
		engine.WithStopPairOnFault(o.stopPair),
		engine.WithInitialPitch(o.pitch),
		engine.WithLogger(logger),
	}
}

// nominalWavelength returns the analysis period in samples at sampleRate.
func (o options) nominalWavelength(sampleRate float64) (float64, error) {
	if o.wavelength > 0 {
		return o.wavelength, nil
	}
	if !core.IsFinitePositive(o.f0) {
		return 0, fmt.Errorf("fundamental must be positive: %g", o.f0)
	}
	return sampleRate / o.f0, nil
}

func parseUnderrun(s string) (engine.UnderrunPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silence", "":
		return engine.UnderrunSilence, nil
	case "hold":
		return engine.UnderrunHold, nil
	default:
		return 0, fmt.Errorf("unknown underrun policy %q", s)
	}
}

func parseShape(s string) (psola.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangle", "":
		return psola.ShapeTriangle, nil
	case "hann":
		return psola.ShapeHann, nil
	default:
		return 0, fmt.Errorf("unknown grain shape %q", s)
	}
}
