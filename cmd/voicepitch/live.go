package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-voice/device/portaudio"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/engine"
)

const (
	minLiveRatio = 0.5
	maxLiveRatio = 2.0
)

var errQuit = errors.New("quit")

func runLive(ctx context.Context, opts options, logger *slog.Logger) error {
	host, err := portaudio.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := host.Close(); err != nil {
			logger.Warn("portaudio terminate", "err", err)
		}
	}()

	if in, out, err := host.Devices(); err == nil {
		logger.Info("devices", "input", in, "output", out)
	}

	sampleRate := core.DefaultSampleRate
	wavelength, err := opts.nominalWavelength(sampleRate)
	if err != nil {
		return err
	}

	reg := engine.NewRegistry()
	h, err := reg.Start(host, wavelength, opts.engineOptions(sampleRate, logger)...)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.StopAll(); err != nil {
			logger.Warn("stop", "err", err)
		}
	}()

	lines := make(chan string)
	go scanLines(os.Stdin, lines)

	fmt.Fprintf(os.Stderr, "pitch %.2f, enter a ratio, +Nst or q\n", opts.pitch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			ratio, err := parsePitchLine(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if err := reg.SetPitch(h, ratio); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			e, err := reg.Engine(h)
			if err != nil {
				return err
			}
			st := e.Stats()
			logger.Debug("pitch set", "ratio", ratio,
				"underruns", st.Underruns, "overruns", st.Overruns, "faults", st.Faults)
			fmt.Fprintf(os.Stderr, "pitch %.3f (%+.2f st)\n", ratio, core.RatioToSemitones(ratio))
		}
	}
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines <- sc.Text()
	}
}

// parsePitchLine parses one interactive command into a ratio within the
// live range.
func parsePitchLine(line string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(line))
	switch s {
	case "":
		return 0, errors.New("empty command")
	case "q", "quit", "exit":
		return 0, errQuit
	}

	var ratio float64
	if st, ok := strings.CutSuffix(s, "st"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(st), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid semitones %q", line)
		}
		ratio = core.SemitonesToRatio(v)
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ratio %q", line)
		}
		ratio = v
	}
	if !core.IsFinite(ratio) || ratio < minLiveRatio || ratio > maxLiveRatio {
		return 0, fmt.Errorf("pitch %g out of range [%.1f, %.1f]", ratio, minLiveRatio, maxLiveRatio)
	}
	return ratio, nil
}
