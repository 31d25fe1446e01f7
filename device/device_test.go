package device

import (
	"errors"
	"math"
	"testing"
)

func TestStreamConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StreamConfig
		wantErr bool
	}{
		{"defaults", StreamConfig{SampleRate: 48000, FramesPerBuffer: DefaultFramesPerBuffer}, false},
		{"host chosen block", StreamConfig{SampleRate: 44100}, false},
		{"explicit mono", StreamConfig{SampleRate: 48000, Channels: 1}, false},
		{"zero rate", StreamConfig{}, true},
		{"nan rate", StreamConfig{SampleRate: math.NaN()}, true},
		{"negative block", StreamConfig{SampleRate: 48000, FramesPerBuffer: -1}, true},
		{"stereo", StreamConfig{SampleRate: 48000, Channels: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	if Continue.String() != "continue" || Stop.String() != "stop" || Result(7).String() != "Result(7)" {
		t.Fatal("unexpected result names")
	}
}
