// Package period estimates the fundamental period of a periodic signal.
//
// The estimator computes the normalized autocorrelation of a Hann-windowed
// frame via FFT and divides it by the autocorrelation of the window itself,
// which removes the taper bias at long lags. The period is the first
// autocorrelation peak within a fraction of the strongest one, refined by
// parabolic interpolation.
//
// It is used to verify pitch-shifter output and by the voicepitch tool to
// report input and output pitch.
package period
