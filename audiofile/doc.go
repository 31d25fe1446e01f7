// Package audiofile decodes audio files to mono float32 samples and
// encodes rendered samples to WAV.
//
// Supported inputs are PCM WAV, PCM AIFF, MP3 and Ogg Vorbis. Multichannel
// input is mixed down to mono by averaging the channels of each frame.
// A [Reader] satisfies offline.Source and a [WAVWriter] satisfies
// offline.Sink, so files can be rendered through the engine directly.
package audiofile
