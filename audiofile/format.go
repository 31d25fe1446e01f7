package audiofile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a container/codec pair.
type Format int

const (
	FormatWAV Format = iota
	FormatAIFF
	FormatMP3
	FormatVorbis
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatAIFF:
		return "aiff"
	case FormatMP3:
		return "mp3"
	case FormatVorbis:
		return "ogg vorbis"
	default:
		return "unknown"
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".aif", ".aiff", ".aifc":
		return FormatAIFF, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatVorbis, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}
