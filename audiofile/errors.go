package audiofile

import "errors"

var (
	// ErrUnknownFormat is returned for unrecognized file extensions.
	ErrUnknownFormat = errors.New("audiofile: unknown format")
	// ErrInvalidFile is returned when the content does not match the format.
	ErrInvalidFile = errors.New("audiofile: invalid file")
	// ErrUnsupportedEncoding is returned for valid files with an encoding
	// this package does not decode, such as float or compressed WAV.
	ErrUnsupportedEncoding = errors.New("audiofile: unsupported encoding")
	// ErrClosed is returned when writing to a closed writer.
	ErrClosed = errors.New("audiofile: closed")
)
