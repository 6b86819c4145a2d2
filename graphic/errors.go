package graphic

import "errors"

var (
	// ErrFormatNotFound is returned when no registered format matches the
	// requested extension or name.
	ErrFormatNotFound = errors.New("graphic: format not registered")

	// ErrUnknownFormat is returned by Detect when no registered format's
	// signature matches the data.
	ErrUnknownFormat = errors.New("graphic: unrecognized image data")

	// ErrEncodeUnsupported is returned by SaveTo on formats that only
	// implement decoding.
	ErrEncodeUnsupported = errors.New("graphic: encoding not supported")
)
