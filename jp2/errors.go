package jp2

import "errors"

var (
	ErrCodecInit             = errors.New("jp2: codec library initialization failed")
	ErrStreamOpen            = errors.New("jp2: cannot open codec stream")
	ErrDecodeFailed          = errors.New("jp2: decode failed")
	ErrUnsupportedComponents = errors.New("jp2: unsupported component count")
	ErrBadGeometry           = errors.New("jp2: invalid image geometry")
	ErrStreamClosed          = errors.New("jp2: codec stream already closed")
	ErrImageClosed           = errors.New("jp2: decoded image already released")
	ErrTruncatedData         = errors.New("jp2: truncated data")
)
