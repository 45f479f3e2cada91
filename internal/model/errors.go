package model

import "errors"

var (
	// ErrInvalidPlatform is returned for a platform outside the supported set
	ErrInvalidPlatform = errors.New("unsupported platform")

	// ErrInvalidStatus is returned for an unknown rental status
	ErrInvalidStatus = errors.New("invalid rental status")
)
