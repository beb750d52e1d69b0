package raster

import "errors"

var (
	// ErrInvalidArgument reports a bad size, amplitude or an empty raster.
	// Returned before any computation starts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInternal reports arithmetic degeneracy that valid input cannot produce.
	ErrInternal = errors.New("internal error")
)
