package fmm3d

import "errors"

// ErrInvalidOrder is returned by NewKernelConfig when the requested
// expansion order P is less than 1. Truncation order is meaningless below
// that, so there is nothing a kernel could do with it.
var ErrInvalidOrder = errors.New("fmm3d: expansion order P must be >= 1")
