package split

import "errors"

var (
	// ErrNoArrays indicates Split was called without any array.
	ErrNoArrays = errors.New("split: at least one array required as input")

	// ErrShape indicates arrays, or arrays and timeline, of different lengths.
	ErrShape = errors.New("split: invalid shape")
)
