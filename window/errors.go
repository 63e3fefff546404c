package window

import "errors"

// Sentinel errors returned by the window package. Details are attached with
// fmt.Errorf("%w: ...", ErrX); match with errors.Is.
var (
	// ErrFrequency indicates a frequency outside the supported set.
	ErrFrequency = errors.New("window: `frequency` must be one of ('days', 'seconds', 'microseconds', 'milliseconds', 'minutes', 'hours', 'weeks')")

	// ErrNotInteger indicates a size field that is not an integral value.
	ErrNotInteger = errors.New("window: (`train_size`, `forecast_horizon`, `gap`, `stride`) arguments must be of type `int`")

	// ErrLowerBound indicates a size field below its lower bound.
	ErrLowerBound = errors.New("window: (`train_size`, `forecast_horizon`, `gap`, `stride`) must be greater or equal than (1, 1, 0, 1)")

	// ErrOverflow indicates a size too large to express as a time.Duration
	// in the configured frequency.
	ErrOverflow = errors.New("window: size out of range for `frequency`")

	// ErrWindow indicates a window mode outside the supported set.
	ErrWindow = errors.New("window: `window` must be one of ('rolling', 'expanding')")

	// ErrTimeOrder indicates a period whose start is not strictly before its end.
	ErrTimeOrder = errors.New("window: `start` must be before `end`")

	// ErrNoBounds indicates that neither a timeline nor an explicit start/end
	// pair could be resolved.
	ErrNoBounds = errors.New("window: either a timeline or an explicit (start, end) pair must be provided")
)
