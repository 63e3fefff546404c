package window

import (
	"fmt"
	"math"
	"time"
)

// Frequency selects the duration unit used to interpret integer sizes.
type Frequency int

const (
	// Days counts sizes in 24-hour days.
	Days Frequency = iota
	// Seconds counts sizes in seconds.
	Seconds
	// Microseconds counts sizes in microseconds.
	Microseconds
	// Milliseconds counts sizes in milliseconds.
	Milliseconds
	// Minutes counts sizes in minutes.
	Minutes
	// Hours counts sizes in hours.
	Hours
	// Weeks counts sizes in 7-day weeks.
	Weeks
)

var frequencyNames = [...]string{
	Days:         "days",
	Seconds:      "seconds",
	Microseconds: "microseconds",
	Milliseconds: "milliseconds",
	Minutes:      "minutes",
	Hours:        "hours",
	Weeks:        "weeks",
}

var frequencyUnits = [...]time.Duration{
	Days:         24 * time.Hour,
	Seconds:      time.Second,
	Microseconds: time.Microsecond,
	Milliseconds: time.Millisecond,
	Minutes:      time.Minute,
	Hours:        time.Hour,
	Weeks:        7 * 24 * time.Hour,
}

// ParseFrequency maps a name such as "days" or "hours" to its Frequency.
func ParseFrequency(s string) (Frequency, error) {
	for f, name := range frequencyNames {
		if name == s {
			return Frequency(f), nil
		}
	}
	return 0, fmt.Errorf("%w, got %q", ErrFrequency, s)
}

// Valid reports whether f is one of the declared frequencies.
func (f Frequency) Valid() bool {
	return f >= Days && f <= Weeks
}

// Unit returns the duration of one step of f, or 0 for an invalid frequency.
func (f Frequency) Unit() time.Duration {
	if !f.Valid() {
		return 0
	}
	return frequencyUnits[f]
}

func (f Frequency) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
	return frequencyNames[f]
}

// Mode controls how the training window evolves between folds.
//
//   - Rolling: fixed-width training window sliding forward by the stride.
//   - Expanding: training window anchored at the period start, growing each fold.
type Mode int

const (
	// Rolling keeps the training window at TrainSize units.
	Rolling Mode = iota
	// Expanding keeps the training start fixed at the period start.
	Expanding
)

// ParseMode maps "rolling" or "expanding" to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "rolling":
		return Rolling, nil
	case "expanding":
		return Expanding, nil
	}
	return 0, fmt.Errorf("%w, got %q", ErrWindow, s)
}

// Valid reports whether m is Rolling or Expanding.
func (m Mode) Valid() bool {
	return m == Rolling || m == Expanding
}

func (m Mode) String() string {
	switch m {
	case Rolling:
		return "rolling"
	case Expanding:
		return "expanding"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Config holds the split parameters. Sizes are counts of Frequency units.
//
// A zero Stride means "not supplied" and resolves to ForecastHorizon.
type Config struct {
	Frequency       Frequency
	TrainSize       int
	ForecastHorizon int
	Gap             int
	Stride          int
	Window          Mode
}

// Validate checks frequency, lower bounds and window mode, in that order,
// then that every size fits a time.Duration once scaled by the unit.
func (c Config) Validate() error {
	if !c.Frequency.Valid() {
		return fmt.Errorf("%w, got %s", ErrFrequency, c.Frequency)
	}
	if c.TrainSize < 1 || c.ForecastHorizon < 1 || c.Gap < 0 || c.Stride < 0 {
		return fmt.Errorf("%w, got (%d, %d, %d, %d)",
			ErrLowerBound, c.TrainSize, c.ForecastHorizon, c.Gap, c.Stride)
	}
	if !c.Window.Valid() {
		return fmt.Errorf("%w, got %s", ErrWindow, c.Window)
	}
	return c.checkRange()
}

// checkRange rejects sizes whose Duration would overflow int64, including
// the train+gap+forecast sum used by the fold count.
func (c Config) checkRange() error {
	limit := int64(math.MaxInt64 / c.Frequency.Unit())
	fields := []struct {
		name string
		v    int
	}{
		{"train_size", c.TrainSize},
		{"forecast_horizon", c.ForecastHorizon},
		{"gap", c.Gap},
		{"stride", c.Stride},
	}
	for _, f := range fields {
		if int64(f.v) > limit {
			return fmt.Errorf("%w: %s = %d %s exceeds %d", ErrOverflow, f.name, f.v, c.Frequency, limit)
		}
	}
	if sum := int64(c.TrainSize) + int64(c.Gap) + int64(c.ForecastHorizon); sum > limit {
		return fmt.Errorf("%w: train_size + gap + forecast_horizon = %d %s exceeds %d",
			ErrOverflow, sum, c.Frequency, limit)
	}
	return nil
}

// resolved returns c with the default stride filled in.
func (c Config) resolved() Config {
	if c.Stride == 0 {
		c.Stride = c.ForecastHorizon
	}
	return c
}

// Fold is one train/forecast window pair.
//
// TrainStart <= TrainEnd <= ForecastStart <= ForecastEnd always holds; both
// windows are half-open, [start, end).
type Fold struct {
	TrainStart    time.Time
	TrainEnd      time.Time
	ForecastStart time.Time
	ForecastEnd   time.Time
}

func (f Fold) String() string {
	return fmt.Sprintf("train=[%s, %s) forecast=[%s, %s)",
		f.TrainStart.Format(time.RFC3339), f.TrainEnd.Format(time.RFC3339),
		f.ForecastStart.Format(time.RFC3339), f.ForecastEnd.Format(time.RFC3339))
}

// Period is the [Start, End] span over which folds are generated.
type Period struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrTimeOrder unless Start is strictly before End.
func (p Period) Validate() error {
	if !p.Start.Before(p.End) {
		return fmt.Errorf("%w, got start=%s end=%s",
			ErrTimeOrder, p.Start.Format(time.RFC3339Nano), p.End.Format(time.RFC3339Nano))
	}
	return nil
}

// Span returns End - Start.
func (p Period) Span() time.Duration {
	return p.End.Sub(p.Start)
}

// ResolvePeriod builds a Period from explicit bounds, falling back to the
// timeline's minimum and maximum for any bound left as the zero time.
// Each bound falls back on its own, so an explicit start may be paired with
// the timeline's maximum.
//
// Returns ErrNoBounds if a bound is neither given nor derivable, and
// ErrTimeOrder if the resolved start is not before the resolved end.
func ResolvePeriod(timeline []time.Time, start, end time.Time) (Period, error) {
	if (start.IsZero() || end.IsZero()) && len(timeline) > 0 {
		lo, hi := Extent(timeline)
		if start.IsZero() {
			start = lo
		}
		if end.IsZero() {
			end = hi
		}
	}
	if start.IsZero() || end.IsZero() {
		return Period{}, ErrNoBounds
	}
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Extent returns the minimum and maximum of timeline. Both are zero for an
// empty timeline.
func Extent(timeline []time.Time) (lo, hi time.Time) {
	if len(timeline) == 0 {
		return lo, hi
	}
	lo, hi = timeline[0], timeline[0]
	for _, t := range timeline[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return lo, hi
}
