// Package timeseries provides timeline-aligned data structures for splitting.
package timeseries

import (
	"errors"
	"math"
	"time"

	"github.com/sartorproj/timesplit/split"
)

// ErrLengthMismatch is returned when timestamps and values differ in length.
var ErrLengthMismatch = errors.New("timeseries: timestamps and values must have the same length")

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

var _ split.Array = (*Series)(nil)

// New creates a series with explicit timestamps.
func New(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series. A nil series has length 0.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Mask returns a new series holding the selected observations.
func (s *Series) Mask(sel []bool) split.Array {
	if s == nil {
		return &Series{}
	}
	out := &Series{Name: s.Name}
	for i, v := range s.Values {
		if i < len(sel) && sel[i] {
			out.Values = append(out.Values, v)
			if i < len(s.Timestamps) {
				out.Timestamps = append(out.Timestamps, s.Timestamps[i])
			}
		}
	}
	return out
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Last returns the final value, or NaN for an empty series.
func (s *Series) Last() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return s.Values[len(s.Values)-1]
}

// DateRange returns the points start, start+step, ... up to and including
// end. It returns nil when step is not positive or end precedes start.
func DateRange(start, end time.Time, step time.Duration) []time.Time {
	if step <= 0 || end.Before(start) {
		return nil
	}
	ts := make([]time.Time, 0, int(end.Sub(start)/step)+1)
	for t := start; !t.After(end); t = t.Add(step) {
		ts = append(ts, t)
	}
	return ts
}
