package split

import (
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/timesplit/window"
)

// Options holds optional arguments for Split.
type Options struct {
	Start      time.Time // Period start (default: timeline minimum)
	End        time.Time // Period end (default: timeline maximum)
	ReturnFold bool      // Attach the originating fold to each Result
}

// Result is one fold's worth of sliced arrays.
//
// Slices is laid out as train_1, forecast_1, train_2, forecast_2, ... in the
// order the arrays were passed to Split. Fold is nil unless
// Options.ReturnFold was set.
type Result struct {
	Slices []Array
	Fold   *window.Fold
}

// Train returns the training slice of the i-th array.
func (r Result) Train(i int) Array { return r.Slices[2*i] }

// Forecast returns the forecast slice of the i-th array.
func (r Result) Forecast(i int) Array { return r.Slices[2*i+1] }

// Splitter slices timeline-aligned arrays into train/forecast folds.
type Splitter struct {
	*window.Engine
}

// New validates cfg and returns a Splitter.
func New(cfg window.Config, opts ...window.Option) (*Splitter, error) {
	eng, err := window.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Splitter{Engine: eng}, nil
}

// Split validates its inputs and returns an iterator over the folds of the
// resolved period. All checks run before the first fold: at least one
// array, equal array lengths, timeline length equal to the array length,
// and a start strictly before the end.
func (s *Splitter) Split(timeline []time.Time, opts *Options, arrays ...Array) (*Iterator, error) {
	if opts == nil {
		opts = &Options{}
	}
	if len(arrays) == 0 {
		return nil, ErrNoArrays
	}

	n := arrays[0].Len()
	for i, a := range arrays[1:] {
		if a.Len() != n {
			s.Logger().Debug("array length mismatch",
				zap.Int("array", i+1), zap.Int("len", a.Len()), zap.Int("expected", n))
			return nil, fmt.Errorf("%w: all arrays must have the same length, array %d has %d, expected %d",
				ErrShape, i+1, a.Len(), n)
		}
	}
	if len(timeline) != n {
		return nil, fmt.Errorf("%w: timeline has length %d, arrays have length %d",
			ErrShape, len(timeline), n)
	}

	p, err := window.ResolvePeriod(timeline, opts.Start, opts.End)
	if err != nil {
		return nil, err
	}
	folds, err := s.SplitsFromPeriod(p.Start, p.End)
	if err != nil {
		return nil, err
	}

	return &Iterator{
		folds:      folds,
		timeline:   timeline,
		arrays:     arrays,
		returnFold: opts.ReturnFold,
	}, nil
}

// Iterator yields one Result per fold.
type Iterator struct {
	folds      *window.Folds
	timeline   []time.Time
	arrays     []Array
	returnFold bool
}

// Next slices every array for the next fold, or returns false when done.
func (it *Iterator) Next() (Result, bool) {
	fold, ok := it.folds.Next()
	if !ok {
		return Result{}, false
	}
	train := Between(it.timeline, fold.TrainStart, fold.TrainEnd)
	forecast := Between(it.timeline, fold.ForecastStart, fold.ForecastEnd)

	r := Result{Slices: make([]Array, 0, 2*len(it.arrays))}
	for _, a := range it.arrays {
		r.Slices = append(r.Slices, a.Mask(train), a.Mask(forecast))
	}
	if it.returnFold {
		r.Fold = &fold
	}
	return r, true
}

// All adapts the iterator to a range-over-func sequence.
func (it *Iterator) All() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for {
			r, ok := it.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}
