package cv

import (
	"fmt"
	"iter"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/timesplit/split"
	"github.com/sartorproj/timesplit/window"
)

// ErrShape is returned by ValidateSplitArgs; it matches split.ErrShape.
var ErrShape = split.ErrShape

// Splitter is what a model-selection driver needs from a cross-validator:
// the number of folds up front and, per fold, train and test row indices.
type Splitter interface {
	NSplits() int
	Split(X, y, groups split.Array) (iter.Seq2[[]int, []int], error)
}

// TimeBasedSplitter yields index pairs for the folds of a fixed timeline.
//
// The timeline, period, size and fold count are resolved once by New.
type TimeBasedSplitter struct {
	engine   *window.Engine
	timeline []time.Time
	period   window.Period
	size     int
	nSplits  int
}

var _ Splitter = (*TimeBasedSplitter)(nil)

// New validates cfg, resolves the period from start/end (zero values fall
// back to the timeline extrema) and counts the folds.
func New(cfg window.Config, timeline []time.Time, start, end time.Time, opts ...window.Option) (*TimeBasedSplitter, error) {
	eng, err := window.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	p, err := window.ResolvePeriod(timeline, start, end)
	if err != nil {
		return nil, err
	}
	s := &TimeBasedSplitter{
		engine:   eng,
		timeline: timeline,
		period:   p,
		size:     len(timeline),
		nSplits:  eng.NSplitsOfPeriod(p),
	}
	eng.Logger().Debug("time based splitter ready",
		zap.Time("start", p.Start), zap.Time("end", p.End),
		zap.Int("size", s.size), zap.Int("n_splits", s.nSplits))
	return s, nil
}

// Engine returns the underlying window engine.
func (s *TimeBasedSplitter) Engine() *window.Engine { return s.engine }

// Timeline returns the timeline the splitter was built with.
func (s *TimeBasedSplitter) Timeline() []time.Time { return s.timeline }

// Start returns the resolved period start.
func (s *TimeBasedSplitter) Start() time.Time { return s.period.Start }

// End returns the resolved period end.
func (s *TimeBasedSplitter) End() time.Time { return s.period.End }

// Size returns the timeline length.
func (s *TimeBasedSplitter) Size() int { return s.size }

// NSplits returns the fold count computed by New.
func (s *TimeBasedSplitter) NSplits() int { return s.nSplits }

// Split checks that every non-nil array has Size() rows and returns a
// sequence of (train, test) index pairs over the stored timeline.
//
// The array contents are not read; only their lengths are checked.
func (s *TimeBasedSplitter) Split(X, y, groups split.Array) (iter.Seq2[[]int, []int], error) {
	if err := ValidateSplitArgs(s.size, X, y, groups); err != nil {
		return nil, err
	}
	return func(yield func([]int, []int) bool) {
		folds, err := s.engine.SplitsFromPeriod(s.period.Start, s.period.End)
		if err != nil {
			// period was validated in New
			return
		}
		for fold := range folds.All() {
			train := split.Indices(split.Between(s.timeline, fold.TrainStart, fold.TrainEnd))
			test := split.Indices(split.Between(s.timeline, fold.ForecastStart, fold.ForecastEnd))
			if !yield(train, test) {
				return
			}
		}
	}, nil
}

// ValidateSplitArgs returns ErrShape for the first non-nil array whose
// leading length differs from size. Nil interfaces and nil pointers are
// treated as absent.
func ValidateSplitArgs(size int, X, y, groups split.Array) error {
	for _, a := range []split.Array{X, y, groups} {
		if absent(a) {
			continue
		}
		if a.Len() != size {
			return fmt.Errorf("%w: expected size %d, got shape %v", ErrShape, size, split.ShapeOf(a))
		}
	}
	return nil
}

func absent(a split.Array) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
