package window

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Engine generates folds for a validated Config. It is immutable after New
// and safe for concurrent use; each call to SplitsFromPeriod returns an
// independent cursor.
type Engine struct {
	cfg Config
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for Debug diagnostics. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New validates cfg and returns an Engine for it.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg.resolved(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug("window engine configured",
		zap.Stringer("frequency", e.cfg.Frequency),
		zap.Int("train_size", e.cfg.TrainSize),
		zap.Int("forecast_horizon", e.cfg.ForecastHorizon),
		zap.Int("gap", e.cfg.Gap),
		zap.Int("stride", e.cfg.Stride),
		zap.Stringer("window", e.cfg.Window),
	)
	return e, nil
}

// Config returns the resolved configuration, with Stride filled in.
func (e *Engine) Config() Config { return e.cfg }

// Logger returns the engine's logger, never nil.
func (e *Engine) Logger() *zap.Logger { return e.log }

// String lists each resolved field on its own line.
func (e *Engine) String() string {
	var b strings.Builder
	b.WriteString("Engine(")
	fmt.Fprintf(&b, "\n    frequency = %s", e.cfg.Frequency)
	fmt.Fprintf(&b, "\n    train_size = %d", e.cfg.TrainSize)
	fmt.Fprintf(&b, "\n    forecast_horizon = %d", e.cfg.ForecastHorizon)
	fmt.Fprintf(&b, "\n    gap = %d", e.cfg.Gap)
	fmt.Fprintf(&b, "\n    stride = %d", e.cfg.Stride)
	fmt.Fprintf(&b, "\n    window = %s", e.cfg.Window)
	b.WriteString("\n)")
	return b.String()
}

// TrainDelta returns TrainSize frequency units.
func (e *Engine) TrainDelta() time.Duration {
	return time.Duration(e.cfg.TrainSize) * e.cfg.Frequency.Unit()
}

// ForecastDelta returns ForecastHorizon frequency units.
func (e *Engine) ForecastDelta() time.Duration {
	return time.Duration(e.cfg.ForecastHorizon) * e.cfg.Frequency.Unit()
}

// GapDelta returns Gap frequency units.
func (e *Engine) GapDelta() time.Duration {
	return time.Duration(e.cfg.Gap) * e.cfg.Frequency.Unit()
}

// StrideDelta returns Stride frequency units (ForecastHorizon when unset).
func (e *Engine) StrideDelta() time.Duration {
	return time.Duration(e.cfg.Stride) * e.cfg.Frequency.Unit()
}

// SplitsFromPeriod returns a cursor over the folds covering [start, end].
//
// A fold is yielded while its ForecastEnd is not after end. Returns
// ErrTimeOrder unless start is strictly before end.
func (e *Engine) SplitsFromPeriod(start, end time.Time) (*Folds, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Folds{
		period:   p,
		cursor:   start,
		train:    e.TrainDelta(),
		gap:      e.GapDelta(),
		forecast: e.ForecastDelta(),
		stride:   e.StrideDelta(),
		mode:     e.cfg.Window,
		log:      e.log,
	}, nil
}

// NSplitsOf returns how many folds SplitsFromPeriod would yield, without
// generating them.
//
// Bounds are resolved with ResolvePeriod: zero start or end fall back to the
// timeline extrema.
func (e *Engine) NSplitsOf(timeline []time.Time, start, end time.Time) (int, error) {
	p, err := ResolvePeriod(timeline, start, end)
	if err != nil {
		return 0, err
	}
	return e.NSplitsOfPeriod(p), nil
}

// NSplitsOfPeriod is the closed form behind NSplitsOf for an already
// validated period:
//
//	floor((span - train - gap - forecast) / stride) + 1, clamped at 0
func (e *Engine) NSplitsOfPeriod(p Period) int {
	rem := p.Span() - e.TrainDelta() - e.GapDelta() - e.ForecastDelta()
	if rem < 0 {
		return 0
	}
	return int(rem/e.StrideDelta()) + 1
}

// Folds is a forward-only cursor over the folds of one period.
type Folds struct {
	period   Period
	cursor   time.Time
	train    time.Duration
	gap      time.Duration
	forecast time.Duration
	stride   time.Duration
	mode     Mode
	done     bool
	log      *zap.Logger
}

// Period returns the span the cursor walks.
func (it *Folds) Period() Period { return it.period }

// Next returns the next fold, or false once the sequence is exhausted.
func (it *Folds) Next() (Fold, bool) {
	if it.done {
		return Fold{}, false
	}
	trainStart := it.cursor
	if it.mode == Expanding {
		trainStart = it.period.Start
	}
	trainEnd := it.cursor.Add(it.train)
	forecastStart := trainEnd.Add(it.gap)
	forecastEnd := forecastStart.Add(it.forecast)
	if forecastEnd.After(it.period.End) {
		it.done = true
		return Fold{}, false
	}
	it.cursor = it.cursor.Add(it.stride)

	f := Fold{
		TrainStart:    trainStart,
		TrainEnd:      trainEnd,
		ForecastStart: forecastStart,
		ForecastEnd:   forecastEnd,
	}
	if ce := it.log.Check(zapcore.DebugLevel, "fold"); ce != nil {
		ce.Write(
			zap.Time("train_start", f.TrainStart),
			zap.Time("train_end", f.TrainEnd),
			zap.Time("forecast_start", f.ForecastStart),
			zap.Time("forecast_end", f.ForecastEnd),
		)
	}
	return f, true
}

// All adapts the cursor to a range-over-func sequence. It consumes the
// cursor; build a new one with SplitsFromPeriod to start over.
func (it *Folds) All() iter.Seq[Fold] {
	return func(yield func(Fold) bool) {
		for {
			f, ok := it.Next()
			if !ok || !yield(f) {
				return
			}
		}
	}
}
