package window

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	periodStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
)

func validConfig() Config {
	return Config{
		Frequency:       Days,
		TrainSize:       7,
		ForecastHorizon: 3,
		Gap:             0,
		Stride:          2,
		Window:          Rolling,
	}
}

func dailyTimeline(start, end time.Time) []time.Time {
	var ts []time.Time
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		ts = append(ts, t)
	}
	return ts
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"hours", func(c *Config) { c.Frequency = Hours }, nil},
		{"frequency out of range", func(c *Config) { c.Frequency = Frequency(123) }, ErrFrequency},
		{"negative frequency", func(c *Config) { c.Frequency = Frequency(-1) }, ErrFrequency},
		{"train size", func(c *Config) { c.TrainSize = -123 }, ErrLowerBound},
		{"zero train size", func(c *Config) { c.TrainSize = 0 }, ErrLowerBound},
		{"forecast horizon", func(c *Config) { c.ForecastHorizon = -123 }, ErrLowerBound},
		{"gap zero", func(c *Config) { c.Gap = 0 }, nil},
		{"gap seven", func(c *Config) { c.Gap = 7 }, nil},
		{"gap negative", func(c *Config) { c.Gap = -123 }, ErrLowerBound},
		{"stride unset", func(c *Config) { c.Stride = 0 }, nil},
		{"stride seven", func(c *Config) { c.Stride = 7 }, nil},
		{"stride negative", func(c *Config) { c.Stride = -1 }, ErrLowerBound},
		{"expanding", func(c *Config) { c.Window = Expanding }, nil},
		{"window out of range", func(c *Config) { c.Window = Mode(123) }, ErrWindow},
		{"frequency checked first", func(c *Config) {
			c.Frequency = Frequency(99)
			c.TrainSize = -1
			c.Window = Mode(7)
		}, ErrFrequency},
		{"bounds checked before window", func(c *Config) {
			c.Gap = -1
			c.Window = Mode(7)
		}, ErrLowerBound},
		{"weeks train size overflows", func(c *Config) {
			c.Frequency = Weeks
			c.TrainSize = 20000
		}, ErrOverflow},
		{"days train size huge", func(c *Config) { c.TrainSize = 1 << 40 }, ErrOverflow},
		{"stride overflows", func(c *Config) {
			c.Frequency = Hours
			c.Stride = 1 << 42
		}, ErrOverflow},
		{"sum overflows", func(c *Config) {
			c.Frequency = Weeks
			c.TrainSize = 10000
			c.Gap = 5000
			c.ForecastHorizon = 1000
		}, ErrOverflow},
		{"weeks within range", func(c *Config) {
			c.Frequency = Weeks
			c.TrainSize = 10000
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			eng, err := New(cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, eng)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, eng)
		})
	}
}

func TestLargeSizesKeepFoldOrder(t *testing.T) {
	eng, err := New(Config{Frequency: Weeks, TrainSize: 15000, ForecastHorizon: 1})
	require.NoError(t, err)
	require.True(t, eng.TrainDelta() > 0)

	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	folds, err := eng.SplitsFromPeriod(start, start.AddDate(0, 0, 7*15002))
	require.NoError(t, err)
	f, ok := folds.Next()
	require.True(t, ok)
	assert.True(t, f.TrainStart.Before(f.TrainEnd))
	assert.True(t, f.TrainEnd.Before(f.ForecastEnd))
}

func TestLowerBoundMessage(t *testing.T) {
	cfg := validConfig()
	cfg.TrainSize = -123
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be greater or equal than (1, 1, 0, 1)")
}

func TestParseFrequency(t *testing.T) {
	for _, name := range []string{"days", "seconds", "microseconds", "milliseconds", "minutes", "hours", "weeks"} {
		f, err := ParseFrequency(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.String())
	}

	_, err := ParseFrequency("test")
	require.ErrorIs(t, err, ErrFrequency)
	assert.Contains(t, err.Error(), "('days', 'seconds', 'microseconds', 'milliseconds', 'minutes', 'hours', 'weeks')")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("rolling")
	require.NoError(t, err)
	assert.Equal(t, Rolling, m)

	m, err = ParseMode("expanding")
	require.NoError(t, err)
	assert.Equal(t, Expanding, m)

	_, err = ParseMode("test")
	require.ErrorIs(t, err, ErrWindow)
	assert.Contains(t, err.Error(), "('rolling', 'expanding')")
}

func TestString(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	want := "Engine(" +
		"\n    frequency = days" +
		"\n    train_size = 7" +
		"\n    forecast_horizon = 3" +
		"\n    gap = 0" +
		"\n    stride = 2" +
		"\n    window = rolling" +
		"\n)"
	assert.Equal(t, want, eng.String())
}

func TestDeltas(t *testing.T) {
	tests := []struct {
		freq       Frequency
		unit       time.Duration
		train      int
		forecast   int
		gap        int
		stride     int
		wantStride int
	}{
		{Days, 24 * time.Hour, 7, 7, 1, 0, 7},
		{Hours, time.Hour, 48, 24, 0, 2, 2},
		{Weeks, 7 * 24 * time.Hour, 4, 1, 1, 1, 1},
		{Milliseconds, time.Millisecond, 10, 5, 2, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.freq.String(), func(t *testing.T) {
			eng, err := New(Config{
				Frequency:       tt.freq,
				TrainSize:       tt.train,
				ForecastHorizon: tt.forecast,
				Gap:             tt.gap,
				Stride:          tt.stride,
			})
			require.NoError(t, err)

			assert.Equal(t, time.Duration(tt.train)*tt.unit, eng.TrainDelta())
			assert.Equal(t, time.Duration(tt.forecast)*tt.unit, eng.ForecastDelta())
			assert.Equal(t, time.Duration(tt.gap)*tt.unit, eng.GapDelta())
			assert.Equal(t, time.Duration(tt.wantStride)*tt.unit, eng.StrideDelta())
			assert.Equal(t, tt.wantStride, eng.Config().Stride)
		})
	}
}

func TestSplitsFromPeriod(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		start time.Time
		end   time.Time
	}{
		{"rolling", Rolling, periodStart, periodEnd},
		{"expanding", Expanding, periodStart, periodEnd},
		{"rolling short", Rolling, periodStart, periodStart.AddDate(0, 0, 12)},
		{"rolling too short", Rolling, periodStart, periodStart.AddDate(0, 0, 5)},
		{"expanding exact", Expanding, periodStart, periodStart.AddDate(0, 0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Window = tt.mode
			eng, err := New(cfg)
			require.NoError(t, err)

			folds, err := eng.SplitsFromPeriod(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, Period{Start: tt.start, End: tt.end}, folds.Period())

			n := 0
			current := tt.start
			for fold := range folds.All() {
				trainStart := current
				if tt.mode == Expanding {
					trainStart = tt.start
				}
				trainEnd := current.Add(eng.TrainDelta())
				forecastStart := trainEnd.Add(eng.GapDelta())
				forecastEnd := forecastStart.Add(eng.ForecastDelta())

				assert.Equal(t, trainStart, fold.TrainStart)
				assert.Equal(t, trainEnd, fold.TrainEnd)
				assert.Equal(t, forecastStart, fold.ForecastStart)
				assert.Equal(t, forecastEnd, fold.ForecastEnd)
				assert.False(t, fold.ForecastEnd.After(tt.end))

				current = current.Add(eng.StrideDelta())
				n++
			}

			want, err := eng.NSplitsOf(nil, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, want, n)
		})
	}
}

func TestSplitsFromPeriodTimeOrder(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	_, err = eng.SplitsFromPeriod(periodStart, periodStart)
	require.ErrorIs(t, err, ErrTimeOrder)

	_, err = eng.SplitsFromPeriod(periodStart, periodStart.Add(-time.Nanosecond))
	require.ErrorIs(t, err, ErrTimeOrder)
}

func TestFirstFolds(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	folds, err := eng.SplitsFromPeriod(periodStart, periodEnd)
	require.NoError(t, err)

	first, ok := folds.Next()
	require.True(t, ok)
	assert.Equal(t, periodStart, first.TrainStart)
	assert.Equal(t, time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), first.TrainEnd)
	assert.Equal(t, time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), first.ForecastStart)
	assert.Equal(t, time.Date(2023, 1, 11, 0, 0, 0, 0, time.UTC), first.ForecastEnd)

	second, ok := folds.Next()
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), second.TrainStart)
}

func TestFoldInvariants(t *testing.T) {
	for _, mode := range []Mode{Rolling, Expanding} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := validConfig()
			cfg.Gap = 2
			cfg.Window = mode
			eng, err := New(cfg)
			require.NoError(t, err)

			folds, err := eng.SplitsFromPeriod(periodStart, periodEnd)
			require.NoError(t, err)

			var prevSpan time.Duration
			for fold := range folds.All() {
				assert.Equal(t, eng.GapDelta(), fold.ForecastStart.Sub(fold.TrainEnd))
				assert.Equal(t, eng.ForecastDelta(), fold.ForecastEnd.Sub(fold.ForecastStart))
				span := fold.TrainEnd.Sub(fold.TrainStart)
				if mode == Rolling {
					assert.Equal(t, eng.TrainDelta(), span)
				} else {
					assert.Equal(t, periodStart, fold.TrainStart)
					assert.Greater(t, span, prevSpan)
				}
				prevSpan = span
			}
		})
	}
}

func TestFoldsExhausted(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	folds, err := eng.SplitsFromPeriod(periodStart, periodStart.AddDate(0, 0, 10))
	require.NoError(t, err)

	_, ok := folds.Next()
	require.True(t, ok)
	_, ok = folds.Next()
	assert.False(t, ok)
	_, ok = folds.Next()
	assert.False(t, ok)
}

func TestFoldsEarlyStop(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	folds, err := eng.SplitsFromPeriod(periodStart, periodEnd)
	require.NoError(t, err)

	n := 0
	for range folds.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)

	// The cursor resumes where the loop stopped.
	next, ok := folds.Next()
	require.True(t, ok)
	assert.Equal(t, periodStart.AddDate(0, 0, 6), next.TrainStart)
}

func TestNSplitsOf(t *testing.T) {
	timeline := dailyTimeline(periodStart, periodEnd)
	jan1 := periodStart
	jan31 := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timeline []time.Time
		start    time.Time
		end      time.Time
		want     int
		wantErr  error
	}{
		// (89 - 7 - 0 - 3) / 2 + 1
		{"timeline", timeline, time.Time{}, time.Time{}, 40, nil},
		// (30 - 10) / 2 + 1
		{"explicit pair", nil, jan1, jan31, 11, nil},
		{"explicit pair wins", timeline, jan1, jan31, 11, nil},
		{"start only", nil, jan1, time.Time{}, 0, ErrNoBounds},
		{"end only", nil, time.Time{}, jan31, 0, ErrNoBounds},
		{"nothing", nil, time.Time{}, time.Time{}, 0, ErrNoBounds},
		{"reversed", nil, jan31, jan1, 0, ErrTimeOrder},
		{"too short", nil, jan1, jan1.AddDate(0, 0, 9), 0, nil},
	}

	eng, err := New(validConfig())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := eng.NSplitsOf(tt.timeline, tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNSplitsOfMatchesGenerator(t *testing.T) {
	configs := []Config{
		{Frequency: Days, TrainSize: 7, ForecastHorizon: 3, Gap: 0, Stride: 2},
		{Frequency: Days, TrainSize: 7, ForecastHorizon: 7, Gap: 1},
		{Frequency: Hours, TrainSize: 48, ForecastHorizon: 24, Stride: 5, Window: Expanding},
		{Frequency: Weeks, TrainSize: 4, ForecastHorizon: 1, Gap: 1, Stride: 1},
		{Frequency: Days, TrainSize: 30, ForecastHorizon: 30, Gap: 30, Stride: 1},
	}
	ends := []time.Time{
		periodStart.Add(time.Hour),
		periodStart.AddDate(0, 0, 10),
		periodStart.AddDate(0, 0, 11).Add(-time.Second),
		periodEnd,
		periodStart.AddDate(1, 0, 0),
	}

	for _, cfg := range configs {
		eng, err := New(cfg)
		require.NoError(t, err)
		for _, end := range ends {
			folds, err := eng.SplitsFromPeriod(periodStart, end)
			require.NoError(t, err)
			n := 0
			for range folds.All() {
				n++
			}
			want, err := eng.NSplitsOf(nil, periodStart, end)
			require.NoError(t, err)
			assert.Equal(t, want, n, "config %+v end %s", cfg, end)
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	timeline := []time.Time{
		periodStart.AddDate(0, 0, 3),
		periodStart,
		periodStart.AddDate(0, 0, 9),
	}

	p, err := ResolvePeriod(timeline, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, periodStart, p.Start)
	assert.Equal(t, periodStart.AddDate(0, 0, 9), p.End)

	p, err = ResolvePeriod(timeline, periodStart.AddDate(0, 0, 1), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, periodStart.AddDate(0, 0, 1), p.Start)
	assert.Equal(t, periodStart.AddDate(0, 0, 9), p.End)

	_, err = ResolvePeriod(timeline[:1], time.Time{}, time.Time{})
	assert.True(t, errors.Is(err, ErrTimeOrder))
}

func TestEngineLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	eng, err := New(validConfig(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("window engine configured").Len())

	folds, err := eng.SplitsFromPeriod(periodStart, periodStart.AddDate(0, 0, 12))
	require.NoError(t, err)
	for range folds.All() {
	}
	assert.Equal(t, 2, logs.FilterMessage("fold").Len())
}

func TestConcurrentCursors(t *testing.T) {
	eng, err := New(validConfig())
	require.NoError(t, err)

	a, err := eng.SplitsFromPeriod(periodStart, periodEnd)
	require.NoError(t, err)
	b, err := eng.SplitsFromPeriod(periodStart, periodEnd)
	require.NoError(t, err)

	fa, _ := a.Next()
	fa2, _ := a.Next()
	fb, _ := b.Next()
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fa2)
}
