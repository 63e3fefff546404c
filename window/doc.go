// Package window generates time-ordered train/forecast window pairs (folds)
// for walk-forward validation.
//
// An Engine is built from a Config of five parameters: a Frequency unit, the
// training size, the forecast horizon, an optional gap between the two
// windows, and the stride by which successive folds advance. Sizes are counts
// of the frequency unit.
//
// # Basic Usage
//
//	eng, err := window.New(window.Config{
//	    Frequency:       window.Days,
//	    TrainSize:       7,
//	    ForecastHorizon: 3,
//	    Stride:          2,
//	    Window:          window.Rolling,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	folds, _ := eng.SplitsFromPeriod(start, end)
//	for fold := range folds.All() {
//	    fmt.Println(fold)
//	}
//
// # Window Modes
//
// In Rolling mode the training window keeps its width and slides forward by
// the stride. In Expanding mode the training window stays anchored at the
// period start and its end moves forward, so it grows by one stride per fold.
//
// # Counting Folds
//
// NSplitsOf returns the number of folds in closed form:
//
//	n, err := eng.NSplitsOf(timeline, time.Time{}, time.Time{})
//
// Zero start/end values fall back to the timeline's minimum and maximum.
package window
