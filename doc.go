// Package timesplit provides time-based train/forecast splitting for
// walk-forward validation of models on sequential data.
//
// Given a timeline, a training window length, a forecast horizon, an optional
// gap and a stride, timesplit produces the successive (train, forecast) time
// ranges and selects the matching rows of any number of aligned arrays.
//
// # Features
//
//   - Rolling and expanding training windows
//   - Gap between training and forecast windows
//   - Configurable stride, defaulting to the forecast horizon
//   - Closed-form fold counts
//   - Lazy, pull-based fold iteration with early termination
//   - Index-pair adapter for model-selection drivers
//
// # Quick Start
//
// Split a feature matrix and a target:
//
//	sp, _ := split.New(window.Config{
//	    Frequency:       window.Days,
//	    TrainSize:       30,
//	    ForecastHorizon: 7,
//	    Window:          window.Expanding,
//	})
//	it, _ := sp.Split(dates, nil, X, y)
//	for r := range it.All() {
//	    // r.Train(0), r.Forecast(0), r.Train(1), r.Forecast(1)
//	}
//
// Drive a model search with row indices:
//
//	s, _ := cv.New(cfg, dates, time.Time{}, time.Time{})
//	folds, _ := s.Split(X, y, nil)
//	for train, test := range folds {
//	    // ...
//	}
//
// # Packages
//
// The library is organized into the following packages:
//
//   - window: fold boundary generation and counting
//   - split: slicing timeline-aligned arrays per fold
//   - cv: (train, test) index pairs for model-selection drivers
//   - timeseries: Series and Frame types, CSV loading
//   - config: split configuration from YAML and environment variables
package timesplit
