// Package split applies window folds to arrays aligned with a timeline.
//
// Any type with a leading length and boolean-mask selection satisfies Array.
// Slice adapts plain Go slices and Matrix adapts row-major float data; the
// timeseries package's Series implements Array as well.
//
// # Splitting Arrays
//
//	sp, err := split.New(window.Config{
//	    Frequency:       window.Days,
//	    TrainSize:       7,
//	    ForecastHorizon: 3,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	it, err := sp.Split(dates, nil, split.Matrix(X), split.Slice[float64](y))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for r := range it.All() {
//	    xTrain, xTest := r.Train(0), r.Forecast(0)
//	    yTrain, yTest := r.Train(1), r.Forecast(1)
//	    // ...
//	}
//
// Train rows are those with TrainStart <= t < TrainEnd, forecast rows those
// with ForecastStart <= t < ForecastEnd.
package split
