// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for a single timestamped column and
// the Frame type for several columns sharing one timeline. Series implements
// split.Array, so it can be passed to the split package directly.
//
// # Creating a Series
//
//	dates := timeseries.DateRange(start, end, 24*time.Hour)
//	series, err := timeseries.New(dates, values)
//
// # Loading from CSV
//
// Load every value column of a CSV file:
//
//	frame, err := timeseries.LoadCSV("data.csv", nil)
//
//	y, err := frame.Series("y")
//	X, err := frame.Matrix("a", "b")
//
// Load with filtering:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.IDColumn = "unique_id"
//	opts.IDFilter = "Australia"
//	opts.Columns = []string{"y"}
//	frame, err := timeseries.LoadCSV("data.csv", opts)
//
// # Splitting
//
//	it, err := splitter.Split(frame.Timestamps, nil, X, y)
//	for r := range it.All() {
//	    train := r.Train(1).(*timeseries.Series)
//	    fmt.Println(train.Mean())
//	}
package timeseries
