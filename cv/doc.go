// Package cv exposes time-based folds in the shape model-selection drivers
// consume: a fold count known up front and (train, test) row-index pairs.
//
// A driver depends only on the Splitter interface:
//
//	s, err := cv.New(cfg, dates, time.Time{}, time.Time{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	folds, err := s.Split(split.Matrix(X), split.Slice[float64](y), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for train, test := range folds {
//	    // fit on rows train, score on rows test
//	}
package cv
