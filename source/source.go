// Package source fetches the historical series a fit runs over.
package source

import (
	"context"
	"time"

	"github.com/uyouii/timeseries-trend/model"
)

// DefaultStep is used when a response has a single datapoint and no step can be inferred.
const DefaultStep = 60

// Fetcher returns one aligned series per path matched by target.
type Fetcher interface {
	Fetch(ctx context.Context, target string, from, until time.Time) ([]*model.Series, error)
}

// Bootstrap widens [from, until) back by lookbackDays so the fit sees the whole window.
func Bootstrap(ctx context.Context, fetcher Fetcher, target string, until time.Time,
	lookbackDays int) ([]*model.Series, error) {
	from := until.AddDate(0, 0, -lookbackDays)
	return fetcher.Fetch(ctx, target, from, until)
}

// crop keeps the slots of s inside [from, until), still on the original step grid.
func crop(s *model.Series, from, until int64) *model.Series {
	start, end := s.Start, s.End
	if from > start {
		start += (from - start + s.Step - 1) / s.Step * s.Step
	}
	if until < end {
		end = until
	}
	if end < start {
		end = start
	}
	return model.SeriesFromSamples(s.Name, start, end, s.Step, s.Samples())
}
