package lsq

import (
	"math"

	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/model"
)

// Bounds is an inclusive unix seconds range.
type Bounds struct {
	Min int64
	Max int64
}

// solve returns the time where the line equals threshold.
func solve(m model.LinearModel, threshold float64) (float64, error) {
	if math.Abs(m.Slope) <= FlatSlopeEpsilon {
		return 0, common.ErrorDegenerateModel
	}
	t := float64(m.Origin) + (threshold-m.Intercept)/m.Slope
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, common.ErrorDegenerateModel
	}
	return t, nil
}

// ClassifyCrossing solves for the crossing and tells why it is absent when it is.
// The timestamp is truncated to whole seconds.
func ClassifyCrossing(m model.LinearModel, threshold float64, bounds Bounds) model.Crossing {
	t, err := solve(m, threshold)
	if err != nil {
		return model.Crossing{Status: model.CrossingNever}
	}

	switch {
	case t < float64(bounds.Min):
		return model.Crossing{Status: model.CrossingAlreadyPassed}
	case t > float64(bounds.Max):
		return model.Crossing{Status: model.CrossingBeyondHorizon}
	}

	ts := int64(t)
	return model.Crossing{Timestamp: &ts, Status: model.CrossingFound}
}

// FindCrossing returns the crossing time inside bounds, ok is false for a flat
// line or a crossing outside bounds. It never fails.
func FindCrossing(m model.LinearModel, threshold float64, bounds Bounds) (int64, bool) {
	crossing := ClassifyCrossing(m, threshold, bounds)
	if crossing.Timestamp == nil {
		return 0, false
	}
	return *crossing.Timestamp, true
}
