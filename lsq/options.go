package lsq

import (
	"fmt"
	"time"

	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/utils"
)

// Options carries every tunable of a fit, nothing is read from package state.
type Options struct {
	// history used by the regression, counted back from the end of the series
	LookbackDays int
	// forecast span past now, zero means the same as LookbackDays
	HorizonDays int
	// band confidence in (0, 1), used when Multiplier is zero
	Confidence float64
	// fixed band multiplier k, overrides Confidence when positive
	Multiplier float64
	// reference time for the forecast, zero means time.Now()
	Now time.Time
}

func DefaultOptions() Options {
	return Options{
		LookbackDays: DefaultLookbackDays,
		Confidence:   DefaultConfidence,
	}
}

func (o Options) Validate() error {
	if o.LookbackDays <= 0 {
		return fmt.Errorf("%w: lookback days %v", common.ErrorInvalidInterval, o.LookbackDays)
	}
	if o.HorizonDays < 0 {
		return fmt.Errorf("%w: horizon days %v", common.ErrorInvalidInterval, o.HorizonDays)
	}
	if o.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier %v", common.ErrorInvalidValue, o.Multiplier)
	}
	if o.Multiplier == 0 && (o.Confidence <= 0 || o.Confidence >= 1) {
		return fmt.Errorf("%w: confidence %v", common.ErrorInvalidValue, o.Confidence)
	}
	return nil
}

func (o Options) lookbackSeconds() int64 {
	return utils.DaysToSeconds(o.LookbackDays)
}

func (o Options) horizonSeconds() int64 {
	if o.HorizonDays == 0 {
		return utils.DaysToSeconds(o.LookbackDays)
	}
	return utils.DaysToSeconds(o.HorizonDays)
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
