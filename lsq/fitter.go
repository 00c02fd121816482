package lsq

import (
	"fmt"

	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/model"
)

// Fit regresses the non null samples of the lookback window and builds the band.
// Gaps are skipped, they do not split the window.
func Fit(series *model.Series, opts Options) (*model.Band, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if series.IsEmpty() || series.Step <= 0 {
		return nil, fmt.Errorf("%w: empty series", common.ErrorInsufficientData)
	}

	samples := windowSamples(series, opts)
	if len(samples) < MinFitPointCnt {
		return nil, fmt.Errorf("%w: %v usable samples in %v", common.ErrorInsufficientData,
			len(samples), series.Name)
	}

	// x is seconds from the first usable sample
	origin := samples[0].Timestamp
	xs, ys := make([]float64, len(samples)), make([]float64, len(samples))
	for i, sample := range samples {
		xs[i] = float64(sample.Timestamp - origin)
		ys[i] = *sample.Value
	}

	line, err := NewFittedLine(xs, ys)
	if err != nil {
		return nil, err
	}

	multiplier := opts.Multiplier
	if multiplier == 0 {
		multiplier = line.TQuantile(opts.Confidence)
	}

	trend := model.LinearModel{
		Slope:     line.Slope,
		Intercept: line.Intercept,
		Origin:    origin,
	}
	margin := multiplier * line.Sigma

	return &model.Band{
		Lower:      trend.Shift(-margin),
		Trend:      trend,
		Upper:      trend.Shift(margin),
		Dispersion: line.Sigma,
		Multiplier: multiplier,
		RSquared:   line.RSquared,
		Count:      line.N,
	}, nil
}

// valid samples no older than LookbackDays before the end of the series
func windowSamples(series *model.Series, opts Options) []model.Sample {
	cutoff := series.End - opts.lookbackSeconds()

	res := []model.Sample{}
	for _, sample := range series.Samples() {
		if sample.Timestamp < cutoff || !sample.Valid() {
			continue
		}
		res = append(res, sample)
	}
	return res
}

// ForecastEnd is the exclusive end of the projected series: the later of the
// series end and now, plus the horizon.
func ForecastEnd(series *model.Series, opts Options) int64 {
	end := max(series.End, opts.now().Unix())
	return end + opts.horizonSeconds()
}

// Extend evaluates the band on every slot from the series start to ForecastEnd.
// Historical slots that were null stay null.
func Extend(series *model.Series, band *model.Band, opts Options) *model.BandSeries {
	end := ForecastEnd(series, opts)

	project := func(name string, line model.LinearModel) *model.Series {
		res := model.NewSeries(name, series.Start, end, series.Step, nil)
		res.Values = make([]*float64, res.Len())
		for i := range res.Values {
			if i < series.Len() && !series.At(i).Valid() {
				continue
			}
			res.Values[i] = model.Float(line.At(res.Timestamp(i)))
		}
		return res
	}

	return &model.BandSeries{
		Lower: project(series.Name+LowerSuffix, band.Lower),
		Trend: project(series.Name, band.Trend),
		Upper: project(series.Name+UpperSuffix, band.Upper),
	}
}
