package lsq

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/model"
)

const (
	testStart = int64(1_600_000_000)
	hour      = int64(3600)
	day       = int64(86400)
)

func buildSeries(n int, step int64, f func(i int) *float64) *model.Series {
	values := make([]*float64, n)
	for i := range values {
		values[i] = f(i)
	}
	return model.NewSeries("servers.web01.disk.used", testStart, testStart+int64(n)*step, step, values)
}

func fixedOptions(series *model.Series) Options {
	opts := DefaultOptions()
	opts.Now = time.Unix(series.End, 0)
	return opts
}

func TestFitRecoversExactLine(t *testing.T) {
	series := buildSeries(100, hour, func(i int) *float64 {
		return model.Float(0.5*float64(i) + 10)
	})

	band, err := Fit(series, fixedOptions(series))
	require.NoError(t, err)

	assert.Equal(t, 100, band.Count)
	assert.Equal(t, testStart, band.Trend.Origin)
	assert.InDelta(t, 0.5/float64(hour), band.Trend.Slope, 1e-12)
	assert.InDelta(t, 10, band.Trend.Intercept, 1e-9)
	assert.InDelta(t, 0, band.Dispersion, 1e-9)
	assert.InDelta(t, 1, band.RSquared, 1e-12)

	for _, ts := range []int64{testStart, testStart + 50*hour, testStart + 1000*hour} {
		assert.InDelta(t, band.Trend.At(ts), band.Lower.At(ts), 1e-6)
		assert.InDelta(t, band.Trend.At(ts), band.Upper.At(ts), 1e-6)
	}
}

func TestFitNoisySlopeSign(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	series := buildSeries(200, hour, func(i int) *float64 {
		return model.Float(500 - 0.1*float64(i) + (r.Float64()*2 - 1))
	})

	band, err := Fit(series, fixedOptions(series))
	require.NoError(t, err)

	assert.Less(t, band.Trend.Slope, 0.0)
	assert.Greater(t, band.Dispersion, 0.0)
	assert.Greater(t, band.Multiplier, 1.9)
	assert.Less(t, band.Lower.Intercept, band.Trend.Intercept)
	assert.Greater(t, band.Upper.Intercept, band.Trend.Intercept)
	assert.InDelta(t, band.Margin(), band.Upper.Intercept-band.Trend.Intercept, 1e-9)
}

func TestFitFixedMultiplier(t *testing.T) {
	ys := []float64{0, 2, 2, 4}
	series := buildSeries(len(ys), 1, func(i int) *float64 { return model.Float(ys[i]) })

	opts := fixedOptions(series)
	opts.Multiplier = 2
	band, err := Fit(series, opts)
	require.NoError(t, err)

	assert.Equal(t, 2.0, band.Multiplier)
	assert.InDelta(t, math.Sqrt(0.4), band.Dispersion, 1e-12)
	assert.InDelta(t, 0.2-2*math.Sqrt(0.4), band.Lower.Intercept, 1e-12)
	assert.InDelta(t, 0.2+2*math.Sqrt(0.4), band.Upper.Intercept, 1e-12)
	assert.Equal(t, band.Trend.Slope, band.Lower.Slope)
	assert.Equal(t, band.Trend.Slope, band.Upper.Slope)
}

func TestFitSkipsGaps(t *testing.T) {
	series := buildSeries(60, day, func(i int) *float64 {
		if i == 3 || i == 41 {
			return model.Float(2*float64(i) + 1)
		}
		return nil
	})

	band, err := Fit(series, fixedOptions(series))
	require.NoError(t, err)

	assert.Equal(t, 2, band.Count)
	assert.Equal(t, testStart+3*day, band.Trend.Origin)
	assert.InDelta(t, 2/float64(day), band.Trend.Slope, 1e-15)
	assert.InDelta(t, 7, band.Trend.Intercept, 1e-9)
	assert.Equal(t, 0.0, band.Dispersion)
}

func TestFitLookbackWindow(t *testing.T) {
	series := buildSeries(10, day, func(i int) *float64 {
		if i < 5 {
			return model.Float(1000)
		}
		return model.Float(3 * float64(i))
	})

	opts := fixedOptions(series)
	opts.LookbackDays = 5
	band, err := Fit(series, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, band.Count)
	assert.InDelta(t, 3/float64(day), band.Trend.Slope, 1e-15)
	assert.InDelta(t, 0, band.Dispersion, 1e-9)
}

func TestFitIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	series := buildSeries(120, hour, func(i int) *float64 {
		return model.Float(float64(i) + r.NormFloat64())
	})
	opts := fixedOptions(series)

	first, err := Fit(series, opts)
	require.NoError(t, err)
	second, err := Fit(series, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFitErrors(t *testing.T) {
	series := buildSeries(10, hour, func(i int) *float64 { return model.Float(float64(i)) })

	opts := fixedOptions(series)
	opts.LookbackDays = 0
	_, err := Fit(series, opts)
	assert.ErrorIs(t, err, common.ErrorInvalidInterval)

	opts.LookbackDays = -3
	_, err = Fit(series, opts)
	assert.ErrorIs(t, err, common.ErrorInvalidInterval)

	opts = fixedOptions(series)
	opts.HorizonDays = -1
	_, err = Fit(series, opts)
	assert.ErrorIs(t, err, common.ErrorInvalidInterval)

	opts = fixedOptions(series)
	opts.Multiplier = -1
	_, err = Fit(series, opts)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	opts = fixedOptions(series)
	opts.Confidence = 1
	_, err = Fit(series, opts)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	// a fixed multiplier makes the confidence irrelevant
	opts.Multiplier = 2
	_, err = Fit(series, opts)
	assert.NoError(t, err)

	_, err = Fit(nil, DefaultOptions())
	assert.ErrorIs(t, err, common.ErrorInsufficientData)

	single := buildSeries(10, hour, func(i int) *float64 {
		if i == 4 {
			return model.Float(1)
		}
		return nil
	})
	_, err = Fit(single, DefaultOptions())
	assert.ErrorIs(t, err, common.ErrorInsufficientData)
}

func TestExtendSpansForecast(t *testing.T) {
	series := buildSeries(60, day, func(i int) *float64 {
		if i == 3 || i == 41 {
			return model.Float(2*float64(i) + 1)
		}
		return nil
	})
	opts := fixedOptions(series)

	band, err := Fit(series, opts)
	require.NoError(t, err)
	out := Extend(series, band, opts)

	assert.Equal(t, series.End+60*day, ForecastEnd(series, opts))
	for _, s := range out.List() {
		assert.Equal(t, series.Start, s.Start)
		assert.Equal(t, series.End+60*day, s.End)
		assert.Equal(t, day, s.Step)
		require.Len(t, s.Values, 120)

		for i := 0; i < 60; i++ {
			if i == 3 || i == 41 {
				require.NotNil(t, s.Values[i])
				continue
			}
			assert.Nil(t, s.Values[i], "slot %v", i)
		}
		for i := 60; i < 120; i++ {
			require.NotNil(t, s.Values[i], "slot %v", i)
		}
	}

	assert.InDelta(t, 7, *out.Trend.Values[3], 1e-9)
	assert.InDelta(t, 83, *out.Trend.Values[41], 1e-9)
	assert.InDelta(t, 2*119+1, *out.Trend.Values[119], 1e-9)
	assert.Equal(t, "servers.web01.disk.used", out.Trend.Name)
	assert.Equal(t, "servers.web01.disk.used: lower", out.Lower.Name)
	assert.Equal(t, "servers.web01.disk.used: upper", out.Upper.Name)
}

func TestForecastEndUsesNow(t *testing.T) {
	series := buildSeries(10, hour, func(i int) *float64 { return model.Float(1) })

	opts := DefaultOptions()
	opts.Now = time.Unix(series.End+5*day, 0)
	opts.HorizonDays = 2
	assert.Equal(t, series.End+7*day, ForecastEnd(series, opts))

	// now before the series end never shortens the history
	opts.Now = time.Unix(series.Start, 0)
	assert.Equal(t, series.End+2*day, ForecastEnd(series, opts))
}
