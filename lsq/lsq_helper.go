package lsq

import (
	"context"
	"fmt"

	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/model"
	"github.com/uyouii/timeseries-trend/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeastSquares fits the series and returns the lower, trend and upper lines
// projected from the series start through now plus the horizon.
func LeastSquares(ctx context.Context, series *model.Series, opts Options) (res *model.BandSeries, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("LeastSquares recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("%w: %v", common.ErrorInvalidValue, r)
		}
	}()

	band, err := Fit(series, opts)
	if err != nil {
		logger.Error("fit failed", zap.Error(err), zap.String("series", debugString(series)))
		return nil, err
	}

	logger.Debug("fit band", zap.String("series", series.Name), zap.Stringer("trend", band.Trend),
		zap.Float64("dispersion", band.Dispersion), zap.Float64("multiplier", band.Multiplier),
		zap.Float64("r_squared", band.RSquared), zap.Int("count", band.Count))

	return Extend(series, band, opts), nil
}

// LeastSquaresIntercept fits the series and solves when the lower, trend and
// upper lines reach threshold, searching from the series start to ForecastEnd.
// id is passed through untouched.
func LeastSquaresIntercept(ctx context.Context, series *model.Series, threshold float64,
	id *string, opts Options) (res *model.InterceptResult, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("LeastSquaresIntercept recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("%w: %v", common.ErrorInvalidValue, r)
		}
	}()

	band, err := Fit(series, opts)
	if err != nil {
		logger.Error("fit failed", zap.Error(err), zap.String("series", debugString(series)))
		return nil, err
	}

	bounds := Bounds{Min: series.Start, Max: ForecastEnd(series, opts)}
	lower := ClassifyCrossing(band.Lower, threshold, bounds)
	trend := ClassifyCrossing(band.Trend, threshold, bounds)
	upper := ClassifyCrossing(band.Upper, threshold, bounds)

	logger.Debug("intercept", zap.String("series", series.Name), zap.Float64("threshold", threshold),
		zap.Any("lower", lower), zap.Any("trend", trend), zap.Any("upper", upper))

	return &model.InterceptResult{
		Threshold:   threshold,
		Lower:       lower.Timestamp,
		Upper:       upper.Timestamp,
		Trend:       trend.Timestamp,
		ID:          id,
		LowerStatus: lower.Status,
		UpperStatus: upper.Status,
		TrendStatus: trend.Status,
	}, nil
}

// LeastSquaresAll runs LeastSquares for each series concurrently, output keeps
// the input order as lower, trend, upper triples. The first error wins.
func LeastSquaresAll(ctx context.Context, seriesList []*model.Series, opts Options) ([]*model.Series, error) {
	bands := make([]*model.BandSeries, len(seriesList))

	g, gCtx := errgroup.WithContext(ctx)
	for i, series := range seriesList {
		i, series := i, series
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			band, err := LeastSquares(gCtx, series, opts)
			if err != nil {
				return err
			}
			bands[i] = band
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make([]*model.Series, 0, 3*len(bands))
	for _, band := range bands {
		res = append(res, band.List()...)
	}
	return res, nil
}

// LeastSquaresInterceptAll is LeastSquaresIntercept over each series, every
// result carries the same request id.
func LeastSquaresInterceptAll(ctx context.Context, seriesList []*model.Series, threshold float64,
	id *string, opts Options) ([]*model.InterceptResult, error) {
	res := make([]*model.InterceptResult, len(seriesList))

	g, gCtx := errgroup.WithContext(ctx)
	for i, series := range seriesList {
		i, series := i, series
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := LeastSquaresIntercept(gCtx, series, threshold, id, opts)
			if err != nil {
				return err
			}
			res[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func debugString(series *model.Series) string {
	if series == nil {
		return "<nil>"
	}
	return series.DebugString()
}
