package lsq

import (
	"math"

	"github.com/uyouii/timeseries-trend/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FittedLine is an ordinary least squares fit of y = Slope*x + Intercept.
type FittedLine struct {
	X []float64
	Y []float64
	N int

	Slope     float64
	Intercept float64
	RSquared  float64
	// residual standard error, sqrt(sum(residual^2) / (n-2))
	Sigma float64
}

// NewFittedLine fits the pairs of x and y. Extra values of the longer slice
// are ignored and a pair is dropped when either side is NaN or Inf.
func NewFittedLine(x, y []float64) (*FittedLine, error) {
	n := min(len(x), len(y))

	xs, ys := make([]float64, 0, n), make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if !finite(x[i]) || !finite(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	if len(xs) < MinFitPointCnt {
		return nil, common.ErrorInsufficientData
	}
	if floats.Min(xs) == floats.Max(xs) {
		return nil, common.ErrorInvalidValue
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	line := &FittedLine{
		X:         xs,
		Y:         ys,
		N:         len(xs),
		Slope:     slope,
		Intercept: intercept,
	}
	line.errors()
	return line, nil
}

func (l *FittedLine) errors() {
	residuals := make([]float64, l.N)
	for i := range l.X {
		residuals[i] = l.Y[i] - l.At(l.X[i])
	}

	// a line through two points has no residual degrees of freedom
	if l.N > MinFitPointCnt {
		l.Sigma = math.Sqrt(floats.Dot(residuals, residuals) / float64(l.N-2))
	}

	if stat.Variance(l.Y, nil) > 0 {
		l.RSquared = stat.RSquared(l.X, l.Y, nil, l.Intercept, l.Slope)
	} else {
		l.RSquared = 1
	}
}

func (l *FittedLine) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// TQuantile is the two sided Student's t critical value for confidence q.
func (l *FittedLine) TQuantile(q float64) float64 {
	if l.N <= MinFitPointCnt {
		return 0
	}
	alpha := (1 - q) / 2
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(l.N - 2)}
	return dist.Quantile(1 - alpha)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
