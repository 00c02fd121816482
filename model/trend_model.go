package model

import "fmt"

// LinearModel is value(t) = Slope*(t-Origin) + Intercept, t in unix seconds.
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Origin    int64   `json:"origin"`
}

func (m LinearModel) At(timestamp int64) float64 {
	return m.Slope*float64(timestamp-m.Origin) + m.Intercept
}

// Shift moves the line vertically by delta.
func (m LinearModel) Shift(delta float64) LinearModel {
	m.Intercept += delta
	return m
}

func (m LinearModel) String() string {
	return fmt.Sprintf("%v*(t-%v)%+v", m.Slope, m.Origin, m.Intercept)
}

// Band is a trend line with lower and upper lines at Trend -/+ Multiplier*Dispersion.
type Band struct {
	Lower LinearModel `json:"lower"`
	Trend LinearModel `json:"trend"`
	Upper LinearModel `json:"upper"`

	Dispersion float64 `json:"dispersion"` // residual standard error
	Multiplier float64 `json:"multiplier"`
	RSquared   float64 `json:"r_squared"`
	Count      int     `json:"count"` // samples used by the fit
}

func (b *Band) Margin() float64 {
	return b.Multiplier * b.Dispersion
}

type BandSeries struct {
	Lower *Series
	Trend *Series
	Upper *Series
}

func (b *BandSeries) List() []*Series {
	return []*Series{b.Lower, b.Trend, b.Upper}
}

type CrossingStatus string

const (
	// crossing found inside the search bounds
	CrossingFound CrossingStatus = "found"
	// crossing lies before the lower bound
	CrossingAlreadyPassed CrossingStatus = "already_passed"
	// crossing lies after the upper bound
	CrossingBeyondHorizon CrossingStatus = "beyond_horizon"
	// flat line never reaches the threshold
	CrossingNever CrossingStatus = "never"
)

type Crossing struct {
	Timestamp *int64         `json:"timestamp"`
	Status    CrossingStatus `json:"status"`
}

// InterceptResult is a plain object, not a series.
type InterceptResult struct {
	Threshold float64 `json:"threshold"`
	Lower     *int64  `json:"lower"`
	Upper     *int64  `json:"upper"`
	Trend     *int64  `json:"trend"`
	ID        *string `json:"id,omitempty"`

	LowerStatus CrossingStatus `json:"lower_status"`
	UpperStatus CrossingStatus `json:"upper_status"`
	TrendStatus CrossingStatus `json:"trend_status"`
}
