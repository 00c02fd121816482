package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesSlots(t *testing.T) {
	s := NewSeries("a", 100, 150, 10, []*float64{Float(1), nil, Float(3)})

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, int64(120), s.Timestamp(2))
	assert.Equal(t, 2, s.ValidCount())

	samples := s.Samples()
	require.Len(t, samples, 5)
	assert.True(t, samples[0].Valid())
	assert.False(t, samples[1].Valid())
	assert.Equal(t, int64(140), samples[4].Timestamp)
	assert.Nil(t, samples[4].Value)
}

func TestSeriesIsEmpty(t *testing.T) {
	var s *Series
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	assert.True(t, NewSeries("a", 0, 10, 1, nil).IsEmpty())
}

func TestSampleValid(t *testing.T) {
	assert.False(t, Sample{Value: Float(math.NaN())}.Valid())
	assert.False(t, Sample{Value: Float(math.Inf(-1))}.Valid())
	assert.True(t, Sample{Value: Float(0)}.Valid())
}

func TestSeriesFromSamples(t *testing.T) {
	s := SeriesFromSamples("a", 0, 40, 10, []Sample{
		{Timestamp: 0, Value: Float(1)},
		{Timestamp: 25, Value: Float(2)},
		{Timestamp: 29, Value: Float(4)},
		{Timestamp: 40, Value: Float(9)},
		{Timestamp: -5, Value: Float(9)},
		{Timestamp: 10, Value: nil},
	})

	require.Len(t, s.Values, 4)
	assert.Equal(t, 1.0, *s.Values[0])
	assert.Nil(t, s.Values[1])
	assert.Equal(t, 4.0, *s.Values[2])
	assert.Nil(t, s.Values[3])
}

func TestLinearModel(t *testing.T) {
	m := LinearModel{Slope: 2, Intercept: 1, Origin: 100}
	assert.Equal(t, 1.0, m.At(100))
	assert.Equal(t, 21.0, m.At(110))

	shifted := m.Shift(-3)
	assert.Equal(t, -2.0, shifted.Intercept)
	assert.Equal(t, 1.0, m.Intercept)

	band := Band{Dispersion: 0.5, Multiplier: 2}
	assert.Equal(t, 1.0, band.Margin())
}
