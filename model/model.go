package model

import (
	"fmt"
	"math"

	"github.com/uyouii/timeseries-trend/utils"
)

// Sample is one slot of a series, Value is nil for a gap.
type Sample struct {
	Timestamp int64
	Value     *float64
}

func (s Sample) Valid() bool {
	return s.Value != nil && !math.IsNaN(*s.Value) && !math.IsInf(*s.Value, 0)
}

// Series is a fixed step series covering [Start, End), slot i sits at Start + i*Step.
type Series struct {
	Name   string
	Start  int64
	End    int64
	Step   int64
	Values []*float64
}

func NewSeries(name string, start, end, step int64, values []*float64) *Series {
	return &Series{
		Name:   name,
		Start:  start,
		End:    end,
		Step:   step,
		Values: values,
	}
}

// SeriesFromSamples lays samples onto the fixed slots of [start, end).
// Samples outside the range are dropped, a later sample wins a shared slot.
func SeriesFromSamples(name string, start, end, step int64, samples []Sample) *Series {
	values := make([]*float64, utils.SlotCount(start, end, step))
	for _, sample := range samples {
		if sample.Timestamp < start || sample.Timestamp >= end || !sample.Valid() {
			continue
		}
		v := *sample.Value
		values[(sample.Timestamp-start)/step] = &v
	}
	return NewSeries(name, start, end, step, values)
}

func Float(v float64) *float64 {
	return &v
}

func (s *Series) DebugString() string {
	res := fmt.Sprintf("name: %v, start: %v, end: %v, step: %v, valueCount: %v",
		s.Name, s.Start, s.End, s.Step, len(s.Values))
	return res
}

func (s *Series) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.Values) == 0
}

// Len is the number of slots between Start and End, a shorter Values slice is padded with gaps.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return utils.SlotCount(s.Start, s.End, s.Step)
}

func (s *Series) Timestamp(i int) int64 {
	return s.Start + int64(i)*s.Step
}

func (s *Series) At(i int) Sample {
	sample := Sample{Timestamp: s.Timestamp(i)}
	if i < len(s.Values) {
		sample.Value = s.Values[i]
	}
	return sample
}

func (s *Series) Samples() []Sample {
	n := s.Len()
	res := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, s.At(i))
	}
	return res
}

func (s *Series) ValidCount() int {
	cnt := 0
	for _, sample := range s.Samples() {
		if sample.Valid() {
			cnt++
		}
	}
	return cnt
}
