// Package render writes fit results the way a graphite render api would.
package render

import (
	"encoding/json"
	"io"

	"github.com/uyouii/timeseries-trend/model"
)

// Series is the render api shape of one series, datapoints are [value, timestamp].
type Series struct {
	Target     string        `json:"target"`
	Start      int64         `json:"start"`
	End        int64         `json:"end"`
	Step       int64         `json:"step"`
	Datapoints [][2]*float64 `json:"datapoints"`
}

func FromModel(s *model.Series) Series {
	res := Series{
		Target:     s.Name,
		Start:      s.Start,
		End:        s.End,
		Step:       s.Step,
		Datapoints: make([][2]*float64, 0, s.Len()),
	}
	for _, sample := range s.Samples() {
		ts := float64(sample.Timestamp)
		res.Datapoints = append(res.Datapoints, [2]*float64{sample.Value, &ts})
	}
	return res
}

// WriteSeries writes a json array of series.
func WriteSeries(w io.Writer, list ...*model.Series) error {
	out := make([]Series, 0, len(list))
	for _, s := range list {
		out = append(out, FromModel(s))
	}
	return json.NewEncoder(w).Encode(out)
}

// WriteObject writes a result that is not a series, such as intercept results.
func WriteObject(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
