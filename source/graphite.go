package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/uyouii/timeseries-trend/common"
	"github.com/uyouii/timeseries-trend/model"
	"github.com/uyouii/timeseries-trend/utils"
	"go.uber.org/zap"
)

// graphite render api json, datapoints are [value, timestamp] with null values
type renderSeries struct {
	Target     string        `json:"target"`
	Datapoints [][2]*float64 `json:"datapoints"`
}

func DecodeRender(r io.Reader) ([]*model.Series, error) {
	var raw []renderSeries
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode render json: %w", err)
	}

	res := make([]*model.Series, 0, len(raw))
	for _, item := range raw {
		series, err := item.series()
		if err != nil {
			return nil, err
		}
		res = append(res, series)
	}
	return res, nil
}

func (r renderSeries) series() (*model.Series, error) {
	samples := make([]model.Sample, 0, len(r.Datapoints))
	for _, point := range r.Datapoints {
		if point[1] == nil {
			return nil, fmt.Errorf("%w: datapoint without timestamp in %v", common.ErrorInvalidValue, r.Target)
		}
		samples = append(samples, model.Sample{Timestamp: int64(*point[1]), Value: point[0]})
	}
	if len(samples) == 0 {
		return model.NewSeries(r.Target, 0, 0, DefaultStep, nil), nil
	}

	step := inferStep(samples)
	start := samples[0].Timestamp
	end := samples[len(samples)-1].Timestamp + step
	return model.SeriesFromSamples(r.Target, start, end, step, samples), nil
}

// smallest positive gap between consecutive timestamps
func inferStep(samples []model.Sample) int64 {
	step := int64(0)
	for i := 1; i < len(samples); i++ {
		diff := samples[i].Timestamp - samples[i-1].Timestamp
		if diff > 0 && (step == 0 || diff < step) {
			step = diff
		}
	}
	if step == 0 {
		return DefaultStep
	}
	return step
}

// FileFetcher serves a saved render response, target is a glob over series names.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Fetch(ctx context.Context, target string, from, until time.Time) ([]*model.Series, error) {
	logger := utils.GetLogger(ctx)

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	all, err := DecodeRender(file)
	if err != nil {
		return nil, err
	}

	res := []*model.Series{}
	for _, series := range all {
		matched, err := path.Match(target, series.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: target %q: %v", common.ErrorInvalidValue, target, err)
		}
		if !matched {
			continue
		}
		res = append(res, crop(series, from.Unix(), until.Unix()))
	}

	logger.Info("fetch from file", zap.String("path", f.Path), zap.String("target", target),
		zap.Int("matched", len(res)))
	return res, nil
}

// GraphiteFetcher queries the render api of a graphite-web or graphite-api server.
type GraphiteFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewGraphiteFetcher(baseURL string) *GraphiteFetcher {
	return &GraphiteFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GraphiteFetcher) Fetch(ctx context.Context, target string, from, until time.Time) ([]*model.Series, error) {
	logger := utils.GetLogger(ctx)

	params := url.Values{}
	params.Set("target", target)
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("until", strconv.FormatInt(until.Unix(), 10))
	params.Set("format", "json")

	endpoint, err := url.JoinPath(g.BaseURL, "render")
	if err != nil {
		return nil, fmt.Errorf("%w: graphite url %q: %v", common.ErrorInvalidValue, g.BaseURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		logger.Error("graphite render request failed", zap.Error(err), zap.String("target", target))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("graphite render %v: %s", resp.Status, body)
	}

	res, err := DecodeRender(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Info("fetch from graphite", zap.String("target", target), zap.Int("series", len(res)))
	return res, nil
}
