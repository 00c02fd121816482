package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/uyouii/timeseries-trend/model"
	"github.com/uyouii/timeseries-trend/utils"
	"go.uber.org/zap"
)

type InfluxOptions struct {
	Org    string
	Bucket string
	Field  string
	Step   time.Duration
}

// InfluxFetcher reads a measurement from InfluxDB 2.x. Each tag set becomes one
// series, windows without points are kept as gaps.
type InfluxFetcher struct {
	client influxdb2.Client
	opts   InfluxOptions
}

func NewInfluxFetcher(serverURL, token string, opts InfluxOptions) *InfluxFetcher {
	return &InfluxFetcher{
		client: influxdb2.NewClient(serverURL, token),
		opts:   opts,
	}
}

func (f *InfluxFetcher) Close() {
	f.client.Close()
}

// fluxRows is the part of api.QueryTableResult the collector reads.
type fluxRows interface {
	Next() bool
	Record() *query.FluxRecord
	Err() error
}

func (f *InfluxFetcher) Fetch(ctx context.Context, target string, from, until time.Time) ([]*model.Series, error) {
	logger := utils.GetLogger(ctx)

	flux, params := f.fluxQuery(target, from, until)

	result, err := f.client.QueryAPI(f.opts.Org).QueryWithParams(ctx, flux, params)
	if err != nil {
		logger.Error("influxdb query failed", zap.Error(err), zap.String("measurement", target))
		return nil, fmt.Errorf("influxdb query: %w", err)
	}
	defer result.Close()

	res, err := collectSeries(result, target, int64(f.opts.Step/time.Second))
	if err != nil {
		return nil, err
	}
	logger.Info("fetch from influxdb", zap.String("measurement", target), zap.Int("series", len(res)))
	return res, nil
}

// fluxQuery keeps caller supplied names out of the query text, they travel as params.
func (f *InfluxFetcher) fluxQuery(target string, from, until time.Time) (string, map[string]interface{}) {
	flux := fmt.Sprintf(`
		from(bucket: params.bucket)
		  |> range(start: %s, stop: %s)
		  |> filter(fn: (r) => r._measurement == params.measurement and r._field == params.field)
		  |> aggregateWindow(every: %ds, fn: mean, createEmpty: true, timeSrc: "_start")
	`, from.UTC().Format(time.RFC3339), until.UTC().Format(time.RFC3339), int64(f.opts.Step/time.Second))

	params := map[string]interface{}{
		"bucket":      f.opts.Bucket,
		"measurement": target,
		"field":       f.opts.Field,
	}
	return flux, params
}

func collectSeries(rows fluxRows, measurement string, step int64) ([]*model.Series, error) {
	if step <= 0 {
		step = DefaultStep
	}

	type table struct {
		name    string
		samples []model.Sample
	}
	tables := map[int]*table{}
	order := []int{}

	for rows.Next() {
		record := rows.Record()
		t, ok := tables[record.Table()]
		if !ok {
			t = &table{name: seriesName(measurement, record)}
			tables[record.Table()] = t
			order = append(order, record.Table())
		}
		t.samples = append(t.samples, model.Sample{
			Timestamp: record.Time().Unix(),
			Value:     numericValue(record.Value()),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("influxdb read: %w", err)
	}

	res := make([]*model.Series, 0, len(order))
	for _, idx := range order {
		t := tables[idx]
		sort.Slice(t.samples, func(i, j int) bool { return t.samples[i].Timestamp < t.samples[j].Timestamp })
		start := t.samples[0].Timestamp
		end := t.samples[len(t.samples)-1].Timestamp + step
		res = append(res, model.SeriesFromSamples(t.name, start, end, step, t.samples))
	}
	return res, nil
}

// measurement followed by the tag values in key order, graphite style
func seriesName(measurement string, record *query.FluxRecord) string {
	keys := []string{}
	for k := range record.Values() {
		if strings.HasPrefix(k, "_") || k == "result" || k == "table" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{measurement}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v", record.ValueByKey(k)))
	}
	return strings.Join(parts, ".")
}

func numericValue(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return model.Float(n)
	case int64:
		return model.Float(float64(n))
	case uint64:
		return model.Float(float64(n))
	}
	return nil
}
