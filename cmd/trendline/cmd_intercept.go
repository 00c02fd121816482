package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/uyouii/timeseries-trend/lsq"
	"github.com/uyouii/timeseries-trend/model"
	"github.com/uyouii/timeseries-trend/render"
	"github.com/uyouii/timeseries-trend/source"
)

func runInterceptCmd(cmd *cobra.Command, args []string) error {
	ctx, fetcher, opts, done, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer done()

	var id *string
	if cmd.Flags().Changed("id") {
		id = &interceptID
	}
	return runIntercept(ctx, cmd.OutOrStdout(), fetcher, args[0], threshold, id, humanOutput, opts)
}

func runIntercept(ctx context.Context, w io.Writer, fetcher source.Fetcher, target string,
	value float64, id *string, human bool, opts lsq.Options) error {
	until := opts.Now
	if until.IsZero() {
		until = time.Now()
	}

	seriesList, err := source.Bootstrap(ctx, fetcher, target, until, opts.LookbackDays)
	if err != nil {
		return err
	}

	results, err := lsq.LeastSquaresInterceptAll(ctx, seriesList, value, id, opts)
	if err != nil {
		return err
	}

	if !human {
		return render.WriteObject(w, results)
	}
	for i, res := range results {
		fmt.Fprintf(w, "%s reaches %v\n", seriesList[i].Name, res.Threshold)
		fmt.Fprintf(w, "  upper: %s\n", describeCrossing(until, res.Upper, res.UpperStatus))
		fmt.Fprintf(w, "  trend: %s\n", describeCrossing(until, res.Trend, res.TrendStatus))
		fmt.Fprintf(w, "  lower: %s\n", describeCrossing(until, res.Lower, res.LowerStatus))
	}
	return nil
}

func describeCrossing(now time.Time, ts *int64, status model.CrossingStatus) string {
	switch status {
	case model.CrossingFound:
		at := time.Unix(*ts, 0)
		return fmt.Sprintf("%s (%s)", humanize.RelTime(at, now, "ago", "from now"), at.UTC().Format(time.RFC3339))
	case model.CrossingAlreadyPassed:
		return "crossed before the history window"
	case model.CrossingBeyondHorizon:
		return "not within the forecast horizon"
	}
	return "never, the line is flat"
}
