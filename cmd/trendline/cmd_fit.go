package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/uyouii/timeseries-trend/lsq"
	"github.com/uyouii/timeseries-trend/render"
	"github.com/uyouii/timeseries-trend/source"
)

func runFitCmd(cmd *cobra.Command, args []string) error {
	ctx, fetcher, opts, done, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer done()
	return runFit(ctx, cmd.OutOrStdout(), fetcher, args[0], opts)
}

func runFit(ctx context.Context, w io.Writer, fetcher source.Fetcher, target string, opts lsq.Options) error {
	until := opts.Now
	if until.IsZero() {
		until = time.Now()
	}

	seriesList, err := source.Bootstrap(ctx, fetcher, target, until, opts.LookbackDays)
	if err != nil {
		return err
	}

	out, err := lsq.LeastSquaresAll(ctx, seriesList, opts)
	if err != nil {
		return err
	}
	return render.WriteSeries(w, out...)
}
