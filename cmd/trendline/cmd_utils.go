package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/uyouii/timeseries-trend/config"
	"github.com/uyouii/timeseries-trend/lsq"
	"github.com/uyouii/timeseries-trend/source"
	"github.com/uyouii/timeseries-trend/utils"
	"go.uber.org/zap"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Type = sourceType
	}
	if flags.Changed("file") {
		cfg.Source.File = sourceFile
	}
	if flags.Changed("graphite-url") {
		cfg.Source.Graphite.URL = graphiteURL
	}
	if flags.Changed("lookback-days") {
		cfg.LeastSquares.LookbackDays = lookbackDays
	}
	if flags.Changed("horizon-days") {
		cfg.LeastSquares.HorizonDays = horizonDays
	}
	if flags.Changed("multiplier") {
		cfg.LeastSquares.Multiplier = multiplier
	}
	if flags.Changed("confidence") {
		cfg.LeastSquares.Confidence = confidence
	}
	return cfg, nil
}

// newFetcher returns the configured source and a func releasing it.
func newFetcher(cfg *config.Config) (source.Fetcher, func(), error) {
	switch cfg.Source.Type {
	case "file":
		if cfg.Source.File == "" {
			return nil, nil, fmt.Errorf("file source needs --file")
		}
		return &source.FileFetcher{Path: cfg.Source.File}, func() {}, nil
	case "graphite":
		if cfg.Source.Graphite.URL == "" {
			return nil, nil, fmt.Errorf("graphite source needs --graphite-url")
		}
		return source.NewGraphiteFetcher(cfg.Source.Graphite.URL), func() {}, nil
	case "influxdb":
		influx := cfg.Source.Influx
		fetcher := source.NewInfluxFetcher(influx.URL, influx.Token, source.InfluxOptions{
			Org:    influx.Org,
			Bucket: influx.Bucket,
			Field:  influx.Field,
			Step:   time.Duration(influx.StepSeconds) * time.Second,
		})
		return fetcher, fetcher.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", cfg.Source.Type)
}

func newContext(cmd *cobra.Command) (context.Context, func(), error) {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	ctx := utils.WithLogger(cmd.Context(), logger)
	return ctx, func() { _ = logger.Sync() }, nil
}

// prepare loads options and the fetcher shared by every subcommand.
func prepare(cmd *cobra.Command) (context.Context, source.Fetcher, lsq.Options, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, lsq.Options{}, nil, err
	}
	opts := cfg.Options()
	if err := opts.Validate(); err != nil {
		return nil, nil, lsq.Options{}, nil, err
	}

	fetcher, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, nil, lsq.Options{}, nil, err
	}
	ctx, syncLogger, err := newContext(cmd)
	if err != nil {
		closeFetcher()
		return nil, nil, lsq.Options{}, nil, err
	}
	return ctx, fetcher, opts, func() {
		closeFetcher()
		syncLogger()
	}, nil
}
