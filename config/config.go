package config

import (
	"os"

	"github.com/uyouii/timeseries-trend/lsq"
	"gopkg.in/yaml.v3"
)

// Config is the trendline options file.
type Config struct {
	LeastSquares LeastSquares `yaml:"least_squares"`
	Source       Source       `yaml:"source"`
}

type LeastSquares struct {
	LookbackDays int     `yaml:"lookback_days"`
	HorizonDays  int     `yaml:"horizon_days"` // 0 reuses lookback_days
	Confidence   float64 `yaml:"confidence"`
	Multiplier   float64 `yaml:"multiplier"` // fixed k, overrides confidence when set
}

type Source struct {
	Type     string   `yaml:"type"` // "file", "graphite" or "influxdb"
	File     string   `yaml:"file"`
	Graphite Graphite `yaml:"graphite"`
	Influx   Influx   `yaml:"influxdb"`
}

type Graphite struct {
	URL string `yaml:"url"`
}

type Influx struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Field       string `yaml:"field"`
	StepSeconds int64  `yaml:"step_seconds"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.LeastSquares.LookbackDays == 0 {
		c.LeastSquares.LookbackDays = lsq.DefaultLookbackDays
	}
	if c.LeastSquares.Confidence == 0 {
		c.LeastSquares.Confidence = lsq.DefaultConfidence
	}
	if c.Source.Type == "" {
		c.Source.Type = "file"
	}
	if c.Source.Influx.Field == "" {
		c.Source.Influx.Field = "value"
	}
	if c.Source.Influx.StepSeconds == 0 {
		c.Source.Influx.StepSeconds = 60
	}
}

// Options converts the least squares section, the result is validated by lsq.
func (c *Config) Options() lsq.Options {
	return lsq.Options{
		LookbackDays: c.LeastSquares.LookbackDays,
		HorizonDays:  c.LeastSquares.HorizonDays,
		Confidence:   c.LeastSquares.Confidence,
		Multiplier:   c.LeastSquares.Multiplier,
	}
}
