package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	sourceType   string
	sourceFile   string
	graphiteURL  string
	lookbackDays int
	horizonDays  int
	multiplier   float64
	confidence   float64
	verbose      bool

	threshold   float64
	interceptID string
	humanOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "trendline",
	Short: "Least squares trend lines, prediction bands and threshold crossings",
	Long: `trendline fits a least squares line to the history of a series, draws a
prediction band around it and tells when the band reaches a threshold.`,
	SilenceUsage: true,
}

var fitCmd = &cobra.Command{
	Use:   "fit TARGET",
	Short: "Print the lower, trend and upper series as render json",
	Args:  cobra.ExactArgs(1),
	RunE:  runFitCmd,
}

var interceptCmd = &cobra.Command{
	Use:   "intercept TARGET",
	Short: "Print when the band crosses a threshold",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterceptCmd,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "yaml options file")
	flags.StringVar(&sourceType, "source", "", "series source: file, graphite or influxdb")
	flags.StringVar(&sourceFile, "file", "", "render json file for the file source")
	flags.StringVar(&graphiteURL, "graphite-url", "", "graphite base url")
	flags.IntVar(&lookbackDays, "lookback-days", 0, "days of history to fit (default 60)")
	flags.IntVar(&horizonDays, "horizon-days", 0, "days to forecast past now (default lookback)")
	flags.Float64Var(&multiplier, "multiplier", 0, "fixed band multiplier, overrides --confidence")
	flags.Float64Var(&confidence, "confidence", 0, "band confidence (default 0.95)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	interceptCmd.Flags().Float64Var(&threshold, "threshold", 0, "value to find the crossing for")
	interceptCmd.Flags().StringVar(&interceptID, "id", "", "id echoed back in the result")
	interceptCmd.Flags().BoolVar(&humanOutput, "human", false, "print relative times instead of json")
	_ = interceptCmd.MarkFlagRequired("threshold")

	rootCmd.AddCommand(fitCmd, interceptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
