package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caiso-reports/internal/config"

	"github.com/spf13/cobra"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "caiso",
	Short: "Pull CAISO renewables and OASIS price reports",
	Long: `caiso downloads CAISO Daily Renewables Watch reports and OASIS price
queries over a date range and writes them as CSV or XLSX.

Requests are made one period at a time with a pause between them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv("CAISO_CONFIG")
		}
		if path == "" {
			cfg = config.Default()
			return nil
		}
		var err error
		cfg, err = config.LoadUnchecked(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (default: $CAISO_CONFIG)")
	rootCmd.PersistentFlags().Duration("delay", 0, "pause between requests (default from config, 5s)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request HTTP timeout, 0 waits indefinitely")
	rootCmd.PersistentFlags().Bool("fail-fast", false, "stop at the first failed period")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for relative output paths")

	rootCmd.AddCommand(renewablesCmd)
	rootCmd.AddCommand(oasisCmd)
	rootCmd.AddCommand(queriesCmd)
	rootCmd.AddCommand(nodesCmd)
}

// commonOverrides reads the persistent flags into an override config.
// delay is applied directly when set so that --delay 0 disables the pause.
func commonOverrides(cmd *cobra.Command, base *config.Config) config.Config {
	var o config.Config
	o.HTTPTimeout, _ = cmd.Flags().GetDuration("timeout")
	o.FailFast, _ = cmd.Flags().GetBool("fail-fast")
	o.OutputDir, _ = cmd.Flags().GetString("output-dir")
	if cmd.Flags().Changed("delay") {
		base.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	return o
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func elapsed(start, end time.Time) time.Duration {
	return end.Sub(start).Round(time.Millisecond)
}
