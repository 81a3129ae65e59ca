package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Geun-Oh/lxsink/internal/config"
)

var (
	configPath string
	verbose    bool
	flagCfg    = config.Default()

	rootCmd = &cobra.Command{
		Use:   "lxsink",
		Short: "lxsink forwards filtered log lines through an asynchronous sink",
		Long: `lxsink reads lines from stdin, a file or a command, keeps the ones that
match its filters and hands them to a lock-free ring. A background writer
thread drains the ring to stdout or a file, so the reader never waits on I/O.
When the writer falls behind, the oldest pending records are overwritten.`,
		SilenceUsage: true,
	}
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file; flags override its values")
	f.BoolVarP(&verbose, "verbose", "v", false, "log sink lifecycle messages")

	f.StringVarP(&flagCfg.Output, "out", "o", flagCfg.Output, `output file, or "-" for stdout`)
	f.BoolVar(&flagCfg.Truncate, "truncate", flagCfg.Truncate, "truncate the output file instead of appending")
	f.IntVar(&flagCfg.Capacity, "capacity", flagCfg.Capacity, "ring capacity in records")
	f.DurationVar(&flagCfg.PollInterval, "poll", flagCfg.PollInterval, "writer sleep when the ring is empty")
	f.DurationVar(&flagCfg.DrainInterval, "drain", flagCfg.DrainInterval, "shutdown re-check interval while draining")
	f.IntVar(&flagCfg.CPU, "cpu", flagCfg.CPU, "pin the writer thread to this CPU (-1 to leave unpinned)")
	f.StringVar(&flagCfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.BoolVar(&flagCfg.ShowStats, "stats", false, "print a summary to stderr on exit")

	f.StringSliceVarP(&flagCfg.Filter.Keywords, "keyword", "k", nil, "keep lines containing this keyword (repeatable)")
	f.StringVarP(&flagCfg.Filter.Regex, "regex", "r", "", "keep lines matching this regular expression")
	f.StringSliceVarP(&flagCfg.Filter.Exclude, "exclude", "x", nil, "drop lines containing this keyword (repeatable)")
	f.BoolVar(&flagCfg.Filter.MatchAll, "match-all", false, "require every filter to match instead of any")

	rootCmd.AddCommand(pipeCmd, runCmd, tailCmd, benchCmd)
}

// loadConfig merges the config file, if any, with the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	set := cmd.Flags().Changed
	if set("out") {
		cfg.Output = flagCfg.Output
	}
	if set("truncate") {
		cfg.Truncate = flagCfg.Truncate
	}
	if set("capacity") {
		cfg.Capacity = flagCfg.Capacity
	}
	if set("poll") {
		cfg.PollInterval = flagCfg.PollInterval
	}
	if set("drain") {
		cfg.DrainInterval = flagCfg.DrainInterval
	}
	if set("cpu") {
		cfg.CPU = flagCfg.CPU
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = flagCfg.MetricsAddr
	}
	if set("stats") {
		cfg.ShowStats = flagCfg.ShowStats
	}
	if set("keyword") {
		cfg.Filter.Keywords = flagCfg.Filter.Keywords
	}
	if set("regex") {
		cfg.Filter.Regex = flagCfg.Filter.Regex
	}
	if set("exclude") {
		cfg.Filter.Exclude = flagCfg.Filter.Exclude
	}
	if set("match-all") {
		cfg.Filter.MatchAll = flagCfg.Filter.MatchAll
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSlog() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
