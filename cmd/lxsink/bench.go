package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Geun-Oh/lxsink/internal/logger"
	"github.com/Geun-Oh/lxsink/internal/sink"
)

var (
	benchCount   int
	benchDiscard bool

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure producer-side cost of Log",
		Long: `bench logs a fixed line with an integer, a string and a float argument
N times and reports the time the producer spent per call. The writer thread
drains to the configured output, or to nowhere with --discard.`,
		Args: cobra.NoArgs,
		RunE: runBench,
	}
)

func init() {
	benchCmd.Flags().IntVarP(&benchCount, "count", "n", 1_000_000, "number of lines to log")
	benchCmd.Flags().BoolVar(&benchDiscard, "discard", false, "drain to io.Discard instead of --out")
}

func runBench(cmd *cobra.Command, _ []string) error {
	if benchCount <= 0 {
		return fmt.Errorf("count must be > 0, got %d", benchCount)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newSlog()

	var l *logger.Logger
	if benchDiscard {
		l, err = logger.New(sink.NopCloser(io.Discard, "discard"),
			logger.WithCapacity(cfg.Capacity),
			logger.WithPollInterval(cfg.PollInterval),
			logger.WithDrainInterval(cfg.DrainInterval),
			logger.WithCPU(cfg.CPU),
			logger.WithLogger(log),
		)
	} else {
		l, err = openLogger(cfg, log)
	}
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < benchCount; i++ {
		l.Log("Integer:% String:% Double:%\n", i, "bench", float64(i)*0.5)
	}
	produce := time.Since(start)

	if err := l.Close(); err != nil {
		return err
	}
	total := time.Since(start)

	fmt.Fprintf(os.Stderr, "%d lines: %s producer (%.1f ns/line), %s total\n",
		benchCount, produce.Round(time.Microsecond),
		float64(produce.Nanoseconds())/float64(benchCount), total.Round(time.Millisecond))
	fmt.Fprintln(os.Stderr, renderSummary(l.Snapshot()))
	return nil
}
