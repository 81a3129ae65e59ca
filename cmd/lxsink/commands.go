package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Geun-Oh/lxsink/internal/config"
	"github.com/Geun-Oh/lxsink/internal/filter"
	"github.com/Geun-Oh/lxsink/internal/logger"
	"github.com/Geun-Oh/lxsink/internal/monitor"
	"github.com/Geun-Oh/lxsink/internal/pipeline"
	"github.com/Geun-Oh/lxsink/internal/sink"
	"github.com/Geun-Oh/lxsink/internal/source"
	"github.com/Geun-Oh/lxsink/internal/tui"
)

const metricsNamespace = "lxsink"

var (
	follow    bool
	dashboard bool

	pipeCmd = &cobra.Command{
		Use:   "pipe",
		Short: "Forward stdin through the sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, source.NewStdinSource())
		},
	}

	runCmd = &cobra.Command{
		Use:   "run -- COMMAND [ARGS...]",
		Short: "Run a command and forward its stdout and stderr through the sink",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := source.NewExecSource(args[0], args[1:])
			if err := runPipeline(cmd, src); err != nil {
				return err
			}
			if err := src.Err(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		},
	}

	tailCmd = &cobra.Command{
		Use:   "tail FILE",
		Short: "Forward a file's lines through the sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, source.NewFileSource(args[0], follow))
		},
	}
)

func init() {
	tailCmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep reading as the file grows")
	for _, c := range []*cobra.Command{pipeCmd, runCmd, tailCmd} {
		c.Flags().BoolVarP(&dashboard, "dashboard", "d", false, "show a live sink dashboard (requires --out FILE)")
	}
}

// runPipeline wires src through the filters into a new logger and blocks
// until src is exhausted or the process is interrupted.
func runPipeline(cmd *cobra.Command, src source.Source) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dashboard && cfg.Output == config.Stdout {
		return errors.New("--dashboard needs --out FILE, the terminal is taken by the dashboard")
	}
	chain, err := filter.Build(cfg.Filter.Keywords, cfg.Filter.Regex, cfg.Filter.Exclude, cfg.Filter.MatchAll)
	if err != nil {
		return err
	}

	log := newSlog()
	l, err := openLogger(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *monitor.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			monitor.NewCollector(metricsNamespace, l),
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		srv = monitor.NewServer(cfg.MetricsAddr, reg, log)
		srv.Start()
	}

	log.Debug("pipeline starting", "source", src.Name(), "filters", chain.Name())
	pcfg := &pipeline.Config{Source: src, Filters: chain, Logger: l}
	var runErr error
	if dashboard {
		runErr = runWithDashboard(ctx, pcfg)
	} else {
		runErr = pipeline.Run(ctx, pcfg)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	closeErr := l.Close()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", "err", err)
		}
	}
	if cfg.ShowStats {
		fmt.Fprintln(os.Stderr, renderSummary(l.Snapshot()))
	}
	return errors.Join(runErr, closeErr)
}

// runWithDashboard runs the pipeline in the background while the dashboard
// holds the terminal. Quitting the dashboard stops the pipeline.
func runWithDashboard(ctx context.Context, cfg *pipeline.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		runErr = pipeline.Run(ctx, cfg)
	}()

	uiErr := tui.Run(ctx, cfg.Logger, done)
	cancel()
	<-done
	return errors.Join(uiErr, runErr)
}

// openWriter returns the destination named by cfg.Output.
func openWriter(cfg *config.Config) (sink.Writer, error) {
	if cfg.Output == config.Stdout {
		return sink.NewTerminalWriter(os.Stdout), nil
	}
	return sink.NewFileWriter(cfg.Output, cfg.Truncate)
}

func openLogger(cfg *config.Config, log *slog.Logger) (*logger.Logger, error) {
	w, err := openWriter(cfg)
	if err != nil {
		return nil, err
	}
	l, err := logger.New(w,
		logger.WithCapacity(cfg.Capacity),
		logger.WithPollInterval(cfg.PollInterval),
		logger.WithDrainInterval(cfg.DrainInterval),
		logger.WithCPU(cfg.CPU),
		logger.WithLogger(log),
	)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return l, nil
}
