package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"stockdesk/internal/analytics"
	"stockdesk/internal/config"
	"stockdesk/internal/page"
	"stockdesk/internal/tui"
	"stockdesk/internal/util"
	"stockdesk/pkg/stockdesk"
)

const flushTimeout = 5 * time.Second

// options are the persistent flags shared by every command.
type options struct {
	cfgFile  string
	baseURL  string
	logLevel string

	stdout io.Writer
	stderr io.Writer
}

// app is the wired runtime of one command invocation.
type app struct {
	cfg  *config.Config
	log  *slog.Logger
	deps page.Deps

	sink    *analytics.Sink
	logFile io.Closer
}

// open loads configuration and wires the client, logger and analytics. The
// interactive UI logs to a file because it owns the terminal.
func (o *options) open(interactive bool) (*app, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.API.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	a := &app{cfg: cfg}
	logOut := o.stderr
	if interactive {
		f := util.NewFileWriter(cfg.Logging.File)
		a.logFile = f
		logOut = f
	}
	a.log = util.NewLogger(cfg.Logging.Level, logOut)

	client := stockdesk.NewClient(cfg.API.BaseURL)
	a.deps = page.Deps{API: client, Recorder: analytics.Nop{}, Log: a.log}

	if cfg.Analytics.Enabled {
		es, err := analytics.NewElasticsearch(cfg.Analytics.ElasticsearchURL, cfg.Analytics.Username, cfg.Analytics.Password)
		if err != nil {
			a.log.Warn("analytics disabled", "error", err)
		} else {
			a.sink = analytics.NewSink(es, cfg.Analytics.Index, client, a.log)
			a.deps.Recorder = a.sink
		}
	}

	a.log.Debug("configured", "api", cfg.API.BaseURL, "analytics", cfg.Analytics.Enabled)
	return a, nil
}

// close waits briefly for pending analytics and releases the log file.
func (a *app) close() {
	if a.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := a.sink.Flush(ctx); err != nil {
			a.log.Warn("analytics not flushed", "error", err)
		}
		cancel()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "stockdesk",
		Short: "Stock information terminal client",
		Long: `Stock information terminal client.

Without a subcommand the interactive UI starts on the configured page.
The stock, report, strategy and news commands run a single query and
print the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runTUI(cmd.Context(), "")
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (YAML)")
	pf.StringVar(&o.baseURL, "base-url", "", "backend base URL (overrides config)")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newTUICmd(o),
		newRangeCmd(o, "stock", "Query prices, sentiment and risk metrics", runStock),
		newRangeCmd(o, "report", "Show the investment report", runReport),
		newRangeCmd(o, "strategy", "Show the trading strategy", runStrategy),
		newNewsCmd(o),
		newVersionCmd(stdout),
	)
	return root
}

func newTUICmd(o *options) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runTUI(cmd.Context(), start)
		},
	}
	cmd.Flags().StringVar(&start, "page", "", "start page: /, /reports, /strategies or /news")
	return cmd
}

func (o *options) runTUI(ctx context.Context, start string) error {
	a, err := o.open(true)
	if err != nil {
		return err
	}
	defer a.close()

	if start == "" {
		start = a.cfg.UI.StartPage
	}
	a.log.Info("starting ui", "page", start)
	if err := tui.Run(ctx, a.deps, start); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func newVersionCmd(w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(w, "stockdesk %s\n", version)
		},
	}
}
