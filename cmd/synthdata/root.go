package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/internal/pipeline"
	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/logger"
	"github.com/ajitpratap0/synthdata/pkg/observability"

	// Import all available connectors to register them
	_ "github.com/ajitpratap0/synthdata/pkg/connector/destinations"
	_ "github.com/ajitpratap0/synthdata/pkg/connector/sources"
)

var version = "0.1.0"

type app struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "synthdata",
		Short: "Synthesise realistic records from a real dataset",
		Long: `synthdata reads a table from a file or database, fits an independent model to
every column and writes synthetic records with the same shape.

Every flag can also be set in the YAML file given with --config or through a
SYNTHDATA_ environment variable, e.g. SYNTHDATA_SOURCE_PATH or SYNTHDATA_ROWS.
Flags take precedence over the environment, which takes precedence over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	register(root.PersistentFlags(), globalBindings)

	root.AddCommand(versionCmd(), listCmd(), a.profileCmd(), a.generateCmd())
	return root
}

// load builds the effective configuration: defaults, then the config file,
// then environment variables and flags.
func (a *app) load(cmd *cobra.Command, bindings ...[]binding) (*config.Config, error) {
	cfg := config.NewDefault()
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	all := append([]binding{}, globalBindings...)
	for _, b := range bindings {
		all = append(all, b...)
	}
	if err := overlay(cfg, cmd.Flags(), all); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fitOptions(cfg *config.Config, log *zap.Logger) pipeline.FitOptions {
	return pipeline.FitOptions{
		Seed:       cfg.Seed,
		NullValues: cfg.Source.NullValues,
		Logger:     log,
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// startObservability starts the metrics endpoint and span exporter the
// configuration asks for. The returned function stops both.
func startObservability(cfg *config.Config, log *zap.Logger) (func(), error) {
	tc := observability.DefaultTracingConfig()
	tc.Enabled = cfg.Observability.EnableTracing
	tc.ServiceVersion = version
	tc.SamplingRate = cfg.Observability.TracingSampleRate
	shutdownTracing, err := observability.InitTracing(tc)
	if err != nil {
		return nil, err
	}

	var srv *http.Server
	if cfg.Observability.EnableMetrics && cfg.Observability.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{
			Addr:              cfg.Observability.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", cfg.Observability.MetricsAddr))
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
		if srv != nil {
			_ = srv.Shutdown(ctx)
		}
	}, nil
}
