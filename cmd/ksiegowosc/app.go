package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
	"github.com/kevin07696/ksiegowosc-client/internal/adapters/secrets"
	"github.com/kevin07696/ksiegowosc-client/internal/config"
	pkghttp "github.com/kevin07696/ksiegowosc-client/pkg/http"
	"github.com/kevin07696/ksiegowosc-client/pkg/logging"
	"github.com/kevin07696/ksiegowosc-client/pkg/observability"
)

// app is everything a command needs to talk to the API
type app struct {
	cfg           *config.Config
	auth          ksiegowosc.AuthConfig
	client        *ksiegowosc.Client
	logger        *logging.Adapter
	render        renderer
	out           io.Writer
	metricsServer *http.Server
}

// loadConfig reads configuration and builds the logger without touching
// credentials
func loadConfig(opts *rootOptions) (*config.Config, *logging.Adapter, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}

	logger := logging.NewAdapter(logging.NewZapLogger(cfg.LogLevel, cfg.LogDevelopment))
	return cfg, logger, nil
}

// loadAuth resolves the API credentials from the configured source
func loadAuth(ctx context.Context, cfg *config.Config, logger ports.Logger) (ksiegowosc.AuthConfig, error) {
	source, idName, keyName, err := initSecretSource(ctx, cfg, logger)
	if err != nil {
		return ksiegowosc.AuthConfig{}, fmt.Errorf("init credential source: %w", err)
	}
	return secrets.LoadAuth(ctx, source, idName, keyName)
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	render, err := newRenderer(opts.output)
	if err != nil {
		return nil, err
	}

	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	auth, err := loadAuth(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		auth:   auth,
		logger: logger,
		render: render,
		out:    cmd.OutOrStdout(),
	}

	var clientOpts []ksiegowosc.Option
	if cfg.RateLimitRPS > 0 {
		clientOpts = append(clientOpts, ksiegowosc.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
	}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		clientOpts = append(clientOpts, ksiegowosc.WithMetrics(observability.NewClientMetrics(reg)))

		server, errCh := observability.StartMetricsServer(cfg.MetricsAddr, reg)
		a.metricsServer = server
		go func() {
			for err := range errCh {
				logger.Error("metrics server failed", ports.Err(err))
			}
		}()
		logger.Info("serving metrics", ports.String("addr", cfg.MetricsAddr))
	}

	httpClient := pkghttp.NewHTTPClient(pkghttp.ConfigForPreset(cfg.HTTPPreset), 0)
	a.client = ksiegowosc.NewClient(auth, &ksiegowosc.ClientConfig{BaseURL: cfg.BaseURL}, httpClient, logger, clientOpts...)

	return a, nil
}

// print renders v in the selected output format
func (a *app) print(v interface{}) error {
	return a.render(a.out, v)
}

// close stops the metrics server and flushes the logger
func (a *app) close() {
	if a.metricsServer != nil {
		if err := observability.ShutdownMetricsServer(a.metricsServer); err != nil {
			a.logger.Warn("metrics server shutdown failed", ports.Err(err))
		}
	}
	_ = a.logger.Sync()
}

// withApp builds the app for the duration of fn
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
