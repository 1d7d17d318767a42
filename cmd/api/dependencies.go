package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
	"github.com/eric1207cvb/expense-capture/internal/domain/capture/gemini"
	capturehandler "github.com/eric1207cvb/expense-capture/internal/domain/capture/handler"
	"github.com/eric1207cvb/expense-capture/pkg/config"
	"github.com/eric1207cvb/expense-capture/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// Services
	Parser         *capture.Parser
	CaptureService *capture.Service
	Metrics        *metrics.Capture

	// Handlers
	CaptureHandler *capturehandler.CaptureHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initServices initializes the parser, the optional model path and metrics
func (d *Dependencies) initServices(ctx context.Context) error {
	d.Parser = capture.NewParser(capture.Options{
		Location: d.Config.Capture.Location,
	})

	d.Metrics = metrics.NewCapture(d.Registry)
	d.CaptureService = capture.NewService(d.Parser, d.Logger).WithMetrics(d.Metrics)

	if d.Config.Capture.ModelEnabled {
		extractor, err := gemini.NewFromAPIKey(ctx, d.Config.Gemini.APIKey, d.Config.Gemini.Model, d.Logger)
		if err != nil {
			return err
		}
		d.CaptureService.WithModel(extractor, d.Config.Capture.ModelTimeout)
		d.Logger.Info("model extraction enabled", slog.String("model", d.Config.Gemini.Model))
	}

	d.Logger.Info("services initialized",
		slog.String("timezone", d.Config.Capture.Location.String()),
	)
	return nil
}

// initHandlers initializes all HTTP handlers
func (d *Dependencies) initHandlers() {
	d.CaptureHandler = capturehandler.NewCaptureHandler(d.CaptureService, d.Logger)
	d.Logger.Info("handlers initialized")
}
