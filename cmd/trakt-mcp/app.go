package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trakt-mcp/internal/auth"
	"github.com/fyrsmithlabs/trakt-mcp/internal/config"
	"github.com/fyrsmithlabs/trakt-mcp/internal/errhandler"
	"github.com/fyrsmithlabs/trakt-mcp/internal/logging"
	"github.com/fyrsmithlabs/trakt-mcp/internal/mcp"
	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
	"github.com/fyrsmithlabs/trakt-mcp/internal/telemetry"
	"github.com/fyrsmithlabs/trakt-mcp/internal/trakt"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	tokens *trakt.TokenStore
	client *trakt.Client
	flow   *auth.Flow
}

// newApp wires dependencies in order:
//  1. configuration
//  2. logger and telemetry
//  3. token store and error handling
//  4. Trakt client and device flow
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.NewDefaultConfig()
	if err := cfg.Section("logging", logCfg); err != nil {
		return nil, err
	}
	telCfg := telemetry.NewDefaultConfig()
	telCfg.ServiceVersion = version
	if err := cfg.Section("telemetry", telCfg); err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	tel, err := telemetry.New(ctx, telCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if logCfg.Output.OTEL {
		logger, err = logging.NewLogger(logCfg, tel.LoggerProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	if err := config.EnsureDir(); err != nil {
		return nil, err
	}
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return nil, err
	}
	tokens, err := trakt.NewTokenStore(tokenPath)
	if err != nil {
		return nil, err
	}

	classifier := errhandler.NewClassifier(logger,
		errhandler.WithScrubber(sanitize.NewScrubber()),
		errhandler.WithAuthURL(cfg.Trakt.AuthURL),
	)
	errs := errhandler.NewHandler(classifier, logger)

	client, err := trakt.NewClient(trakt.Config{
		BaseURL:      cfg.Trakt.BaseURL,
		APIVersion:   cfg.Trakt.APIVersion,
		ClientID:     cfg.Trakt.ClientID,
		ClientSecret: cfg.Trakt.ClientSecret.Value(),
		Timeout:      cfg.Trakt.Timeout.Duration(),
		AuthURL:      cfg.Trakt.AuthURL,
	}, tokens, errs, logger, trakt.WithTracerProvider(tel.TracerProvider()))
	if err != nil {
		return nil, fmt.Errorf("failed to create trakt client: %w", err)
	}

	flow := auth.NewFlow(client, tokens, logger, auth.WithVerificationURL(cfg.Trakt.AuthURL))

	logger.Debug(ctx, "dependencies initialized",
		zap.String("base_url", cfg.Trakt.BaseURL),
		zap.String("client_id", cfg.Trakt.ClientID),
		logging.Secret("client_secret", cfg.Trakt.ClientSecret),
		zap.String("token_file", tokens.Path()),
		zap.Bool("telemetry_enabled", tel.IsEnabled()),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		tel:    tel,
		tokens: tokens,
		client: client,
		flow:   flow,
	}, nil
}

// newMCPServer registers every tool and resource against the app's client.
func (a *app) newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Config{
		Name:    "trakt-mcp",
		Version: version,
		Logger:  a.logger,
		Metrics: mcp.NewMetricsWithMeter(a.tel.Meter("github.com/fyrsmithlabs/trakt-mcp/internal/mcp"), a.logger),
	}, a.client, a.flow)
}

// Close flushes telemetry and the logger.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if err := a.tel.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.logger.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
