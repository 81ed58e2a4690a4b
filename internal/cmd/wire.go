package cmd

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/regosbridge/regosbridge/internal/config"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/observability"
	"github.com/regosbridge/regosbridge/internal/regos"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
	"github.com/regosbridge/regosbridge/internal/store"
)

// app bundles the wired services a command needs.
type app struct {
	cfg        *config.Config
	client     *regos.Client
	reports    *reports.Service
	translator *i18n.Translator
	store      *store.Store
}

func (a *app) close() {
	if a != nil && a.store != nil {
		_ = a.store.Close()
	}
}

// buildApp wires the dispatcher, report service, translator and store from
// the loaded configuration. The store is optional for CLI runs: failures
// are logged and the request log is skipped.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	client, err := regos.NewClient(cfg.Gateway.BaseURL, regos.Limits{
		Rate:     cfg.Gateway.Rate,
		Capacity: cfg.Gateway.Capacity,
	})
	if err != nil {
		return nil, err
	}
	client.Timeout = cfg.Gateway.Timeout
	client.MaxAttempts = cfg.Gateway.MaxAttempts
	client.RetryDelay = cfg.Gateway.RetryDelay
	client.Logger = observability.CLILogger

	translator, err := i18n.NewTranslator()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		client:     client,
		reports:    reports.NewService(client),
		translator: translator,
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		observability.CLILogger.Warn("Request log store unavailable", zap.Error(err))
		return a, nil
	}
	if err := st.Migrate(ctx); err != nil {
		observability.CLILogger.Warn("Request log migration failed", zap.Error(err))
		_ = st.Close()
		return a, nil
	}
	a.store = st
	client.Recorder = st
	return a, nil
}

// resolveCredential picks the credential flag when given, falling back to
// the configured default.
func resolveCredential(flagValue string, cfg *config.Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.Gateway.Credential)
}
