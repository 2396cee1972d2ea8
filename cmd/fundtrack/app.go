package main

import (
	"fmt"
	"os"

	"github.com/bobmcallan/fundtrack/internal/clients/fundapi"
	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/services/portfolio"
	"github.com/bobmcallan/fundtrack/internal/services/session"
	"github.com/bobmcallan/fundtrack/internal/storage/tokenstore"
)

// app wires the config, token store, API client and services for one command
// invocation.
type app struct {
	Config    *common.Config
	Logger    *common.Logger
	Session   *session.Service
	Portfolio *portfolio.Service

	tokens *tokenstore.Badger
}

// sessionTokenSource lets the API client read the session's access token even
// though the session is constructed after the client.
type sessionTokenSource struct {
	s *session.Service
}

func (t *sessionTokenSource) AccessToken() string {
	if t.s == nil {
		return ""
	}
	return t.s.AccessToken()
}

// newApp builds the command wiring from FUNDTRACK_CONFIG (or ./fundtrack.toml)
// plus environment overrides.
func newApp() (*app, error) {
	cfg, err := common.LoadConfig(os.Getenv("FUNDTRACK_CONFIG"), "fundtrack.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(cfg.Logging.Level)

	tokens, err := tokenstore.NewBadger(logger, cfg.Storage.Tokens.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	source := &sessionTokenSource{}
	api := fundapi.NewClient(
		fundapi.WithBaseURL(cfg.API.BaseURL),
		fundapi.WithTimeout(cfg.API.GetTimeout()),
		fundapi.WithRateLimit(cfg.API.RateLimit),
		fundapi.WithTokenSource(source),
		fundapi.WithLogger(logger),
	)

	sess := session.NewService(api, tokens, logger)
	source.s = sess

	return &app{
		Config:    cfg,
		Logger:    logger,
		Session:   sess,
		Portfolio: portfolio.NewService(api, logger),
		tokens:    tokens,
	}, nil
}

func (a *app) Close() {
	if err := a.tokens.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close token store")
	}
}

// requireAuth fails fast for commands that need a session.
func (a *app) requireAuth() error {
	if !a.Session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'fundtrack login' first")
	}
	return nil
}
