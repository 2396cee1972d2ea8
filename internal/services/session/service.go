// Package session owns the authentication token lifecycle and current-user
// identity.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/interfaces"
	"github.com/bobmcallan/fundtrack/internal/models"
)

// Compile-time interface check
var _ interfaces.SessionService = (*Service)(nil)

// Service implements SessionService. State transitions happen under the lock
// after the awaited response returns; the network call itself runs unlocked.
type Service struct {
	api    interfaces.FundAPIClient
	tokens interfaces.TokenStore
	logger *common.Logger

	mu            sync.Mutex
	user          *models.User
	access        string
	refresh       string
	authenticated bool
}

// NewService creates a session service. The initial state is Authenticated
// when the token store already holds an access token; the token is not
// validated until the first authenticated request proves it.
func NewService(api interfaces.FundAPIClient, tokens interfaces.TokenStore, logger *common.Logger) *Service {
	s := &Service{
		api:    api,
		tokens: tokens,
		logger: logger,
	}

	access, refresh, err := tokens.Tokens()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to restore session tokens")
		return s
	}
	s.access = access
	s.refresh = refresh
	s.authenticated = access != ""
	if s.authenticated {
		logger.Debug().Msg("Session restored from token store")
	}
	return s
}

// Login authenticates against /auth/login, persists the token pair, then
// populates the current user from /auth/me. On any failure the previous
// state is restored and the error returned.
func (s *Service) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return models.NewValidationError("credentials", "email and password are required")
	}

	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.access = pair.AccessToken
	s.refresh = pair.RefreshToken
	s.mu.Unlock()

	if err := s.tokens.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		s.clear()
		return fmt.Errorf("failed to persist tokens: %w", err)
	}

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		// A token /auth/me just rejected must not present valid-looking
		// state, in memory or in durable storage
		if clearErr := s.Logout(); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session after login fetch failure")
		}
		return fmt.Errorf("failed to fetch user after login: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.logger.Info().Str("email", email).Msg("Login succeeded")
	return nil
}

// Register creates the account then immediately logs in with the same
// credentials. Registration has no authenticated side effect of its own; if
// the follow-up login fails its error is surfaced.
func (s *Service) Register(ctx context.Context, email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return models.NewValidationError("registration", "email, username and password are required")
	}

	if err := s.api.Register(ctx, email, username, password); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Str("username", username).Msg("Account registered")
	return s.Login(ctx, email, password)
}

// Logout clears the token pair and user state. Idempotent.
func (s *Service) Logout() error {
	s.clear()
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	s.logger.Debug().Msg("Session cleared")
	return nil
}

// FetchCurrentUser re-validates the current token against /auth/me. A
// failure means the token is stale or invalid and the session is cleared as
// if logout had been called.
func (s *Service) FetchCurrentUser(ctx context.Context) error {
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Token validation failed, clearing session")
		if clearErr := s.Logout(); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session after auth failure")
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// clear resets in-memory state without touching durable storage.
func (s *Service) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.access = ""
	s.refresh = ""
	s.authenticated = false
}

// AccessToken implements interfaces.TokenSource for the API client.
func (s *Service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// RefreshToken returns the stored refresh token. No refresh flow exists;
// access-token expiry means re-login.
func (s *Service) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// IsAuthenticated reports whether an access token is held.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// User returns the current user, nil when not fetched.
func (s *Service) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// TokenExpiry returns the access token's exp claim without verifying the
// signature (the server owns validation; this is introspection only).
// Zero time when the token is absent or opaque.
func (s *Service) TokenExpiry() time.Time {
	s.mu.Lock()
	token := s.access
	s.mu.Unlock()

	if token == "" {
		return time.Time{}
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
