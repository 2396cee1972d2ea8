// Package tokenstore implements durable storage for the session token pair.
// The session service is the only writer; the API client reads through the
// session's TokenSource.
package tokenstore

import (
	"fmt"
	"os"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/interfaces"
)

// tokenKey is the single record key; one token pair per store.
const tokenKey = "session"

// tokenRecord is the persisted shape.
type tokenRecord struct {
	AccessToken  string
	RefreshToken string
}

// Badger is a BadgerHold-backed TokenStore surviving process restarts.
type Badger struct {
	db     *badgerhold.Store
	logger *common.Logger
	mu     sync.Mutex
}

// NewBadger opens (creating if needed) a token store at path.
func NewBadger(logger *common.Logger, path string) (*Badger, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create token store path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store at %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("Token store opened")
	return &Badger{db: db, logger: logger}, nil
}

func (s *Badger) Tokens() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec tokenRecord
	if err := s.db.Get(tokenKey, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", "", nil
		}
		return "", "", fmt.Errorf("failed to read tokens: %w", err)
	}
	return rec.AccessToken, rec.RefreshToken, nil
}

func (s *Badger) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := tokenRecord{AccessToken: accessToken, RefreshToken: refreshToken}
	if err := s.db.Upsert(tokenKey, &rec); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	return nil
}

func (s *Badger) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Delete(tokenKey, &tokenRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (s *Badger) Close() error {
	return s.db.Close()
}

var _ interfaces.TokenStore = (*Badger)(nil)
