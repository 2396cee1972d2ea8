package tokenstore

import (
	"sync"

	"github.com/bobmcallan/fundtrack/internal/interfaces"
)

// Memory is an in-memory TokenStore for tests and ephemeral sessions.
type Memory struct {
	mu      sync.Mutex
	access  string
	refresh string

	// SetCalls and ClearCalls count writes, letting tests assert on
	// durable-storage side effects.
	SetCalls   int
	ClearCalls int
}

// NewMemory creates an empty in-memory token store.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Tokens() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh, nil
}

func (s *Memory) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	s.refresh = refreshToken
	s.SetCalls++
	return nil
}

func (s *Memory) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.ClearCalls++
	return nil
}

func (s *Memory) Close() error {
	return nil
}

var _ interfaces.TokenStore = (*Memory)(nil)
