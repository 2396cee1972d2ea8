package interfaces

// TokenStore is the durable home of the session token pair. Only the session
// service writes to it; the API client reads indirectly through the session's
// TokenSource. Implementations must make Clear idempotent.
type TokenStore interface {
	// Tokens returns the stored pair, empty strings when absent
	Tokens() (accessToken, refreshToken string, err error)

	// SetTokens replaces the stored pair
	SetTokens(accessToken, refreshToken string) error

	// Clear removes the stored pair; safe to call when already empty
	Clear() error

	// Close releases the underlying storage
	Close() error
}
