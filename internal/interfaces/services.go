package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/fundtrack/internal/models"
)

// SessionService owns the authentication token lifecycle and current-user
// identity.
type SessionService interface {
	TokenSource

	// Login authenticates and populates the current user
	Login(ctx context.Context, email, password string) error

	// Register creates an account then logs in with the same credentials
	Register(ctx context.Context, email, username, password string) error

	// Logout clears tokens and user state; idempotent
	Logout() error

	// FetchCurrentUser re-validates the token; on failure clears the session
	FetchCurrentUser(ctx context.Context) error

	// IsAuthenticated reports whether an access token is held
	IsAuthenticated() bool

	// User returns the current user, nil when not fetched
	User() *models.User

	// RefreshToken returns the stored refresh token (no refresh flow exists;
	// expiry means re-login)
	RefreshToken() string

	// TokenExpiry returns the access token's exp claim, zero when unknown
	TokenExpiry() time.Time
}

// PortfolioService is the cache-and-sync layer around the fund resource
// collections. Fetches replace caches wholesale; mutations re-fetch affected
// collections rather than patching locally.
type PortfolioService interface {
	FetchFunds(ctx context.Context) error
	FetchTransactions(ctx context.Context, fundCode string) error
	FetchProfitSummary(ctx context.Context) error
	FetchPlans(ctx context.Context) error

	// NavHistory is a pass-through query, never cached
	NavHistory(ctx context.Context, fundCode, startDate, endDate string) ([]*models.NavHistory, error)

	AddTransaction(ctx context.Context, create *models.TransactionCreate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID int64) error

	CreatePlan(ctx context.Context, create *models.PlanCreate) (*models.AutoInvestPlan, error)
	UpdatePlan(ctx context.Context, planID int64, update *models.PlanUpdate) (*models.AutoInvestPlan, error)
	DeletePlan(ctx context.Context, planID int64) error
	TogglePlan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error)

	FetchNav(ctx context.Context, fundCodes []string) error
	UpdatePending(ctx context.Context) error
	InitializeDatabase(ctx context.Context) error

	Funds() []*models.FundOverview
	Transactions() []*models.Transaction
	ProfitSummary() *models.ProfitSummary
	Plans() []*models.AutoInvestPlan
	Loading() bool
	LastError() string
}
