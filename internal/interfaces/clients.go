// Package interfaces defines service contracts for Fundtrack
package interfaces

import (
	"context"

	"github.com/bobmcallan/fundtrack/internal/models"
)

// FundAPIClient provides access to the remote fund-tracking API. All
// authenticated calls attach the current bearer token from the configured
// TokenSource; the client never mutates session state itself.
type FundAPIClient interface {
	// Login exchanges credentials for a token pair
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)

	// Register creates a new account (no authenticated side effect)
	Register(ctx context.Context, email, username, password string) error

	// CurrentUser retrieves the account behind the current access token
	CurrentUser(ctx context.Context) (*models.User, error)

	// FundOverview retrieves all holdings aggregated per fund
	FundOverview(ctx context.Context) ([]*models.FundOverview, error)

	// FundDetail retrieves a single fund's aggregated position
	FundDetail(ctx context.Context, fundCode string) (*models.FundOverview, error)

	// Transactions retrieves transaction records, optionally filtered
	Transactions(ctx context.Context, query TransactionQuery) ([]*models.Transaction, error)

	// CreateTransaction records a new buy or sell
	CreateTransaction(ctx context.Context, create *models.TransactionCreate) (*models.Transaction, error)

	// DeleteTransaction removes a transaction permanently
	DeleteTransaction(ctx context.Context, transactionID int64) error

	// NavHistory retrieves a fund's NAV sequence for an optional date range
	NavHistory(ctx context.Context, fundCode, startDate, endDate string) ([]*models.NavHistory, error)

	// ProfitSummary retrieves the portfolio-wide rollup
	ProfitSummary(ctx context.Context) (*models.ProfitSummary, error)

	// FetchNav asks the server to pull historical NAV data
	FetchNav(ctx context.Context, fundCodes []string) error

	// UpdatePending asks the server to confirm pending transactions
	UpdatePending(ctx context.Context) error

	// InitializeDatabase provisions server-side storage for the account
	InitializeDatabase(ctx context.Context) error

	// Plans retrieves all auto-invest plans
	Plans(ctx context.Context) ([]*models.AutoInvestPlan, error)

	// Plan retrieves a single auto-invest plan
	Plan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error)

	// CreatePlan creates an auto-invest plan
	CreatePlan(ctx context.Context, create *models.PlanCreate) (*models.AutoInvestPlan, error)

	// UpdatePlan applies a partial update to a plan
	UpdatePlan(ctx context.Context, planID int64, update *models.PlanUpdate) (*models.AutoInvestPlan, error)

	// DeletePlan removes a plan permanently
	DeletePlan(ctx context.Context, planID int64) error

	// TogglePlan flips a plan's enabled flag
	TogglePlan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error)
}

// TransactionQuery filters and pages a transaction listing.
type TransactionQuery struct {
	FundCode string
	Limit    int
	Offset   int
}

// TokenSource is a read-only view of the current access token, read by the
// API client on every outgoing request. An empty string means no credential
// is attached.
type TokenSource interface {
	AccessToken() string
}
