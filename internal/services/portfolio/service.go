// Package portfolio provides the cache-and-sync layer around the fund
// resource collections.
package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/interfaces"
	"github.com/bobmcallan/fundtrack/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// resource identifies a cached collection for the generation guard.
type resource int

const (
	resFunds resource = iota
	resTransactions
	resSummary
	resPlans
	resourceCount
)

// Service implements PortfolioService. Every fetch replaces its cached
// collection wholesale; on failure the previous cache stays (stale but
// present). Mutations never patch the cache locally — each triggers a
// re-fetch so server-computed derived fields win.
type Service struct {
	api    interfaces.FundAPIClient
	logger *common.Logger

	mu           sync.Mutex
	funds        []*models.FundOverview
	transactions []*models.Transaction
	summary      *models.ProfitSummary
	plans        []*models.AutoInvestPlan
	loading      int
	lastErr      string

	// Per-resource request generations. A fetch takes the next generation
	// before its network call and only the fetch holding the latest started
	// generation may write the cache, so a slow stale response never
	// overwrites a newer one.
	gen [resourceCount]uint64
}

// NewService creates a portfolio service.
func NewService(api interfaces.FundAPIClient, logger *common.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// begin marks a fetch started: loading set, error cleared, generation taken.
func (s *Service) begin(r resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading++
	s.lastErr = ""
	s.gen[r]++
	return s.gen[r]
}

// current reports whether gen is still the latest started generation for r.
func (s *Service) current(r resource, gen uint64) bool {
	return s.gen[r] == gen
}

// fail records the error and clears loading, leaving the cache intact.
func (s *Service) fail(msg string, err error) error {
	s.mu.Lock()
	s.loading--
	s.lastErr = msg
	s.mu.Unlock()
	s.logger.Warn().Err(err).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}

// FetchFunds replaces the holdings cache from /funds/overview.
func (s *Service) FetchFunds(ctx context.Context) error {
	gen := s.begin(resFunds)

	funds, err := s.api.FundOverview(ctx)
	if err != nil {
		return s.fail("failed to fetch fund overview", err)
	}

	s.mu.Lock()
	if s.current(resFunds, gen) {
		s.funds = funds
	}
	s.loading--
	s.mu.Unlock()
	return nil
}

// FetchTransactions replaces the transaction cache, optionally filtered by
// fund code. Replace, never merge: the cached list always equals exactly the
// last payload written.
func (s *Service) FetchTransactions(ctx context.Context, fundCode string) error {
	gen := s.begin(resTransactions)

	txns, err := s.api.Transactions(ctx, interfaces.TransactionQuery{FundCode: fundCode})
	if err != nil {
		return s.fail("failed to fetch transactions", err)
	}

	s.mu.Lock()
	if s.current(resTransactions, gen) {
		s.transactions = txns
	}
	s.loading--
	s.mu.Unlock()
	return nil
}

// FetchProfitSummary replaces the cached portfolio rollup.
func (s *Service) FetchProfitSummary(ctx context.Context) error {
	gen := s.begin(resSummary)

	summary, err := s.api.ProfitSummary(ctx)
	if err != nil {
		return s.fail("failed to fetch profit summary", err)
	}

	s.mu.Lock()
	if s.current(resSummary, gen) {
		s.summary = summary
	}
	s.loading--
	s.mu.Unlock()
	return nil
}

// FetchPlans replaces the auto-invest plan cache.
func (s *Service) FetchPlans(ctx context.Context) error {
	gen := s.begin(resPlans)

	plans, err := s.api.Plans(ctx)
	if err != nil {
		return s.fail("failed to fetch auto-invest plans", err)
	}

	s.mu.Lock()
	if s.current(resPlans, gen) {
		s.plans = plans
	}
	s.loading--
	s.mu.Unlock()
	return nil
}

// NavHistory is a pass-through query used transiently by callers; the result
// is never cached.
func (s *Service) NavHistory(ctx context.Context, fundCode, startDate, endDate string) ([]*models.NavHistory, error) {
	history, err := s.api.NavHistory(ctx, fundCode, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nav history for %s: %w", fundCode, err)
	}
	return history, nil
}

// AddTransaction records a transaction then re-fetches transactions, funds
// and the summary so server-computed shares/NAV figures land in the cache.
func (s *Service) AddTransaction(ctx context.Context, create *models.TransactionCreate) (*models.Transaction, error) {
	if create.FundCode == "" {
		return nil, models.NewValidationError("fund_code", "fund code is required")
	}
	if create.TransactionType != models.TransactionTypeBuy && create.TransactionType != models.TransactionTypeSell {
		return nil, models.NewValidationError("transaction_type", "must be buy or sell")
	}

	txn, err := s.api.CreateTransaction(ctx, create)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("fund", create.FundCode).Str("type", create.TransactionType).Msg("Transaction recorded")
	s.refreshAfterTransactionWrite(ctx, create.FundCode)
	return txn, nil
}

// DeleteTransaction removes a transaction then re-fetches the affected
// collections.
func (s *Service) DeleteTransaction(ctx context.Context, transactionID int64) error {
	if err := s.api.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}

	s.logger.Info().Int64("transaction_id", transactionID).Msg("Transaction deleted")
	s.refreshAfterTransactionWrite(ctx, "")
	return nil
}

// refreshAfterTransactionWrite re-fetches everything a transaction write can
// change. Fetch failures here leave stale caches, already logged by the
// individual fetches.
func (s *Service) refreshAfterTransactionWrite(ctx context.Context, fundCode string) {
	_ = s.FetchTransactions(ctx, fundCode)
	_ = s.FetchFunds(ctx)
	_ = s.FetchProfitSummary(ctx)
}

// CreatePlan creates an auto-invest plan then re-fetches the plan list.
func (s *Service) CreatePlan(ctx context.Context, create *models.PlanCreate) (*models.AutoInvestPlan, error) {
	if !create.Frequency.Valid() {
		return nil, models.NewValidationError("frequency", "must be daily, weekly or monthly")
	}

	plan, err := s.api.CreatePlan(ctx, create)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("plan", create.PlanName).Msg("Auto-invest plan created")
	_ = s.FetchPlans(ctx)
	return plan, nil
}

// UpdatePlan applies a partial update then re-fetches the plan list.
func (s *Service) UpdatePlan(ctx context.Context, planID int64, update *models.PlanUpdate) (*models.AutoInvestPlan, error) {
	if update.Frequency != nil && !update.Frequency.Valid() {
		return nil, models.NewValidationError("frequency", "must be daily, weekly or monthly")
	}

	plan, err := s.api.UpdatePlan(ctx, planID, update)
	if err != nil {
		return nil, err
	}

	_ = s.FetchPlans(ctx)
	return plan, nil
}

// DeletePlan removes a plan then re-fetches the plan list.
func (s *Service) DeletePlan(ctx context.Context, planID int64) error {
	if err := s.api.DeletePlan(ctx, planID); err != nil {
		return err
	}

	s.logger.Info().Int64("plan_id", planID).Msg("Auto-invest plan deleted")
	_ = s.FetchPlans(ctx)
	return nil
}

// TogglePlan flips a plan's enabled flag then re-fetches the plan list.
func (s *Service) TogglePlan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error) {
	plan, err := s.api.TogglePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	_ = s.FetchPlans(ctx)
	return plan, nil
}

// FetchNav asks the server to pull historical NAV data.
func (s *Service) FetchNav(ctx context.Context, fundCodes []string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.FetchNav(ctx, fundCodes); err != nil {
		s.recordError("failed to fetch historical NAV data")
		return err
	}
	return nil
}

// UpdatePending asks the server to confirm pending transactions.
func (s *Service) UpdatePending(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.UpdatePending(ctx); err != nil {
		s.recordError("failed to update pending transactions")
		return err
	}
	return nil
}

// InitializeDatabase provisions server-side storage for the account.
func (s *Service) InitializeDatabase(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.InitializeDatabase(ctx); err != nil {
		s.recordError("failed to initialize database")
		return err
	}
	return nil
}

func (s *Service) setLoading(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.loading++
		s.lastErr = ""
	} else {
		s.loading--
	}
}

func (s *Service) recordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

// Funds returns a copy of the cached holdings.
func (s *Service) Funds() []*models.FundOverview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.FundOverview, len(s.funds))
	copy(out, s.funds)
	return out
}

// Transactions returns a copy of the cached transaction list.
func (s *Service) Transactions() []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// ProfitSummary returns the cached rollup, nil before the first fetch.
func (s *Service) ProfitSummary() *models.ProfitSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Plans returns a copy of the cached auto-invest plans.
func (s *Service) Plans() []*models.AutoInvestPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.AutoInvestPlan, len(s.plans))
	copy(out, s.plans)
	return out
}

// Loading reports whether any store operation is in flight.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// LastError returns the most recent fetch failure message, empty after a
// successful fetch begins.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
