package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/fundtrack/internal/interfaces"
	"github.com/bobmcallan/fundtrack/internal/models"
)

// mockFundAPI implements FundAPIClient for testing. Collections are served
// from the struct fields; Err makes every call fail; hooks allow tests to
// interleave concurrent fetches deterministically.
type mockFundAPI struct {
	mu sync.Mutex

	Funds              []*models.FundOverview
	Txns               []*models.Transaction
	Summary            *models.ProfitSummary
	SummaryAfterDelete *models.ProfitSummary
	PlanList           []*models.AutoInvestPlan
	History            []*models.NavHistory
	Err                error
	nextTxnID    int64
	nextPlanID   int64
	OverviewHook func()
	TxnHook      func(q interfaces.TransactionQuery)

	OverviewCalls int
	TxnCalls      int
	SummaryCalls  int
	PlanCalls     int
}

func newMockFundAPI() *mockFundAPI {
	return &mockFundAPI{nextTxnID: 1000, nextPlanID: 100}
}

func (m *mockFundAPI) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	return &models.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"}, nil
}

func (m *mockFundAPI) Register(ctx context.Context, email, username, password string) error {
	return nil
}

func (m *mockFundAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	return &models.User{ID: 1, Email: "a@b.com", Username: "abc"}, nil
}

func (m *mockFundAPI) FundOverview(ctx context.Context) ([]*models.FundOverview, error) {
	m.mu.Lock()
	m.OverviewCalls++
	hook := m.OverviewHook
	funds, err := m.Funds, m.Err
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return funds, nil
}

func (m *mockFundAPI) FundDetail(ctx context.Context, fundCode string) (*models.FundOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, f := range m.Funds {
		if f.FundCode == fundCode {
			return f, nil
		}
	}
	return nil, fmt.Errorf("fund %s not found", fundCode)
}

func (m *mockFundAPI) Transactions(ctx context.Context, query interfaces.TransactionQuery) ([]*models.Transaction, error) {
	m.mu.Lock()
	m.TxnCalls++
	hook := m.TxnHook
	txns, err := m.Txns, m.Err
	m.mu.Unlock()
	if hook != nil {
		hook(query)
	}
	if err != nil {
		return nil, err
	}
	if query.FundCode == "" {
		return txns, nil
	}
	var filtered []*models.Transaction
	for _, t := range txns {
		if t.FundCode == query.FundCode {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (m *mockFundAPI) CreateTransaction(ctx context.Context, create *models.TransactionCreate) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.nextTxnID++
	txn := &models.Transaction{
		TransactionID:   m.nextTxnID,
		FundCode:        create.FundCode,
		FundName:        create.FundName,
		TransactionDate: create.TransactionDate,
		TransactionType: create.TransactionType,
		Amount:          create.Amount,
	}
	m.Txns = append(m.Txns, txn)
	return txn, nil
}

func (m *mockFundAPI) DeleteTransaction(ctx context.Context, transactionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.Txns[:0]
	for _, t := range m.Txns {
		if t.TransactionID != transactionID {
			kept = append(kept, t)
		}
	}
	m.Txns = kept
	// Server recomputes the rollup on delete
	if m.SummaryAfterDelete != nil {
		m.Summary = m.SummaryAfterDelete
	}
	return nil
}

func (m *mockFundAPI) NavHistory(ctx context.Context, fundCode, startDate, endDate string) ([]*models.NavHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.History, nil
}

func (m *mockFundAPI) ProfitSummary(ctx context.Context) (*models.ProfitSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summary, nil
}

func (m *mockFundAPI) FetchNav(ctx context.Context, fundCodes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *mockFundAPI) UpdatePending(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *mockFundAPI) InitializeDatabase(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *mockFundAPI) Plans(ctx context.Context) ([]*models.AutoInvestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlanCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PlanList, nil
}

func (m *mockFundAPI) Plan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.PlanList {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("plan %d not found", planID)
}

func (m *mockFundAPI) CreatePlan(ctx context.Context, create *models.PlanCreate) (*models.AutoInvestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.nextPlanID++
	plan := &models.AutoInvestPlan{
		PlanID:    m.nextPlanID,
		PlanName:  create.PlanName,
		FundCode:  create.FundCode,
		FundName:  create.FundName,
		Amount:    create.Amount,
		Frequency: create.Frequency,
		StartDate: create.StartDate,
		EndDate:   create.EndDate,
		Enabled:   create.Enabled,
	}
	m.PlanList = append(m.PlanList, plan)
	return plan, nil
}

func (m *mockFundAPI) UpdatePlan(ctx context.Context, planID int64, update *models.PlanUpdate) (*models.AutoInvestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.PlanList {
		if p.PlanID == planID {
			if update.PlanName != nil {
				p.PlanName = *update.PlanName
			}
			if update.Amount != nil {
				p.Amount = *update.Amount
			}
			if update.Frequency != nil {
				p.Frequency = *update.Frequency
			}
			if update.Enabled != nil {
				p.Enabled = *update.Enabled
			}
			return p, nil
		}
	}
	return nil, fmt.Errorf("plan %d not found", planID)
}

func (m *mockFundAPI) DeletePlan(ctx context.Context, planID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.PlanList[:0]
	for _, p := range m.PlanList {
		if p.PlanID != planID {
			kept = append(kept, p)
		}
	}
	m.PlanList = kept
	return nil
}

func (m *mockFundAPI) TogglePlan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.PlanList {
		if p.PlanID == planID {
			p.Enabled = !p.Enabled
			return p, nil
		}
	}
	return nil, fmt.Errorf("plan %d not found", planID)
}

var _ interfaces.FundAPIClient = (*mockFundAPI)(nil)
