// Package fundapi provides a client for the fund-tracking API
package fundapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/interfaces"
	"github.com/bobmcallan/fundtrack/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the FundAPIClient interface
type Client struct {
	baseURL    string
	tokens     interfaces.TokenSource
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTokenSource sets the bearer-token source read on every request
func WithTokenSource(tokens interfaces.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new fund API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-2xx response from the fund API. Detail carries
// the server's "detail" field verbatim when present.
type APIError struct {
	StatusCode int
	Detail     string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fund API error: %s (status: %d, endpoint: %s)", e.Detail, e.StatusCode, e.Endpoint)
}

// IsAuthFailure reports whether the error means the session must
// re-authenticate.
func (e *APIError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorDetail is the body shape the API uses for failures.
type errorDetail struct {
	Detail string `json:"detail"`
}

// do performs a rate-limited JSON request. The bearer token, when present, is
// read fresh from the token source on every call. A nil result skips decoding.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	requestID := uuid.NewString()
	c.logger.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).Msg("Fund API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		detail := strings.TrimSpace(string(raw))
		var ed errorDetail
		if json.Unmarshal(raw, &ed) == nil && ed.Detail != "" {
			detail = ed.Detail
		}
		c.logger.Debug().Str("request_id", requestID).Int("status", resp.StatusCode).Msg("Fund API error response")
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     detail,
			Endpoint:   path,
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	var pair models.TokenPair
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", &req, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates a new account. The API asserts only the status code.
func (c *Client) Register(ctx context.Context, email, username, password string) error {
	req := models.RegisterRequest{Email: email, Username: username, Password: password}
	return c.do(ctx, http.MethodPost, "/auth/register", &req, nil)
}

// CurrentUser retrieves the account behind the current access token
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FundOverview retrieves all holdings aggregated per fund
func (c *Client) FundOverview(ctx context.Context) ([]*models.FundOverview, error) {
	var funds []*models.FundOverview
	if err := c.do(ctx, http.MethodGet, "/funds/overview", nil, &funds); err != nil {
		return nil, err
	}
	return funds, nil
}

// FundDetail retrieves a single fund's aggregated position
func (c *Client) FundDetail(ctx context.Context, fundCode string) (*models.FundOverview, error) {
	var fund models.FundOverview
	path := "/funds/overview/" + url.PathEscape(fundCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &fund); err != nil {
		return nil, err
	}
	return &fund, nil
}

// Transactions retrieves transaction records, optionally filtered by fund
// code and paged with limit/offset
func (c *Client) Transactions(ctx context.Context, query interfaces.TransactionQuery) ([]*models.Transaction, error) {
	params := url.Values{}
	if query.FundCode != "" {
		params.Set("fund_code", query.FundCode)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}

	path := "/funds/transactions"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var txns []*models.Transaction
	if err := c.do(ctx, http.MethodGet, path, nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// CreateTransaction records a new buy or sell
func (c *Client) CreateTransaction(ctx context.Context, create *models.TransactionCreate) (*models.Transaction, error) {
	var txn models.Transaction
	if err := c.do(ctx, http.MethodPost, "/funds/transactions", create, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction permanently
func (c *Client) DeleteTransaction(ctx context.Context, transactionID int64) error {
	path := fmt.Sprintf("/funds/transactions/%d", transactionID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// NavHistory retrieves a fund's NAV sequence. Empty date bounds are omitted.
func (c *Client) NavHistory(ctx context.Context, fundCode, startDate, endDate string) ([]*models.NavHistory, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}

	path := "/funds/nav-history/" + url.PathEscape(fundCode)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history []*models.NavHistory
	if err := c.do(ctx, http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ProfitSummary retrieves the portfolio-wide rollup
func (c *Client) ProfitSummary(ctx context.Context) (*models.ProfitSummary, error) {
	var summary models.ProfitSummary
	if err := c.do(ctx, http.MethodGet, "/funds/profit-summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type fetchNavRequest struct {
	FundCodes []string `json:"fund_codes,omitempty"`
}

// FetchNav asks the server to pull historical NAV data. With no fund codes
// the server refreshes every held fund.
func (c *Client) FetchNav(ctx context.Context, fundCodes []string) error {
	return c.do(ctx, http.MethodPost, "/funds/fetch-nav", &fetchNavRequest{FundCodes: fundCodes}, nil)
}

// UpdatePending asks the server to confirm pending transactions
func (c *Client) UpdatePending(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/funds/update-pending", nil, nil)
}

// InitializeDatabase provisions server-side storage for the account
func (c *Client) InitializeDatabase(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/funds/initialize-database", nil, nil)
}

// Plans retrieves all auto-invest plans
func (c *Client) Plans(ctx context.Context) ([]*models.AutoInvestPlan, error) {
	var plans []*models.AutoInvestPlan
	if err := c.do(ctx, http.MethodGet, "/auto-invest/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Plan retrieves a single auto-invest plan
func (c *Client) Plan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error) {
	var plan models.AutoInvestPlan
	path := fmt.Sprintf("/auto-invest/plans/%d", planID)
	if err := c.do(ctx, http.MethodGet, path, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreatePlan creates an auto-invest plan
func (c *Client) CreatePlan(ctx context.Context, create *models.PlanCreate) (*models.AutoInvestPlan, error) {
	var plan models.AutoInvestPlan
	if err := c.do(ctx, http.MethodPost, "/auto-invest/plans", create, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdatePlan applies a partial update to a plan
func (c *Client) UpdatePlan(ctx context.Context, planID int64, update *models.PlanUpdate) (*models.AutoInvestPlan, error) {
	var plan models.AutoInvestPlan
	path := fmt.Sprintf("/auto-invest/plans/%d", planID)
	if err := c.do(ctx, http.MethodPatch, path, update, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeletePlan removes a plan permanently
func (c *Client) DeletePlan(ctx context.Context, planID int64) error {
	path := fmt.Sprintf("/auto-invest/plans/%d", planID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// TogglePlan flips a plan's enabled flag
func (c *Client) TogglePlan(ctx context.Context, planID int64) (*models.AutoInvestPlan, error) {
	var plan models.AutoInvestPlan
	path := fmt.Sprintf("/auto-invest/plans/%d/toggle", planID)
	if err := c.do(ctx, http.MethodPost, path, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Ensure Client implements FundAPIClient
var _ interfaces.FundAPIClient = (*Client)(nil)
