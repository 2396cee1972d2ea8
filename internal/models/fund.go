package models

import "time"

// Transaction types accepted by the funds API.
const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// FundOverview is a per-fund position aggregated server-side from all of the
// user's transactions in that fund. The client treats every field as
// read-only; derived figures (profit, profit_rate) are never recomputed
// locally except for summary-level totals.
type FundOverview struct {
	FundCode            string  `json:"fund_code"`
	FundName            string  `json:"fund_name"`
	TotalShares         float64 `json:"total_shares"`
	TotalCost           float64 `json:"total_cost"`
	AverageBuyNav       float64 `json:"average_buy_nav"`
	CurrentNav          float64 `json:"current_nav"`
	CurrentValue        float64 `json:"current_value"`
	Profit              float64 `json:"profit"`
	ProfitRate          float64 `json:"profit_rate"`
	FirstBuyDate        *string `json:"first_buy_date"`
	LastTransactionDate *string `json:"last_transaction_date"`
	LastNavDate         *string `json:"last_nav_date"`
	DailyGrowthRate     float64 `json:"daily_growth_rate"`
}

// Transaction is a single buy or sell record. Immutable once created except
// by explicit delete.
type Transaction struct {
	TransactionID   int64     `json:"transaction_id"`
	FundCode        string    `json:"fund_code"`
	FundName        string    `json:"fund_name"`
	TransactionDate string    `json:"transaction_date"`
	NavDate         *string   `json:"nav_date"`
	TransactionType string    `json:"transaction_type"`
	TargetAmount    *float64  `json:"target_amount"`
	Shares          *float64  `json:"shares"`
	UnitNav         *float64  `json:"unit_nav"`
	Amount          float64   `json:"amount"`
	Note            *string   `json:"note"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionCreate is the POST /funds/transactions payload. Shares and
// UnitNav may be omitted for pending transactions the server confirms later.
type TransactionCreate struct {
	FundCode        string   `json:"fund_code"`
	FundName        string   `json:"fund_name"`
	TransactionDate string   `json:"transaction_date"`
	TransactionType string   `json:"transaction_type"`
	Amount          float64  `json:"amount"`
	TargetAmount    *float64 `json:"target_amount,omitempty"`
	Shares          *float64 `json:"shares,omitempty"`
	UnitNav         *float64 `json:"unit_nav,omitempty"`
	Note            *string  `json:"note,omitempty"`
}

// NavHistory is one day of a fund's net asset value sequence.
type NavHistory struct {
	PriceDate       string   `json:"price_date"`
	UnitNav         float64  `json:"unit_nav"`
	CumulativeNav   *float64 `json:"cumulative_nav"`
	DailyGrowthRate *float64 `json:"daily_growth_rate"`
}

// ProfitSummary is the portfolio-wide rollup over all holdings.
type ProfitSummary struct {
	TotalFunds      int     `json:"total_funds"`
	TotalShares     float64 `json:"total_shares"`
	TotalCost       float64 `json:"total_cost"`
	TotalValue      float64 `json:"total_value"`
	TotalProfit     float64 `json:"total_profit"`
	TotalReturnRate float64 `json:"total_return_rate"`
}
