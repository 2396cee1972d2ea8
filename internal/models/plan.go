package models

import "time"

// PlanFrequency is the recurrence of an auto-invest plan.
type PlanFrequency string

const (
	FrequencyDaily   PlanFrequency = "daily"
	FrequencyWeekly  PlanFrequency = "weekly"
	FrequencyMonthly PlanFrequency = "monthly"
)

// Valid reports whether the frequency is one the API accepts.
func (f PlanFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// AutoInvestPlan is a scheduled recurring purchase instruction. Execution is
// server-side; the client only manages the plan records.
type AutoInvestPlan struct {
	PlanID    int64         `json:"plan_id"`
	PlanName  string        `json:"plan_name"`
	FundCode  string        `json:"fund_code"`
	FundName  string        `json:"fund_name"`
	Amount    float64       `json:"amount"`
	Frequency PlanFrequency `json:"frequency"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Enabled   bool          `json:"enabled"`
	CreatedAt *time.Time    `json:"created_at"`
}

// PlanCreate is the POST /auto-invest/plans payload.
type PlanCreate struct {
	PlanName  string        `json:"plan_name"`
	FundCode  string        `json:"fund_code"`
	FundName  string        `json:"fund_name"`
	Amount    float64       `json:"amount"`
	Frequency PlanFrequency `json:"frequency"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Enabled   bool          `json:"enabled"`
}

// PlanUpdate is the PATCH /auto-invest/plans/{id} payload. Nil fields are
// omitted so the server leaves them unchanged.
type PlanUpdate struct {
	PlanName  *string        `json:"plan_name,omitempty"`
	FundCode  *string        `json:"fund_code,omitempty"`
	FundName  *string        `json:"fund_name,omitempty"`
	Amount    *float64       `json:"amount,omitempty"`
	Frequency *PlanFrequency `json:"frequency,omitempty"`
	StartDate *string        `json:"start_date,omitempty"`
	EndDate   *string        `json:"end_date,omitempty"`
	Enabled   *bool          `json:"enabled,omitempty"`
}
