// Package domain defines the financial metrics contracts.
package domain

import "context"

// Bucket is a clients/revenue pair used in report groupings.
type Bucket struct {
	Clients int     `json:"clients"`
	Revenue float64 `json:"revenue"`
}

// PeriodSnapshot is one month's revenue and active-client count.
type PeriodSnapshot struct {
	Revenue float64 `json:"revenue"`
	Clients int     `json:"clients"`
}

// PercentChange is the month-over-month delta in percent.
type PercentChange struct {
	Revenue float64 `json:"revenue"`
	Clients float64 `json:"clients"`
}

// MonthlyComparison compares the live numbers against the previous
// month's stored revenue snapshots.
type MonthlyComparison struct {
	CurrentMonth  PeriodSnapshot `json:"current_month"`
	PreviousMonth PeriodSnapshot `json:"previous_month"`
	PercentChange PercentChange  `json:"percent_change"`
}

// FinancialReport is the full metrics rollup for the admin dashboard.
type FinancialReport struct {
	TotalClients      int                `json:"total_clients"`
	ActiveClients     int                `json:"active_clients"`
	TotalRevenue      float64            `json:"total_revenue"`
	CommissionRevenue float64            `json:"commission_revenue"`
	AverageTicket     float64            `json:"average_ticket"`
	ConversionRate    float64            `json:"conversion_rate"`
	ROIGeneral        float64            `json:"roi_general"`
	ByPlatform        map[string]Bucket  `json:"by_platform"`
	ByPlan            map[string]Bucket  `json:"by_plan"`
	MonthlyComparison *MonthlyComparison `json:"monthly_comparison,omitempty"`
}

type Service interface {
	MRR(ctx context.Context) (float64, error)
	ChurnRate(ctx context.Context) (float64, error)
	LTV(ctx context.Context) (float64, error)
	FinancialReport(ctx context.Context) (FinancialReport, error)
	MonthlyComparison(ctx context.Context) (FinancialReport, error)

	// GenerateMonthlyRevenues writes one revenue snapshot per active
	// client for the current reference month and returns how many rows
	// were written.
	GenerateMonthlyRevenues(ctx context.Context) (int, error)
}
