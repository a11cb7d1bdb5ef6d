package model

import "time"

// ModelRunStatus is the lifecycle state of a financial model run.
type ModelRunStatus string

const (
	RunPending   ModelRunStatus = "pending"
	RunCompleted ModelRunStatus = "completed"
	RunFailed    ModelRunStatus = "failed"
)

// FinancialModel is an org's planning model: a named set of assumptions
// that model runs are computed from.
type FinancialModel struct {
	ID          string
	OrgID       string
	Name        string
	Version     string
	Assumptions map[string]float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ModelRun is one computed snapshot of a financial model. Completed runs
// carry the current-state numbers the pipeline plans against.
type ModelRun struct {
	ID                 string
	ModelID            string
	OrgID              string
	Status             ModelRunStatus
	CashBalance        float64
	MonthlyBurn        float64
	RunwayMonths       float64
	MonthlyRevenue     float64
	RevenueGrowthPct   float64
	TopExpenseCategory string
	TopExpenseValue    float64
	CompletedAt        *time.Time
	CreatedAt          time.Time
}

// TransactionAggregate summarizes an org's transactions for one calendar year.
type TransactionAggregate struct {
	OrgID      string
	Year       int
	Inflow     float64
	Outflow    float64
	Count      int
	ByCategory map[string]float64
}

// ConnectorStatus reports whether an external data source is linked.
type ConnectorStatus struct {
	Provider   string
	Connected  bool
	LastSyncAt *time.Time
}

// OverviewMetrics is the dashboard headline snapshot used as a data probe.
type OverviewMetrics struct {
	CashBalance    float64
	MonthlyBurn    float64
	RunwayMonths   float64
	MonthlyRevenue float64
}

// AuditEntry is one append-only audit-log row.
type AuditEntry struct {
	ID        string
	OrgID     string
	UserID    string
	Action    string
	Detail    string
	CreatedAt time.Time
}
