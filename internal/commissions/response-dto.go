package commissions

import "github.com/shopspring/decimal"

// Summary totals an agent's commissions. Voided rows count toward neither.
type Summary struct {
	AgentID      string          `json:"agent_id"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	PendingCount int64           `json:"pending_count"`
	PaidTotal    decimal.Decimal `json:"paid_total"`
	PaidCount    int64           `json:"paid_count"`
	VoidedCount  int64           `json:"voided_count"`
}

type statusTotal struct {
	Status Status
	Total  decimal.Decimal
	Count  int64
}
