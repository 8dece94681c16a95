package payments

// Status of a submitted payment
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Resolved reports whether verification already happened.
func (s Status) Resolved() bool {
	return s == StatusPaid || s == StatusFailed
}

// PlanKind distinguishes open-ended savings from installments on a booking
type PlanKind string

const (
	PlanSavings     PlanKind = "savings"
	PlanInstallment PlanKind = "installment"
)

func (k PlanKind) IsValid() bool {
	return k == PlanSavings || k == PlanInstallment
}

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanCancelled PlanStatus = "cancelled"
)
