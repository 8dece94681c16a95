package payments

import (
	"umrahcore/internal/bookings"

	"github.com/shopspring/decimal"
)

// Verification is what verifying a booking payment produced
type Verification struct {
	Payment          *Payment          `json:"payment"`
	Booking          *bookings.Booking `json:"booking,omitempty"`
	BookingConfirmed bool              `json:"booking_confirmed"`
}

// PlanVerification is what verifying a plan payment produced
type PlanVerification struct {
	Payment   *PlanPayment `json:"payment"`
	Plan      *Plan        `json:"plan"`
	Completed bool         `json:"completed"`
}

// Reconciliation compares a booking's ledger with its verified payments
type Reconciliation struct {
	BookingID       string          `json:"booking_id"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	VerifiedTotal   decimal.Decimal `json:"verified_total"`
	VerifiedCount   int64           `json:"verified_count"`
	PendingCount    int64           `json:"pending_count"`
	// Balanced is paid + remaining == total
	Balanced bool `json:"balanced"`
	// Matches is verified_total == paid_amount
	Matches bool `json:"matches"`
}

type PlanResponse struct {
	Plan
	PercentPaid decimal.Decimal `json:"percent_paid"`
}

type paymentTotals struct {
	Status Status
	Total  decimal.Decimal
	Count  int64
}
