// Package ledger derives paid/remaining totals from verified payments.
// Booking payments and savings/installment plans share these rules.
package ledger

import (
	"github.com/shopspring/decimal"
)

// Status is the payment status derived from the totals.
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Totals is the booking ledger pair plus the target it is measured against.
type Totals struct {
	Target    decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
}

// Open returns the totals of a target with nothing paid yet.
func Open(target decimal.Decimal) Totals {
	return Totals{Target: target, Paid: decimal.Zero, Remaining: target}
}

// Apply adds a verified amount. Paid keeps the exact sum of verified
// amounts; Remaining is floored at zero so an overpayment reads as paid.
func Apply(t Totals, amount decimal.Decimal) Totals {
	paid := t.Paid.Add(amount)
	return Totals{
		Target:    t.Target,
		Paid:      paid,
		Remaining: remaining(t.Target, paid),
	}
}

// Status derives pending/partial/paid from the totals. Nothing remaining
// reads as paid, including a zero target.
func (t Totals) Status() Status {
	switch {
	case t.Remaining.IsZero() && t.Paid.GreaterThanOrEqual(t.Target):
		return StatusPaid
	case t.Paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Settled reports whether nothing remains to be paid.
func (t Totals) Settled() bool {
	return t.Status() == StatusPaid
}

// Balanced reports whether paid + remaining equals the target.
func (t Totals) Balanced() bool {
	return t.Paid.Add(t.Remaining).Equal(t.Target)
}

// Percent returns the paid share of the target, capped at 100.
func (t Totals) Percent() decimal.Decimal {
	if !t.Target.IsPositive() {
		return decimal.Zero
	}
	p := t.Paid.Div(t.Target).Mul(decimal.NewFromInt(100)).Round(2)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}

func remaining(target, paid decimal.Decimal) decimal.Decimal {
	r := target.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
