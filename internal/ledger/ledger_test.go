package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestApplyPartialThenPaid(t *testing.T) {
	totals := Open(d(10_000_000))
	if totals.Status() != StatusPending {
		t.Fatalf("fresh ledger should be pending, got %s", totals.Status())
	}

	totals = Apply(totals, d(4_000_000))
	if !totals.Paid.Equal(d(4_000_000)) || !totals.Remaining.Equal(d(6_000_000)) {
		t.Fatalf("after first payment: paid=%s remaining=%s", totals.Paid, totals.Remaining)
	}
	if totals.Status() != StatusPartial {
		t.Fatalf("expected partial, got %s", totals.Status())
	}
	if !totals.Balanced() {
		t.Fatalf("paid + remaining must equal target")
	}

	totals = Apply(totals, d(6_000_000))
	if !totals.Paid.Equal(d(10_000_000)) || !totals.Remaining.IsZero() {
		t.Fatalf("after second payment: paid=%s remaining=%s", totals.Paid, totals.Remaining)
	}
	if !totals.Settled() {
		t.Fatalf("expected paid, got %s", totals.Status())
	}
	if !totals.Percent().Equal(d(100)) {
		t.Fatalf("percent: got %s", totals.Percent())
	}
}

func TestApplyOverpaymentReadsAsPaid(t *testing.T) {
	totals := Apply(Open(d(1_000)), d(1_500))
	if !totals.Remaining.IsZero() {
		t.Fatalf("remaining must floor at zero, got %s", totals.Remaining)
	}
	if !totals.Paid.Equal(d(1_500)) {
		t.Fatalf("paid keeps the verified sum, got %s", totals.Paid)
	}
	if totals.Status() != StatusPaid {
		t.Fatalf("overpayment should be paid, got %s", totals.Status())
	}
	if totals.Percent().GreaterThan(d(100)) {
		t.Fatalf("percent must cap at 100")
	}
}

func TestBalancedInvariantOverSequence(t *testing.T) {
	totals := Open(d(9_999))
	for _, amount := range []int64{1, 998, 3_000, 5_000, 1_000} {
		totals = Apply(totals, d(amount))
		if !totals.Balanced() {
			t.Fatalf("unbalanced after %d: paid=%s remaining=%s", amount, totals.Paid, totals.Remaining)
		}
	}
	if !totals.Settled() {
		t.Fatalf("expected settled, got %s", totals.Status())
	}
}

func TestZeroTargetIsSettledOnOpen(t *testing.T) {
	totals := Open(decimal.Zero)
	if totals.Status() != StatusPaid || !totals.Settled() {
		t.Fatalf("nothing remaining should read as paid, got %s", totals.Status())
	}
	if !totals.Balanced() {
		t.Fatalf("zero target must balance")
	}
	if !totals.Percent().IsZero() {
		t.Fatalf("percent of a zero target: got %s", totals.Percent())
	}
}
