package payments

import (
	"context"
	"log/slog"
	"time"

	"umrahcore/internal/bookings"
	"umrahcore/internal/ledger"
	"umrahcore/internal/notifications"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingLedger is the part of the booking lifecycle payments credit into
type BookingLedger interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error)
	ApplyVerifiedPayment(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal) (*bookings.PaymentApplied, error)
}

type Notifier interface {
	Notify(ctx context.Context, event *notifications.BookingEvent)
}

type Service interface {
	Submit(ctx context.Context, bookingID uuid.UUID, req SubmitPaymentRequest, actorID string) (*Payment, error)
	// Verify resolves a pending payment. A paid outcome is credited to the
	// booking in the same transaction.
	Verify(ctx context.Context, paymentID uuid.UUID, req VerifyPaymentRequest, actorID string) (*Verification, error)
	Get(ctx context.Context, paymentID uuid.UUID) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	ReconcileBooking(ctx context.Context, bookingID uuid.UUID) (*Reconciliation, error)

	CreatePlan(ctx context.Context, req CreatePlanRequest, actorID string) (*Plan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*PlanResponse, error)
	ListPlans(ctx context.Context, customerID uuid.UUID) ([]Plan, error)
	CancelPlan(ctx context.Context, planID uuid.UUID, actorID string) (*Plan, error)
	SubmitPlanPayment(ctx context.Context, planID uuid.UUID, req SubmitPlanPaymentRequest, actorID string) (*PlanPayment, error)
	VerifyPlanPayment(ctx context.Context, paymentID uuid.UUID, req VerifyPaymentRequest, actorID string) (*PlanVerification, error)
}

type service struct {
	repo     Repository
	tx       database.Transactor
	bookings BookingLedger
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, tx database.Transactor, bookingLedger BookingLedger, notifier Notifier) Service {
	return &service{
		repo:     repo,
		tx:       tx,
		bookings: bookingLedger,
		notifier: notifier,
		log:      logger.GetDefault(),
		now:      time.Now,
	}
}

func (s *service) Submit(ctx context.Context, bookingID uuid.UUID, req SubmitPaymentRequest, actorID string) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("payment amount must be positive")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus.IsTerminal() {
		return nil, apperror.InvalidTransition("booking is %s; payments can no longer be submitted", booking.BookingStatus)
	}
	if req.Amount.GreaterThan(booking.RemainingAmount) {
		return nil, apperror.Validation("amount %s exceeds the remaining %s",
			req.Amount.StringFixed(2), booking.RemainingAmount.StringFixed(2))
	}

	payment := &Payment{
		BookingID:   bookingID,
		Amount:      req.Amount,
		Method:      req.Method,
		Status:      StatusPending,
		Proof:       req.Proof,
		SubmittedBy: actorID,
		Notes:       req.Notes,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) Verify(ctx context.Context, paymentID uuid.UUID, req VerifyPaymentRequest, actorID string) (*Verification, error) {
	if req.Outcome != StatusPaid && req.Outcome != StatusFailed {
		return nil, apperror.Validation("outcome must be paid or failed")
	}

	result := &Verification{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Lock order is payment then booking.
		payment, err := s.repo.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status.Resolved() {
			return apperror.New(apperror.KindPaymentAlreadyResolved, "payment is already %s", payment.Status)
		}

		if req.Outcome == StatusPaid {
			applied, err := s.bookings.ApplyVerifiedPayment(ctx, payment.BookingID, payment.Amount)
			if err != nil {
				return err
			}
			result.Booking = applied.Booking
			result.BookingConfirmed = applied.Confirmed
		}

		now := s.now()
		fields := map[string]interface{}{
			"status":      req.Outcome,
			"verified_by": actorID,
			"verified_at": now,
		}
		if req.Notes != "" {
			fields["notes"] = req.Notes
			payment.Notes = req.Notes
		}
		if err := s.repo.UpdatePayment(ctx, payment.ID, fields); err != nil {
			return err
		}
		payment.Status = req.Outcome
		payment.VerifiedBy = actorID
		payment.VerifiedAt = &now
		result.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announceVerification(ctx, result, actorID)
	return result, nil
}

func (s *service) announceVerification(ctx context.Context, result *Verification, actorID string) {
	payment := result.Payment
	paid, remaining := "", ""
	if result.Booking != nil {
		paid = result.Booking.PaidAmount.StringFixed(2)
		remaining = result.Booking.RemainingAmount.StringFixed(2)
	}
	s.log.LogPaymentVerified(ctx, payment.ID.String(), payment.BookingID.String(), string(payment.Status), paid, remaining)

	if s.notifier == nil {
		return
	}

	eventType := notifications.EventPaymentFailed
	if payment.Status == StatusPaid {
		eventType = notifications.EventPaymentVerified
	}
	var event *notifications.BookingEvent
	if result.Booking != nil {
		event = bookings.BookingEvent(eventType, result.Booking, actorID)
	} else {
		event = notifications.NewEvent(eventType)
		bookingID := payment.BookingID
		event.BookingID = &bookingID
		event.ActorID = actorID
	}
	paymentID := payment.ID
	event.PaymentID = &paymentID
	s.notifier.Notify(ctx, event)

	if result.BookingConfirmed {
		s.notifier.Notify(ctx, bookings.BookingEvent(notifications.EventBookingConfirmed, result.Booking, actorID))
	}
}

func (s *service) Get(ctx context.Context, paymentID uuid.UUID) (*Payment, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	return payment, database.Classify(ctx, err)
}

func (s *service) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	if _, err := s.bookings.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListByBooking(ctx, bookingID)
	return payments, database.Classify(ctx, err)
}

// ReconcileBooking checks the booking ledger against its verified payments.
func (s *service) ReconcileBooking(ctx context.Context, bookingID uuid.UUID) (*Reconciliation, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.TotalsByStatus(ctx, bookingID)
	if err != nil {
		return nil, database.Classify(ctx, err)
	}

	rec := &Reconciliation{
		BookingID:       bookingID.String(),
		TotalPrice:      booking.TotalPrice,
		PaidAmount:      booking.PaidAmount,
		RemainingAmount: booking.RemainingAmount,
		VerifiedTotal:   decimal.Zero,
	}
	for _, t := range totals {
		switch t.Status {
		case StatusPaid:
			rec.VerifiedTotal = t.Total
			rec.VerifiedCount = t.Count
		case StatusPending:
			rec.PendingCount = t.Count
		}
	}

	book := ledger.Totals{Target: booking.TotalPrice, Paid: booking.PaidAmount, Remaining: booking.RemainingAmount}
	rec.Balanced = book.Balanced()
	rec.Matches = rec.VerifiedTotal.Equal(booking.PaidAmount)
	if !rec.Matches {
		s.log.WarnContext(ctx, "Payment Ledger Mismatch",
			slog.String("booking_id", bookingID.String()),
			slog.String("paid_amount", booking.PaidAmount.StringFixed(2)),
			slog.String("verified_total", rec.VerifiedTotal.StringFixed(2)),
		)
	}
	return rec, nil
}
