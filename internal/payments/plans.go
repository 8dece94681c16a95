package payments

import (
	"context"
	"log/slog"

	"umrahcore/internal/ledger"
	"umrahcore/internal/notifications"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"

	"github.com/google/uuid"
)

// CreatePlan opens a savings or installment plan. An installment plan
// without a target takes the booking's remaining amount.
func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest, actorID string) (*Plan, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperror.Validation("invalid customer ID")
	}
	if !req.Kind.IsValid() {
		return nil, apperror.Validation("unknown plan kind %q", req.Kind)
	}

	target := req.TargetAmount
	var bookingID *uuid.UUID
	switch req.Kind {
	case PlanInstallment:
		id, err := uuid.Parse(req.BookingID)
		if err != nil {
			return nil, apperror.Validation("an installment plan needs a booking")
		}
		booking, err := s.bookings.GetBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if booking.CustomerID != customerID {
			return nil, apperror.Validation("booking %s belongs to another customer", id)
		}
		if booking.BookingStatus.IsTerminal() {
			return nil, apperror.InvalidTransition("booking is %s", booking.BookingStatus)
		}
		if target.IsZero() {
			target = booking.RemainingAmount
		}
		if target.GreaterThan(booking.RemainingAmount) {
			return nil, apperror.Validation("target exceeds the booking's remaining %s", booking.RemainingAmount.StringFixed(2))
		}
		bookingID = &id
	case PlanSavings:
		if req.BookingID != "" {
			return nil, apperror.Validation("a savings plan is not tied to a booking")
		}
	}
	if !target.IsPositive() {
		return nil, apperror.Validation("target amount must be positive")
	}

	totals := ledger.Open(target)
	plan := &Plan{
		CustomerID:      customerID,
		Kind:            req.Kind,
		BookingID:       bookingID,
		TargetAmount:    totals.Target,
		PaidAmount:      totals.Paid,
		RemainingAmount: totals.Remaining,
		Status:          PlanActive,
		CreatedBy:       actorID,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreatePlan(ctx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Plan Created",
		slog.String("plan_id", plan.ID.String()),
		slog.String("kind", string(plan.Kind)),
		slog.String("target", plan.TargetAmount.StringFixed(2)),
	)
	return plan, nil
}

func (s *service) GetPlan(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, database.Classify(ctx, err)
	}
	totals := ledger.Totals{Target: plan.TargetAmount, Paid: plan.PaidAmount, Remaining: plan.RemainingAmount}
	return &PlanResponse{Plan: *plan, PercentPaid: totals.Percent()}, nil
}

func (s *service) ListPlans(ctx context.Context, customerID uuid.UUID) ([]Plan, error) {
	plans, err := s.repo.ListPlansByCustomer(ctx, customerID)
	return plans, database.Classify(ctx, err)
}

func (s *service) CancelPlan(ctx context.Context, planID uuid.UUID, actorID string) (*Plan, error) {
	var plan *Plan
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.repo.GetPlanForUpdate(ctx, planID)
		if err != nil {
			return err
		}
		if plan.Status != PlanActive {
			return apperror.InvalidTransition("plan is already %s", plan.Status)
		}
		plan.Status = PlanCancelled
		return s.repo.UpdatePlan(ctx, plan.ID, map[string]interface{}{"status": PlanCancelled})
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Plan Cancelled", slog.String("plan_id", planID.String()), slog.String("actor_id", actorID))
	return plan, nil
}

func (s *service) SubmitPlanPayment(ctx context.Context, planID uuid.UUID, req SubmitPlanPaymentRequest, actorID string) (*PlanPayment, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("payment amount must be positive")
	}

	payment := &PlanPayment{
		PlanID:      planID,
		Amount:      req.Amount,
		Status:      StatusPending,
		Proof:       req.Proof,
		SubmittedBy: actorID,
		Notes:       req.Notes,
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		plan, err := s.repo.GetPlanForUpdate(ctx, planID)
		if err != nil {
			return err
		}
		if plan.Status != PlanActive {
			return apperror.InvalidTransition("plan is %s; payments can no longer be submitted", plan.Status)
		}
		if req.Amount.GreaterThan(plan.RemainingAmount) {
			return apperror.Validation("amount %s exceeds the remaining %s",
				req.Amount.StringFixed(2), plan.RemainingAmount.StringFixed(2))
		}
		return s.repo.CreatePlanPayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifyPlanPayment follows the booking payment pattern against the plan
// target. Settling the target completes the plan.
func (s *service) VerifyPlanPayment(ctx context.Context, paymentID uuid.UUID, req VerifyPaymentRequest, actorID string) (*PlanVerification, error) {
	if req.Outcome != StatusPaid && req.Outcome != StatusFailed {
		return nil, apperror.Validation("outcome must be paid or failed")
	}

	result := &PlanVerification{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.repo.GetPlanPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status.Resolved() {
			return apperror.New(apperror.KindPaymentAlreadyResolved, "plan payment is already %s", payment.Status)
		}
		plan, err := s.repo.GetPlanForUpdate(ctx, payment.PlanID)
		if err != nil {
			return err
		}

		now := s.now()
		if req.Outcome == StatusPaid {
			if plan.Status != PlanActive {
				return apperror.InvalidTransition("plan is %s; payments can no longer be applied", plan.Status)
			}
			if payment.Amount.GreaterThan(plan.RemainingAmount) {
				return apperror.Validation("amount %s exceeds the remaining %s",
					payment.Amount.StringFixed(2), plan.RemainingAmount.StringFixed(2))
			}
			totals := ledger.Apply(ledger.Totals{
				Target:    plan.TargetAmount,
				Paid:      plan.PaidAmount,
				Remaining: plan.RemainingAmount,
			}, payment.Amount)

			fields := map[string]interface{}{
				"paid_amount":      totals.Paid,
				"remaining_amount": totals.Remaining,
			}
			if totals.Settled() {
				fields["status"] = PlanCompleted
				fields["completed_at"] = now
				plan.Status = PlanCompleted
				plan.CompletedAt = &now
				result.Completed = true
			}
			if err := s.repo.UpdatePlan(ctx, plan.ID, fields); err != nil {
				return err
			}
			plan.PaidAmount = totals.Paid
			plan.RemainingAmount = totals.Remaining
		}

		fields := map[string]interface{}{
			"status":      req.Outcome,
			"verified_by": actorID,
			"verified_at": now,
		}
		if req.Notes != "" {
			fields["notes"] = req.Notes
			payment.Notes = req.Notes
		}
		if err := s.repo.UpdatePlanPayment(ctx, payment.ID, fields); err != nil {
			return err
		}
		payment.Status = req.Outcome
		payment.VerifiedBy = actorID
		payment.VerifiedAt = &now

		result.Payment = payment
		result.Plan = plan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Plan Payment Verified",
		slog.String("payment_id", paymentID.String()),
		slog.String("plan_id", result.Plan.ID.String()),
		slog.String("outcome", string(req.Outcome)),
		slog.String("remaining", result.Plan.RemainingAmount.StringFixed(2)),
	)
	if req.Outcome == StatusPaid {
		s.notifyPlan(ctx, notifications.EventPlanPaymentPaid, result, actorID)
	}
	if result.Completed {
		s.notifyPlan(ctx, notifications.EventPlanCompleted, result, actorID)
	}
	return result, nil
}

func (s *service) notifyPlan(ctx context.Context, eventType notifications.EventType, result *PlanVerification, actorID string) {
	if s.notifier == nil {
		return
	}
	event := notifications.NewEvent(eventType)
	planID, customerID, paymentID := result.Plan.ID, result.Plan.CustomerID, result.Payment.ID
	event.PlanID = &planID
	event.CustomerID = &customerID
	event.PaymentID = &paymentID
	event.ActorID = actorID
	s.notifier.Notify(ctx, event.WithAmounts(result.Plan.PaidAmount, result.Plan.RemainingAmount))
}
