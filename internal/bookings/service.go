package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"umrahcore/internal/departures"
	"umrahcore/internal/ledger"
	"umrahcore/internal/notifications"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory is the departure seat ledger bookings draw from
type Inventory interface {
	Reserve(ctx context.Context, departureID uuid.UUID, pax int) (*departures.Departure, error)
	Release(ctx context.Context, departureID uuid.UUID, pax int) (*departures.Departure, error)
	IsDeparted(ctx context.Context, departureID uuid.UUID) (bool, error)
}

// CommissionHook is told about agent bookings being created and withdrawn
type CommissionHook interface {
	BookingCreated(ctx context.Context, booking *Booking) error
	BookingWithdrawn(ctx context.Context, booking *Booking) error
}

// Notifier receives committed booking changes
type Notifier interface {
	Notify(ctx context.Context, event *notifications.BookingEvent)
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest, actorID string) (*Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// ApplyVerifiedPayment credits a verified payment to the booking ledger.
	// It joins the caller's transaction and row-locks the booking.
	ApplyVerifiedPayment(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal) (*PaymentApplied, error)

	Confirm(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actorID, reason string) (*Booking, error)
	StartProcessing(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error)
	Complete(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error)
	Refund(ctx context.Context, bookingID uuid.UUID, actorID, reason string) (*Booking, error)
}

type service struct {
	repo        Repository
	tx          database.Transactor
	inventory   Inventory
	commissions CommissionHook
	notifier    Notifier
	log         *logger.Logger
	now         func() time.Time
}

func NewService(repo Repository, tx database.Transactor, inventory Inventory, commissions CommissionHook, notifier Notifier) Service {
	return &service{
		repo:        repo,
		tx:          tx,
		inventory:   inventory,
		commissions: commissions,
		notifier:    notifier,
		log:         logger.GetDefault(),
		now:         time.Now,
	}
}

// CreateBooking reserves the seats, inserts the booking with its passengers
// and records the agent commission in one transaction.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest, actorID string) (*Booking, error) {
	departureID, err := uuid.Parse(req.DepartureID)
	if err != nil {
		return nil, apperror.Validation("invalid departure ID")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apperror.Validation("invalid customer ID")
	}
	var agentID *uuid.UUID
	if req.AgentID != "" {
		id, err := uuid.Parse(req.AgentID)
		if err != nil {
			return nil, apperror.Validation("invalid agent ID")
		}
		agentID = &id
	}

	passengers, customerIDs, err := buildPassengers(req.Passengers, departureID)
	if err != nil {
		return nil, err
	}
	customerIDs = appendUnique(customerIDs, customerID)

	ref, err := generateBookingReference(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	var booking *Booking
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.repo.CountCustomers(ctx, customerIDs)
		if err != nil {
			return err
		}
		if found != int64(len(customerIDs)) {
			return apperror.NotFound("customer")
		}

		departure, err := s.inventory.Reserve(ctx, departureID, len(passengers))
		if err != nil {
			return err
		}

		total := departure.PricePerPax.Mul(decimal.NewFromInt(int64(len(passengers))))
		totals := ledger.Open(total)
		booking = &Booking{
			BookingRef:      ref,
			DepartureID:     departureID,
			CustomerID:      customerID,
			AgentID:         agentID,
			TotalPax:        len(passengers),
			TotalPrice:      totals.Target,
			PaidAmount:      totals.Paid,
			RemainingAmount: totals.Remaining,
			BookingStatus:   BookingPending,
			PaymentStatus:   paymentStatusOf(totals),
			Notes:           req.Notes,
			CreatedBy:       actorID,
			Passengers:      passengers,
		}
		if err := s.repo.CreateBooking(ctx, booking); err != nil {
			return err
		}

		if agentID != nil && s.commissions != nil {
			return s.commissions.BookingCreated(ctx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), departureID.String(), booking.TotalPax)
	s.notify(ctx, notifications.EventBookingCreated, booking, actorID)
	return booking, nil
}

func buildPassengers(reqs []PassengerRequest, departureID uuid.UUID) ([]Passenger, []uuid.UUID, error) {
	if len(reqs) == 0 {
		return nil, nil, apperror.Validation("a booking needs at least one passenger")
	}
	passengers := make([]Passenger, 0, len(reqs))
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, p := range reqs {
		id, err := uuid.Parse(p.CustomerID)
		if err != nil {
			return nil, nil, apperror.Validation("invalid passenger customer ID")
		}
		if seen[id] {
			return nil, nil, apperror.Validation("customer %s is listed twice", id)
		}
		pref := p.RoomPreference
		if pref == "" {
			pref = RoomQuad
		}
		if !pref.IsValid() {
			return nil, nil, apperror.Validation("unknown room preference %q", p.RoomPreference)
		}
		seen[id] = true
		ids = append(ids, id)
		passengers = append(passengers, Passenger{
			DepartureID:    departureID,
			CustomerID:     id,
			RoomPreference: pref,
		})
	}
	return passengers, ids, nil
}

func appendUnique(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByIDWithRelations(ctx, bookingID)
	if err != nil {
		return nil, database.Classify(ctx, err)
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	bookings, total, err := s.repo.ListBookings(ctx, query)
	if err != nil {
		return nil, 0, database.Classify(ctx, err)
	}
	return bookings, total, nil
}

func (s *service) ApplyVerifiedPayment(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal) (*PaymentApplied, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation("payment amount must be positive")
	}

	var applied *PaymentApplied
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.BookingStatus.IsTerminal() {
			return apperror.InvalidTransition("booking is %s; payments can no longer be applied", booking.BookingStatus)
		}
		if amount.GreaterThan(booking.RemainingAmount) {
			return apperror.Validation("amount %s exceeds the remaining %s",
				amount.StringFixed(2), booking.RemainingAmount.StringFixed(2))
		}

		totals := ledger.Apply(ledger.Totals{
			Target:    booking.TotalPrice,
			Paid:      booking.PaidAmount,
			Remaining: booking.RemainingAmount,
		}, amount)

		previous := booking.BookingStatus
		fields := map[string]interface{}{
			"paid_amount":      totals.Paid,
			"remaining_amount": totals.Remaining,
			"payment_status":   paymentStatusOf(totals),
		}

		confirmed := false
		if totals.Settled() && booking.BookingStatus == BookingPending {
			t, err := Next(booking.BookingStatus, EventPaymentCompleted)
			if err != nil {
				return err
			}
			now := s.now()
			fields["booking_status"] = t.To
			fields["confirmed_at"] = now
			booking.BookingStatus = t.To
			booking.ConfirmedAt = &now
			confirmed = true
		}

		if err := s.repo.UpdateBooking(ctx, booking.ID, fields); err != nil {
			return err
		}
		booking.PaidAmount = totals.Paid
		booking.RemainingAmount = totals.Remaining
		booking.PaymentStatus = paymentStatusOf(totals)

		applied = &PaymentApplied{Booking: booking, PreviousStatus: previous, Confirmed: confirmed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied.Confirmed {
		s.log.LogBookingTransition(ctx, bookingID.String(), string(applied.PreviousStatus),
			string(applied.Booking.BookingStatus), string(EventPaymentCompleted))
	}
	return applied, nil
}

func paymentStatusOf(t ledger.Totals) PaymentStatus {
	switch t.Status() {
	case ledger.StatusPaid:
		return PaymentPaid
	case ledger.StatusPartial:
		return PaymentPartial
	}
	return PaymentPending
}

func (s *service) Confirm(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error) {
	return s.transition(ctx, bookingID, EventAdminConfirm, actorID, "")
}

func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID, actorID, reason string) (*Booking, error) {
	return s.transition(ctx, bookingID, EventCancel, actorID, reason)
}

func (s *service) StartProcessing(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error) {
	return s.transition(ctx, bookingID, EventStartProcessing, actorID, "")
}

func (s *service) Complete(ctx context.Context, bookingID uuid.UUID, actorID string) (*Booking, error) {
	return s.transition(ctx, bookingID, EventComplete, actorID, "")
}

func (s *service) Refund(ctx context.Context, bookingID uuid.UUID, actorID, reason string) (*Booking, error) {
	return s.transition(ctx, bookingID, EventRefund, actorID, reason)
}

// transition applies one row of the transition table and its effects
// atomically with the status change.
func (s *service) transition(ctx context.Context, bookingID uuid.UUID, event Event, actorID, reason string) (*Booking, error) {
	var (
		booking *Booking
		from    BookingStatus
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.repo.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		from = booking.BookingStatus

		t, err := Next(booking.BookingStatus, event)
		if err != nil {
			return err
		}

		now := s.now()
		fields := map[string]interface{}{"booking_status": t.To}
		switch t.To {
		case BookingConfirmed:
			fields["confirmed_at"] = now
			booking.ConfirmedAt = &now
		case BookingCancelled:
			fields["cancelled_at"] = now
			fields["cancel_reason"] = reason
			booking.CancelledAt = &now
			booking.CancelReason = reason
		case BookingRefunded:
			fields["refunded_at"] = now
			fields["cancel_reason"] = reason
			booking.RefundedAt = &now
			booking.CancelReason = reason
		}

		if err := s.applyEffects(ctx, booking, t, fields); err != nil {
			return err
		}
		if err := s.repo.UpdateBooking(ctx, booking.ID, fields); err != nil {
			return err
		}
		booking.BookingStatus = t.To
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingTransition(ctx, bookingID.String(), string(from), string(booking.BookingStatus), string(event))
	s.notify(ctx, eventTypeFor(booking.BookingStatus), booking, actorID)
	return booking, nil
}

func (s *service) applyEffects(ctx context.Context, booking *Booking, t Transition, fields map[string]interface{}) error {
	for _, effect := range t.Effects {
		switch effect {
		case EffectReleaseSeats:
			if _, err := s.inventory.Release(ctx, booking.DepartureID, booking.TotalPax); err != nil {
				return err
			}
		case EffectReleaseUnlessDeparted:
			departed, err := s.inventory.IsDeparted(ctx, booking.DepartureID)
			if err != nil {
				return err
			}
			if !departed {
				if _, err := s.inventory.Release(ctx, booking.DepartureID, booking.TotalPax); err != nil {
					return err
				}
			}
		case EffectMarkRefunded:
			fields["payment_status"] = PaymentRefunded
			booking.PaymentStatus = PaymentRefunded
		case EffectVoidCommission:
			if booking.AgentID != nil && s.commissions != nil {
				if err := s.commissions.BookingWithdrawn(ctx, booking); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func eventTypeFor(status BookingStatus) notifications.EventType {
	switch status {
	case BookingConfirmed:
		return notifications.EventBookingConfirmed
	case BookingProcessing:
		return notifications.EventBookingProcessing
	case BookingCompleted:
		return notifications.EventBookingCompleted
	case BookingCancelled:
		return notifications.EventBookingCancelled
	case BookingRefunded:
		return notifications.EventBookingRefunded
	}
	return notifications.EventBookingCreated
}

func (s *service) notify(ctx context.Context, eventType notifications.EventType, booking *Booking, actorID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, BookingEvent(eventType, booking, actorID))
}

// BookingEvent builds the notification payload for a booking.
func BookingEvent(eventType notifications.EventType, booking *Booking, actorID string) *notifications.BookingEvent {
	event := notifications.NewEvent(eventType)
	bookingID, departureID, customerID := booking.ID, booking.DepartureID, booking.CustomerID
	event.BookingID = &bookingID
	event.DepartureID = &departureID
	event.CustomerID = &customerID
	event.BookingRef = booking.BookingRef
	event.BookingStatus = string(booking.BookingStatus)
	event.PaymentStatus = string(booking.PaymentStatus)
	event.ActorID = actorID
	return event.WithAmounts(booking.PaidAmount, booking.RemainingAmount)
}

// generateBookingReference generates a booking reference like UMR-20261014-KQZBTA
func generateBookingReference(now time.Time) (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("UMR-%s-%s", now.Format("20060102"), string(randomPart)), nil
}
