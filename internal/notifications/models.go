package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventBookingCreated    EventType = "BOOKING_CREATED"
	EventBookingConfirmed  EventType = "BOOKING_CONFIRMED"
	EventBookingProcessing EventType = "BOOKING_PROCESSING"
	EventBookingCompleted  EventType = "BOOKING_COMPLETED"
	EventBookingCancelled  EventType = "BOOKING_CANCELLED"
	EventBookingRefunded   EventType = "BOOKING_REFUNDED"
	EventPaymentVerified   EventType = "PAYMENT_VERIFIED"
	EventPaymentFailed     EventType = "PAYMENT_FAILED"
	EventPlanPaymentPaid   EventType = "PLAN_PAYMENT_VERIFIED"
	EventPlanCompleted     EventType = "PLAN_COMPLETED"
)

// BookingEvent is the message published after a booking, payment or plan
// change has committed. Downstream senders turn it into reminders.
type BookingEvent struct {
	ID   uuid.UUID `json:"id"`
	Type EventType `json:"type"`

	BookingID     *uuid.UUID `json:"booking_id,omitempty"`
	BookingRef    string     `json:"booking_ref,omitempty"`
	DepartureID   *uuid.UUID `json:"departure_id,omitempty"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	PaymentID     *uuid.UUID `json:"payment_id,omitempty"`
	PlanID        *uuid.UUID `json:"plan_id,omitempty"`
	BookingStatus string     `json:"booking_status,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`

	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount,omitempty"`

	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a fresh event of the given type
func NewEvent(eventType EventType) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAmounts attaches the ledger pair
func (e *BookingEvent) WithAmounts(paid, remaining decimal.Decimal) *BookingEvent {
	e.PaidAmount = &paid
	e.RemainingAmount = &remaining
	return e
}

// PartitionKey keeps all events of one booking (or plan) on one partition
func (e *BookingEvent) PartitionKey() string {
	switch {
	case e.BookingID != nil:
		return e.BookingID.String()
	case e.PlanID != nil:
		return e.PlanID.String()
	}
	return e.ID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
