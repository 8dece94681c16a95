package bookings

import "umrahcore/internal/shared/apperror"

// Event drives a booking status change.
type Event string

const (
	EventPaymentCompleted Event = "payment_completed"
	EventAdminConfirm     Event = "admin_confirm"
	EventCancel           Event = "cancel"
	EventStartProcessing  Event = "start_processing"
	EventComplete         Event = "complete"
	EventRefund           Event = "refund"
)

// Effect is a side effect a transition requires.
type Effect int

const (
	// EffectReleaseSeats returns total_pax to the departure.
	EffectReleaseSeats Effect = iota + 1
	// EffectReleaseUnlessDeparted releases seats only while the trip has not left.
	EffectReleaseUnlessDeparted
	// EffectVoidCommission voids a still-pending agent commission.
	EffectVoidCommission
	// EffectMarkRefunded sets payment_status to refunded.
	EffectMarkRefunded
)

// Transition is one row of the table.
type Transition struct {
	From    BookingStatus
	Event   Event
	To      BookingStatus
	Effects []Effect
}

type transitionKey struct {
	from  BookingStatus
	event Event
}

var transitions = buildTransitions([]Transition{
	{From: BookingPending, Event: EventPaymentCompleted, To: BookingConfirmed},
	{From: BookingPending, Event: EventAdminConfirm, To: BookingConfirmed},
	{From: BookingPending, Event: EventCancel, To: BookingCancelled,
		Effects: []Effect{EffectReleaseSeats, EffectVoidCommission}},
	{From: BookingConfirmed, Event: EventCancel, To: BookingCancelled,
		Effects: []Effect{EffectReleaseSeats, EffectVoidCommission}},
	{From: BookingConfirmed, Event: EventStartProcessing, To: BookingProcessing},
	{From: BookingProcessing, Event: EventComplete, To: BookingCompleted},
	{From: BookingConfirmed, Event: EventRefund, To: BookingRefunded,
		Effects: []Effect{EffectReleaseUnlessDeparted, EffectMarkRefunded, EffectVoidCommission}},
	{From: BookingCompleted, Event: EventRefund, To: BookingRefunded,
		Effects: []Effect{EffectReleaseUnlessDeparted, EffectMarkRefunded, EffectVoidCommission}},
})

func buildTransitions(rows []Transition) map[transitionKey]Transition {
	table := make(map[transitionKey]Transition, len(rows))
	for _, row := range rows {
		table[transitionKey{row.From, row.Event}] = row
	}
	return table
}

// Next looks up the transition for event from the current status.
func Next(from BookingStatus, event Event) (Transition, error) {
	t, ok := transitions[transitionKey{from, event}]
	if !ok {
		return Transition{}, apperror.InvalidTransition("booking cannot %s from %s", event, from)
	}
	return t, nil
}

// Has reports whether the transition carries effect.
func (t Transition) Has(effect Effect) bool {
	for _, e := range t.Effects {
		if e == effect {
			return true
		}
	}
	return false
}
