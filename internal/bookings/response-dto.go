package bookings

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID              string              `json:"id"`
	BookingRef      string              `json:"booking_ref"`
	DepartureID     string              `json:"departure_id"`
	CustomerID      string              `json:"customer_id"`
	AgentID         *string             `json:"agent_id,omitempty"`
	TotalPax        int                 `json:"total_pax"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	PaidAmount      decimal.Decimal     `json:"paid_amount"`
	RemainingAmount decimal.Decimal     `json:"remaining_amount"`
	BookingStatus   BookingStatus       `json:"booking_status"`
	PaymentStatus   PaymentStatus       `json:"payment_status"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time          `json:"refunded_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Passengers      []PassengerResponse `json:"passengers,omitempty"`
}

type PassengerResponse struct {
	ID             string         `json:"id"`
	CustomerID     string         `json:"customer_id"`
	FullName       string         `json:"full_name,omitempty"`
	Gender         Gender         `json:"gender,omitempty"`
	RoomPreference RoomPreference `json:"room_preference"`
	RoommateID     *string        `json:"roommate_id,omitempty"`
	RoomNumber     *string        `json:"room_number,omitempty"`
}

// PaymentApplied is the outcome of crediting a verified payment.
type PaymentApplied struct {
	Booking        *Booking
	PreviousStatus BookingStatus
	Confirmed      bool
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		BookingRef:      b.BookingRef,
		DepartureID:     b.DepartureID.String(),
		CustomerID:      b.CustomerID.String(),
		TotalPax:        b.TotalPax,
		TotalPrice:      b.TotalPrice,
		PaidAmount:      b.PaidAmount,
		RemainingAmount: b.RemainingAmount,
		BookingStatus:   b.BookingStatus,
		PaymentStatus:   b.PaymentStatus,
		ConfirmedAt:     b.ConfirmedAt,
		CancelledAt:     b.CancelledAt,
		RefundedAt:      b.RefundedAt,
		CreatedAt:       b.CreatedAt,
	}
	if b.AgentID != nil {
		id := b.AgentID.String()
		resp.AgentID = &id
	}
	for i := range b.Passengers {
		resp.Passengers = append(resp.Passengers, b.Passengers[i].ToResponse())
	}
	return resp
}

func (p *Passenger) ToResponse() PassengerResponse {
	resp := PassengerResponse{
		ID:             p.ID.String(),
		CustomerID:     p.CustomerID.String(),
		RoomPreference: p.RoomPreference,
		RoomNumber:     p.RoomNumber,
	}
	if p.Customer != nil {
		resp.FullName = p.Customer.FullName
		resp.Gender = p.Customer.Gender
	}
	if p.RoommateID != nil {
		id := p.RoommateID.String()
		resp.RoommateID = &id
	}
	return resp
}
