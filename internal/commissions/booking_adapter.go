package commissions

import (
	"context"

	"umrahcore/internal/bookings"
)

// BookingHookAdapter lets the booking lifecycle drive the commission engine
type BookingHookAdapter struct {
	service Service
}

func NewBookingHookAdapter(service Service) *BookingHookAdapter {
	return &BookingHookAdapter{service: service}
}

func (a *BookingHookAdapter) BookingCreated(ctx context.Context, booking *bookings.Booking) error {
	if booking.AgentID == nil {
		return nil
	}
	_, err := a.service.OnBookingCreated(ctx, BookingCreated{
		BookingID:  booking.ID,
		AgentID:    *booking.AgentID,
		TotalPrice: booking.TotalPrice,
	})
	return err
}

func (a *BookingHookAdapter) BookingWithdrawn(ctx context.Context, booking *bookings.Booking) error {
	_, err := a.service.OnBookingCancelled(ctx, booking.ID)
	return err
}
