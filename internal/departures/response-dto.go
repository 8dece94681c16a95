package departures

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepartureResponse struct {
	ID             string          `json:"id"`
	PackageName    string          `json:"package_name"`
	DepartureDate  time.Time       `json:"departure_date"`
	ReturnDate     *time.Time      `json:"return_date,omitempty"`
	Quota          int             `json:"quota"`
	BookedCount    int             `json:"booked_count"`
	AvailableSeats int             `json:"available_seats"`
	PricePerPax    decimal.Decimal `json:"price_per_pax"`
	Status         Status          `json:"status"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (d *Departure) ToResponse() DepartureResponse {
	return DepartureResponse{
		ID:             d.ID.String(),
		PackageName:    d.PackageName,
		DepartureDate:  d.DepartureDate,
		ReturnDate:     d.ReturnDate,
		Quota:          d.Quota,
		BookedCount:    d.BookedCount,
		AvailableSeats: d.AvailableSeats(),
		PricePerPax:    d.PricePerPax,
		Status:         d.Status,
		UpdatedAt:      d.UpdatedAt,
	}
}
