package departures

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDepartureRequest struct {
	PackageName   string          `json:"package_name" validate:"required,min=3,max=255"`
	DepartureDate time.Time       `json:"departure_date" validate:"required"`
	ReturnDate    *time.Time      `json:"return_date"`
	Quota         int             `json:"quota" validate:"required,min=1,max=1000"`
	PricePerPax   decimal.Decimal `json:"price_per_pax"`
}

type ListDeparturesQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=open closed full departed"`
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}
