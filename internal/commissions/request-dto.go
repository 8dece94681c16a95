package commissions

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAgentRequest struct {
	Name           string          `json:"name" validate:"required,min=2,max=255"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" validate:"omitempty,max=32"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type ListCommissionsQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=pending paid voided"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// BookingCreated carries what the engine needs from a new booking.
type BookingCreated struct {
	BookingID  uuid.UUID
	AgentID    uuid.UUID
	TotalPrice decimal.Decimal
}
