package payments

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubmitPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"4000000.00"`
	Method string          `json:"method" validate:"omitempty,max=32"`
	Proof  datatypes.JSON  `json:"proof" swaggertype:"object"`
	Notes  string          `json:"notes" validate:"max=2000"`
}

type VerifyPaymentRequest struct {
	Outcome Status `json:"outcome" validate:"required,oneof=paid failed"`
	Notes   string `json:"notes" validate:"max=2000"`
}

type CreatePlanRequest struct {
	CustomerID   string          `json:"customer_id" validate:"required,uuid"`
	Kind         PlanKind        `json:"kind" validate:"required,oneof=savings installment"`
	BookingID    string          `json:"booking_id" validate:"omitempty,uuid"`
	TargetAmount decimal.Decimal `json:"target_amount" swaggertype:"string" example:"35000000.00"`
}

type SubmitPlanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"1500000.00"`
	Proof  datatypes.JSON  `json:"proof" swaggertype:"object"`
	Notes  string          `json:"notes" validate:"max=2000"`
}
