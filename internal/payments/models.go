package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment is a customer transfer submitted against a booking
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_payments_amount,amount > 0" json:"amount"`
	Method      string          `gorm:"size:32" json:"method,omitempty"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Proof       datatypes.JSON  `gorm:"type:jsonb" json:"proof,omitempty" swaggertype:"object"`
	SubmittedBy string          `gorm:"size:64" json:"submitted_by"`
	VerifiedBy  string          `gorm:"size:64" json:"verified_by,omitempty"`
	VerifiedAt  *time.Time      `json:"verified_at,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Plan is a savings or installment target paid down over time
type Plan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	Kind            PlanKind        `gorm:"type:varchar(20);not null" json:"kind"`
	BookingID       *uuid.UUID      `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	TargetAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_plans_target,target_amount > 0" json:"target_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;check:chk_plans_paid,paid_amount >= 0" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_plans_remaining,remaining_amount >= 0" json:"remaining_amount"`
	Status          PlanStatus      `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy       string          `gorm:"size:64" json:"created_by"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Payments []PlanPayment `json:"payments,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE;"`
}

type PlanPayment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"plan_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_plan_payments_amount,amount > 0" json:"amount"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Proof       datatypes.JSON  `gorm:"type:jsonb" json:"proof,omitempty" swaggertype:"object"`
	SubmittedBy string          `gorm:"size:64" json:"submitted_by"`
	VerifiedBy  string          `gorm:"size:64" json:"verified_by,omitempty"`
	VerifiedAt  *time.Time      `json:"verified_at,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (Plan) TableName() string {
	return "payment_plans"
}

func (PlanPayment) TableName() string {
	return "plan_payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *PlanPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
