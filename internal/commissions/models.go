package commissions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Agent is a referring travel agent paid a percentage of each booking.
type Agent struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          string          `gorm:"size:255;uniqueIndex" json:"email"`
	Phone          string          `gorm:"size:32" json:"phone"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(5,2);not null;check:chk_agents_rate,commission_rate >= 0 AND commission_rate <= 100" json:"commission_rate"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Agent) TableName() string {
	return "agents"
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Commission is the fee owed to an agent for one booking. Rate and amount
// are frozen at creation.
type Commission struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AgentID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"agent_id"`
	BookingID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	BookingTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"booking_total"`
	RateApplied      decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"rate_applied"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"commission_amount"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaidBy           string          `gorm:"size:64" json:"paid_by,omitempty"`
	VoidedAt         *time.Time      `json:"voided_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (Commission) TableName() string {
	return "agent_commissions"
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// Calculate returns total × rate / 100 rounded to cents.
func Calculate(total, rate decimal.Decimal) decimal.Decimal {
	return total.Mul(rate).Div(hundred).Round(2)
}
