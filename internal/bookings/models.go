package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking defines the main booking structure
type Booking struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BookingRef      string          `gorm:"size:32;uniqueIndex;not null" json:"booking_ref"`
	DepartureID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"departure_id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	AgentID         *uuid.UUID      `gorm:"type:uuid;index" json:"agent_id,omitempty"`
	TotalPax        int             `gorm:"not null;check:chk_bookings_pax,total_pax >= 1" json:"total_pax"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;check:chk_bookings_paid,paid_amount >= 0" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;check:chk_bookings_remaining,remaining_amount >= 0" json:"remaining_amount"`
	BookingStatus   BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"booking_status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string          `gorm:"size:64" json:"created_by"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `gorm:"type:text" json:"cancel_reason,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Passengers []Passenger `json:"passengers,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// Passenger is one traveller covered by a booking
type Passenger struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_passenger_booking_customer" json:"booking_id"`
	DepartureID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"departure_id"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_passenger_booking_customer" json:"customer_id"`
	RoomPreference RoomPreference `gorm:"type:varchar(20);not null;default:'quad'" json:"room_preference"`
	RoommateID     *uuid.UUID     `gorm:"type:uuid" json:"roommate_id,omitempty"`
	RoomNumber     *string        `gorm:"size:20" json:"room_number,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT;"`
}

// Customer is the booking core's read-only view of the customer directory
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Gender    Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "booking_passengers"
}

// TableName sets the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (p *Passenger) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
