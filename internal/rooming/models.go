package rooming

import (
	"time"

	"umrahcore/internal/bookings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomType sets how many occupants a room takes
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomQuad   RoomType = "quad"
)

// Capacity returns the bed count of the type, or 0 for an unknown type.
func (t RoomType) Capacity() int {
	switch t {
	case RoomSingle:
		return 1
	case RoomDouble:
		return 2
	case RoomTriple:
		return 3
	case RoomQuad:
		return 4
	}
	return 0
}

// RoomAssignment is a hotel room held for one departure
type RoomAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DepartureID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_trip_number" json:"departure_id"`
	HotelID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_trip_number" json:"hotel_id"`
	RoomNumber  string    `gorm:"size:20;not null;uniqueIndex:idx_room_trip_number" json:"room_number"`
	RoomType    RoomType  `gorm:"type:varchar(10);not null" json:"room_type"`
	Capacity    int       `gorm:"not null;check:chk_room_capacity,capacity BETWEEN 1 AND 4" json:"capacity"`
	CreatedBy   string    `gorm:"size:64" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Occupants []RoomOccupant `json:"occupants,omitempty" gorm:"foreignKey:RoomAssignmentID;constraint:OnDelete:CASCADE;"`
}

// RoomOccupant places a customer in a room. A customer holds at most one bed
// per departure and hotel.
type RoomOccupant struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RoomAssignmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"room_assignment_id"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_occupant_trip_customer" json:"customer_id"`
	DepartureID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_occupant_trip_customer" json:"departure_id"`
	HotelID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_occupant_trip_customer" json:"hotel_id"`
	Gender           bookings.Gender `gorm:"type:varchar(10);not null" json:"gender"`
	AssignedBy       string          `gorm:"size:64" json:"assigned_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (RoomAssignment) TableName() string {
	return "room_assignments"
}

func (RoomOccupant) TableName() string {
	return "room_occupants"
}

func (r *RoomAssignment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (o *RoomOccupant) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
