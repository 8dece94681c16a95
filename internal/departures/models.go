package departures

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Departure is one scheduled trip of a package with a finite seat quota.
// booked_count is written only through Reserve and Release.
type Departure struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PackageName   string          `gorm:"size:255;not null" json:"package_name"`
	DepartureDate time.Time       `gorm:"not null;index" json:"departure_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Quota         int             `gorm:"not null;check:chk_departures_quota,quota >= 1" json:"quota"`
	BookedCount   int             `gorm:"not null;default:0;check:chk_departures_booked,booked_count >= 0 AND booked_count <= quota" json:"booked_count"`
	PricePerPax   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price_per_pax"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	CreatedBy     string          `gorm:"size:64" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName sets the table name for Departure
func (Departure) TableName() string {
	return "departures"
}

func (d *Departure) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// AvailableSeats returns the unreserved part of the quota
func (d *Departure) AvailableSeats() int {
	if d.BookedCount >= d.Quota {
		return 0
	}
	return d.Quota - d.BookedCount
}
