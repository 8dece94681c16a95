// Package schema owns table creation for every module.
package schema

import (
	"fmt"

	"umrahcore/internal/bookings"
	"umrahcore/internal/commissions"
	"umrahcore/internal/departures"
	"umrahcore/internal/payments"
	"umrahcore/internal/rooming"

	"gorm.io/gorm"
)

// Models lists the tables in dependency order
func Models() []interface{} {
	return []interface{}{
		&departures.Departure{},
		&bookings.Customer{},
		&commissions.Agent{},
		&bookings.Booking{},
		&bookings.Passenger{},
		&payments.Payment{},
		&payments.Plan{},
		&payments.PlanPayment{},
		&commissions.Commission{},
		&rooming.RoomAssignment{},
		&rooming.RoomOccupant{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return MigrateConstraints(db)
}

// constraint is a CHECK added once; re-running the migration is a no-op.
type constraint struct {
	table, name, check string
}

var statusConstraints = []constraint{
	{"departures", "chk_departures_status", "status IN ('open', 'closed', 'full', 'departed')"},
	{"bookings", "chk_bookings_status", "booking_status IN ('pending', 'confirmed', 'processing', 'completed', 'cancelled', 'refunded')"},
	{"bookings", "chk_bookings_payment_status", "payment_status IN ('pending', 'partial', 'paid', 'refunded', 'failed')"},
	{"payments", "chk_payments_status", "status IN ('pending', 'paid', 'failed')"},
	{"payment_plans", "chk_plans_kind", "kind IN ('savings', 'installment')"},
	{"payment_plans", "chk_plans_status", "status IN ('active', 'completed', 'cancelled')"},
	{"plan_payments", "chk_plan_payments_status", "status IN ('pending', 'paid', 'failed')"},
	{"agent_commissions", "chk_commissions_status", "status IN ('pending', 'paid', 'voided')"},
	{"booking_passengers", "chk_passengers_not_self_paired", "roommate_id IS NULL OR roommate_id <> id"},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_payments_booking_status ON payments (booking_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_departure_status ON bookings (departure_id, booking_status)`,
	`CREATE INDEX IF NOT EXISTS idx_passengers_departure_customer ON booking_passengers (departure_id, customer_id)`,
}

// MigrateConstraints adds the status checks and lookup indexes the models
// cannot express.
func MigrateConstraints(db *gorm.DB) error {
	for _, c := range statusConstraints {
		stmt := fmt.Sprintf(`DO $$ BEGIN
	ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$`, c.table, c.name, c.check)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}
	return nil
}
