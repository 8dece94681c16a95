package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"umrahcore/internal/bookings"
	"umrahcore/internal/commissions"
	"umrahcore/internal/departures"
	"umrahcore/internal/schema"
	"umrahcore/internal/shared/config"
	"umrahcore/internal/shared/database"
	"umrahcore/internal/shared/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting Umrah Core Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := schema.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	seeder := &Seeder{db: db, cfg: cfg}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🔑 Development tokens (24h):")
	if err := seeder.PrintTokens(); err != nil {
		log.Fatalf("Failed to sign tokens: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"room_occupants",
		"room_assignments",
		"agent_commissions",
		"plan_payments",
		"payment_plans",
		"payments",
		"booking_passengers",
		"bookings",
		"agents",
		"customers",
		"departures",
	}

	tx := s.db.PostgreSQL.Begin()
	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	if err := s.SeedDepartures(); err != nil {
		return fmt.Errorf("failed to seed departures: %w", err)
	}
	if err := s.SeedAgents(); err != nil {
		return fmt.Errorf("failed to seed agents: %w", err)
	}
	if err := s.SeedCustomers(); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	// Cached availability would point at truncated rows
	if rdb := s.db.GetRedis(); rdb != nil {
		if err := rdb.FlushDB(context.Background()).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

func (s *Seeder) SeedDepartures() error {
	fmt.Println("  🕋 Seeding departures...")

	data := []struct {
		name  string
		date  time.Time
		days  int
		quota int
		price int64
	}{
		{"Umrah Reguler 9 Hari", time.Now().AddDate(0, 2, 0), 9, 45, 29_500_000},
		{"Umrah Plus Turki 12 Hari", time.Now().AddDate(0, 3, 0), 12, 40, 38_000_000},
		{"Umrah Ramadhan 15 Hari", time.Now().AddDate(0, 5, 0), 15, 30, 42_750_000},
	}

	for _, d := range data {
		returnDate := d.date.AddDate(0, 0, d.days)
		departure := departures.Departure{
			PackageName:   d.name,
			DepartureDate: d.date.Truncate(24 * time.Hour),
			ReturnDate:    &returnDate,
			Quota:         d.quota,
			PricePerPax:   decimal.NewFromInt(d.price),
			Status:        departures.StatusOpen,
			CreatedBy:     "seeder",
		}
		if err := s.db.PostgreSQL.Create(&departure).Error; err != nil {
			return fmt.Errorf("failed to create departure %s: %w", d.name, err)
		}
		fmt.Printf("    ✅ Created departure: %s (%d seats)\n", departure.PackageName, departure.Quota)
	}
	return nil
}

func (s *Seeder) SeedAgents() error {
	fmt.Println("  🤝 Seeding agents...")

	data := []struct {
		name, email string
		rate        string
	}{
		{"Barokah Travel Bekasi", "barokah@agents.test", "5"},
		{"Al-Hijrah Tour Bandung", "alhijrah@agents.test", "3.5"},
	}

	for _, a := range data {
		agent := commissions.Agent{
			Name:           a.name,
			Email:          a.email,
			CommissionRate: decimal.RequireFromString(a.rate),
			IsActive:       true,
		}
		if err := s.db.PostgreSQL.Create(&agent).Error; err != nil {
			return fmt.Errorf("failed to create agent %s: %w", a.name, err)
		}
		fmt.Printf("    ✅ Created agent: %s (%s%%)\n", agent.Name, agent.CommissionRate)
	}
	return nil
}

func (s *Seeder) SeedCustomers() error {
	fmt.Println("  👤 Seeding customers...")

	data := []struct {
		name   string
		gender bookings.Gender
	}{
		{"Ahmad Fauzi", bookings.GenderMale},
		{"Budi Santoso", bookings.GenderMale},
		{"Hasan Basri", bookings.GenderMale},
		{"Siti Aminah", bookings.GenderFemale},
		{"Nur Aisyah", bookings.GenderFemale},
		{"Fatimah Zahra", bookings.GenderFemale},
	}

	for _, c := range data {
		customer := bookings.Customer{
			ID:       uuid.New(),
			FullName: c.name,
			Gender:   c.gender,
		}
		if err := s.db.PostgreSQL.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to create customer %s: %w", c.name, err)
		}
		fmt.Printf("    ✅ Created customer: %s (%s) %s\n", customer.FullName, customer.Gender, customer.ID)
	}
	return nil
}

// PrintTokens signs one access token per role with the configured secret
func (s *Seeder) PrintTokens() error {
	for _, role := range []string{middleware.RoleAdmin, middleware.RoleStaff, middleware.RoleAgent} {
		claims := jwt.MapClaims{
			"user_id": uuid.NewString(),
			"email":   fmt.Sprintf("%s@umrah.test", role),
			"role":    role,
			"type":    "access",
			"exp":     time.Now().Add(24 * time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.Secret))
		if err != nil {
			return err
		}
		fmt.Printf("  %-5s %s\n", role, token)
	}
	return nil
}
