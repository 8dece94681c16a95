package bookings

import (
	"context"
	"errors"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Core booking operations
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error)
	// GetBookingForUpdate row-locks the booking until the transaction ends.
	GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Customer directory projection
	CountCustomers(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return database.Conn(ctx, r.db).Omit("Passengers.Customer").Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := database.Conn(ctx, r.db).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Passengers.Customer").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (r *repository) UpdateBooking(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&Booking{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("booking")
	}
	return nil
}

func (r *repository) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.applyFilters(database.Conn(ctx, r.db).Model(&Booking{}), query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) CountCustomers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&Customer{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.BookingStatus != "" {
		query = query.Where("booking_status = ?", filters.BookingStatus)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}

	idFilters := []struct{ column, raw string }{
		{"departure_id", filters.DepartureID},
		{"customer_id", filters.CustomerID},
		{"agent_id", filters.AgentID},
	}
	for _, f := range idFilters {
		if f.raw == "" {
			continue
		}
		if id, err := uuid.Parse(f.raw); err == nil {
			query = query.Where(f.column+" = ?", id)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}
	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			query = query.Where("created_at < ?", dateTo.AddDate(0, 0, 1))
		}
	}

	return query
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("booking")
	}
	return err
}
