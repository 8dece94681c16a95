package departures

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
	Create(ctx context.Context, departure *Departure) error
	GetByID(ctx context.Context, id uuid.UUID) (*Departure, error)
	List(ctx context.Context, query ListDeparturesQuery) ([]Departure, int64, error)

	// Conditional single-statement updates. The bool reports whether the
	// row matched the guard; the returned departure is the post-update row.
	Reserve(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error)
	Release(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, from []Status, to interface{}) (*Departure, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, departure *Departure) error {
	return database.Conn(ctx, r.db).Create(departure).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Departure, error) {
	var departure Departure
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&departure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("departure")
		}
		return nil, err
	}
	return &departure, nil
}

func (r *repository) List(ctx context.Context, query ListDeparturesQuery) ([]Departure, int64, error) {
	var departures []Departure
	var total int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := database.Conn(ctx, r.db).Model(&Departure{})
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.From != "" {
		if from, err := time.Parse("2006-01-02", query.From); err == nil {
			base = base.Where("departure_date >= ?", from)
		}
	}
	if query.To != "" {
		if to, err := time.Parse("2006-01-02", query.To); err == nil {
			base = base.Where("departure_date < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("departure_date ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&departures).Error

	return departures, total, err
}

// Reserve checks and increments in one statement so two concurrent
// reservations can never both see the last free seats.
func (r *repository) Reserve(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error) {
	var departure Departure
	res := database.Conn(ctx, r.db).
		Model(&departure).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ? AND booked_count + ? <= quota", id, StatusOpen, pax).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count + ?", pax),
			"status":       gorm.Expr("CASE WHEN booked_count + ? >= quota THEN ? ELSE status END", pax, StatusFull),
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &departure, res.RowsAffected == 1, nil
}

func (r *repository) Release(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error) {
	var departure Departure
	res := database.Conn(ctx, r.db).
		Model(&departure).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("GREATEST(booked_count - ?, 0)", pax),
			"status":       gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", StatusFull, StatusOpen),
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &departure, res.RowsAffected == 1, nil
}

// SetStatus moves a departure to `to` (a Status or a gorm expression) if its
// current status is one of `from`.
func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, from []Status, to interface{}) (*Departure, bool, error) {
	var departure Departure
	res := database.Conn(ctx, r.db).
		Model(&departure).
		Clauses(clause.Returning{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &departure, res.RowsAffected == 1, nil
}
