package commissions

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
	CreateAgent(ctx context.Context, agent *Agent) error
	GetAgent(ctx context.Context, id uuid.UUID) (*Agent, error)
	ListAgents(ctx context.Context, activeOnly bool) ([]Agent, error)

	Create(ctx context.Context, commission *Commission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Commission, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*Commission, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, query ListCommissionsQuery) ([]Commission, int64, error)
	TotalsByStatus(ctx context.Context, agentID uuid.UUID) ([]statusTotal, error)

	// MarkPaid flips a pending commission to paid. The bool is false when the
	// row was not pending.
	MarkPaid(ctx context.Context, id uuid.UUID, paidBy string, at time.Time) (*Commission, bool, error)
	// VoidPending voids the booking's commission if it is still pending.
	VoidPending(ctx context.Context, bookingID uuid.UUID, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAgent(ctx context.Context, agent *Agent) error {
	return database.Conn(ctx, r.db).Create(agent).Error
}

func (r *repository) GetAgent(ctx context.Context, id uuid.UUID) (*Agent, error) {
	var agent Agent
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("agent")
		}
		return nil, err
	}
	return &agent, nil
}

func (r *repository) ListAgents(ctx context.Context, activeOnly bool) ([]Agent, error) {
	var agents []Agent
	q := database.Conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&agents).Error
	return agents, err
}

func (r *repository) Create(ctx context.Context, commission *Commission) error {
	return database.Conn(ctx, r.db).Create(commission).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Commission, error) {
	var commission Commission
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("commission")
		}
		return nil, err
	}
	return &commission, nil
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*Commission, error) {
	var commission Commission
	if err := database.Conn(ctx, r.db).Where("booking_id = ?", bookingID).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("commission")
		}
		return nil, err
	}
	return &commission, nil
}

func (r *repository) ListByAgent(ctx context.Context, agentID uuid.UUID, query ListCommissionsQuery) ([]Commission, int64, error) {
	var commissions []Commission
	var total int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := database.Conn(ctx, r.db).Model(&Commission{}).Where("agent_id = ?", agentID)
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&commissions).Error

	return commissions, total, err
}

func (r *repository) TotalsByStatus(ctx context.Context, agentID uuid.UUID) ([]statusTotal, error) {
	var totals []statusTotal
	err := database.Conn(ctx, r.db).
		Model(&Commission{}).
		Select("status, COALESCE(SUM(commission_amount), 0) AS total, COUNT(*) AS count").
		Where("agent_id = ?", agentID).
		Group("status").
		Scan(&totals).Error
	return totals, err
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidBy string, at time.Time) (*Commission, bool, error) {
	var commission Commission
	res := database.Conn(ctx, r.db).
		Model(&commission).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":  StatusPaid,
			"paid_at": at,
			"paid_by": paidBy,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &commission, res.RowsAffected == 1, nil
}

func (r *repository) VoidPending(ctx context.Context, bookingID uuid.UUID, at time.Time) (int64, error) {
	res := database.Conn(ctx, r.db).
		Model(&Commission{}).
		Where("booking_id = ? AND status = ?", bookingID, StatusPending).
		Updates(map[string]interface{}{
			"status":    StatusVoided,
			"voided_at": at,
		})
	return res.RowsAffected, res.Error
}
