package payments

import (
	"context"
	"errors"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Booking payments
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	// GetPaymentForUpdate row-locks the payment until the transaction ends.
	GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	TotalsByStatus(ctx context.Context, bookingID uuid.UUID) ([]paymentTotals, error)

	// Savings and installment plans
	CreatePlan(ctx context.Context, plan *Plan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error)
	GetPlanForUpdate(ctx context.Context, id uuid.UUID) (*Plan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListPlansByCustomer(ctx context.Context, customerID uuid.UUID) ([]Plan, error)
	CreatePlanPayment(ctx context.Context, payment *PlanPayment) error
	GetPlanPaymentForUpdate(ctx context.Context, id uuid.UUID) (*PlanPayment, error)
	UpdatePlanPayment(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePayment(ctx context.Context, payment *Payment) error {
	return database.Conn(ctx, r.db).Create(payment).Error
}

func (r *repository) GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return &payment, nil
}

func (r *repository) GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, notFound(err, "payment")
	}
	return &payment, nil
}

func (r *repository) UpdatePayment(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&Payment{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("payment")
	}
	return nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := database.Conn(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) TotalsByStatus(ctx context.Context, bookingID uuid.UUID) ([]paymentTotals, error) {
	var totals []paymentTotals
	err := database.Conn(ctx, r.db).
		Model(&Payment{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("booking_id = ?", bookingID).
		Group("status").
		Scan(&totals).Error
	return totals, err
}

func (r *repository) CreatePlan(ctx context.Context, plan *Plan) error {
	return database.Conn(ctx, r.db).Create(plan).Error
}

func (r *repository) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	var plan Plan
	err := database.Conn(ctx, r.db).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, notFound(err, "plan")
	}
	return &plan, nil
}

func (r *repository) GetPlanForUpdate(ctx context.Context, id uuid.UUID) (*Plan, error) {
	var plan Plan
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, notFound(err, "plan")
	}
	return &plan, nil
}

func (r *repository) UpdatePlan(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&Plan{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("plan")
	}
	return nil
}

func (r *repository) ListPlansByCustomer(ctx context.Context, customerID uuid.UUID) ([]Plan, error) {
	var plans []Plan
	err := database.Conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repository) CreatePlanPayment(ctx context.Context, payment *PlanPayment) error {
	return database.Conn(ctx, r.db).Create(payment).Error
}

func (r *repository) GetPlanPaymentForUpdate(ctx context.Context, id uuid.UUID) (*PlanPayment, error) {
	var payment PlanPayment
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, notFound(err, "plan payment")
	}
	return &payment, nil
}

func (r *repository) UpdatePlanPayment(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := database.Conn(ctx, r.db).Model(&PlanPayment{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("plan payment")
	}
	return nil
}

func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	return err
}
