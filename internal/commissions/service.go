package commissions

import (
	"context"
	"log/slog"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	OnBookingCreated(ctx context.Context, booking BookingCreated) (*Commission, error)
	OnBookingCancelled(ctx context.Context, bookingID uuid.UUID) (bool, error)
	MarkPaid(ctx context.Context, commissionID uuid.UUID, actorID string) (*Commission, error)

	CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error)
	GetAgent(ctx context.Context, agentID uuid.UUID) (*Agent, error)
	ListAgents(ctx context.Context) ([]Agent, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, query ListCommissionsQuery) ([]Commission, int64, error)
	Summary(ctx context.Context, agentID uuid.UUID) (*Summary, error)
}

type service struct {
	repo Repository
	tx   database.Transactor
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, tx database.Transactor) Service {
	return &service{
		repo: repo,
		tx:   tx,
		log:  logger.GetDefault(),
		now:  time.Now,
	}
}

// OnBookingCreated records the agent's commission at the agent's current rate.
// It joins the caller's transaction so a failure here rolls back the booking.
func (s *service) OnBookingCreated(ctx context.Context, booking BookingCreated) (*Commission, error) {
	var commission *Commission
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		agent, err := s.repo.GetAgent(ctx, booking.AgentID)
		if err != nil {
			return err
		}
		if !agent.IsActive {
			return apperror.Validation("agent %s is inactive", agent.ID)
		}

		commission = &Commission{
			AgentID:          agent.ID,
			BookingID:        booking.BookingID,
			BookingTotal:     booking.TotalPrice,
			RateApplied:      agent.CommissionRate,
			CommissionAmount: Calculate(booking.TotalPrice, agent.CommissionRate),
			Status:           StatusPending,
		}
		return s.repo.Create(ctx, commission)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Commission Recorded",
		slog.String("commission_id", commission.ID.String()),
		slog.String("agent_id", commission.AgentID.String()),
		slog.String("booking_id", commission.BookingID.String()),
		slog.String("amount", commission.CommissionAmount.StringFixed(2)),
	)
	return commission, nil
}

// OnBookingCancelled voids a pending commission. Paid commissions were
// already disbursed and stay as they are.
func (s *service) OnBookingCancelled(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var voided int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		voided, err = s.repo.VoidPending(ctx, bookingID, s.now())
		return err
	})
	if err != nil {
		return false, err
	}
	if voided > 0 {
		s.log.InfoContext(ctx, "Commission Voided", slog.String("booking_id", bookingID.String()))
	}
	return voided > 0, nil
}

func (s *service) MarkPaid(ctx context.Context, commissionID uuid.UUID, actorID string) (*Commission, error) {
	var paid *Commission
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		commission, ok, err := s.repo.MarkPaid(ctx, commissionID, actorID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.repo.GetByID(ctx, commissionID)
			if err != nil {
				return err
			}
			return apperror.InvalidTransition("commission is already %s", current.Status)
		}
		paid = commission
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Commission Paid",
		slog.String("commission_id", paid.ID.String()),
		slog.String("paid_by", actorID),
	)
	return paid, nil
}

func (s *service) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(hundred) {
		return nil, apperror.Validation("commission rate must be between 0 and 100")
	}

	agent := &Agent{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate.Round(2),
		IsActive:       true,
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateAgent(ctx, agent)
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *service) GetAgent(ctx context.Context, agentID uuid.UUID) (*Agent, error) {
	agent, err := s.repo.GetAgent(ctx, agentID)
	return agent, database.Classify(ctx, err)
}

func (s *service) ListAgents(ctx context.Context) ([]Agent, error) {
	agents, err := s.repo.ListAgents(ctx, false)
	return agents, database.Classify(ctx, err)
}

func (s *service) ListByAgent(ctx context.Context, agentID uuid.UUID, query ListCommissionsQuery) ([]Commission, int64, error) {
	if _, err := s.repo.GetAgent(ctx, agentID); err != nil {
		return nil, 0, database.Classify(ctx, err)
	}
	items, total, err := s.repo.ListByAgent(ctx, agentID, query)
	return items, total, database.Classify(ctx, err)
}

func (s *service) Summary(ctx context.Context, agentID uuid.UUID) (*Summary, error) {
	if _, err := s.repo.GetAgent(ctx, agentID); err != nil {
		return nil, database.Classify(ctx, err)
	}
	totals, err := s.repo.TotalsByStatus(ctx, agentID)
	if err != nil {
		return nil, database.Classify(ctx, err)
	}

	summary := &Summary{AgentID: agentID.String()}
	for _, t := range totals {
		switch t.Status {
		case StatusPending:
			summary.PendingTotal = t.Total
			summary.PendingCount = t.Count
		case StatusPaid:
			summary.PaidTotal = t.Total
			summary.PaidCount = t.Count
		case StatusVoided:
			summary.VoidedCount = t.Count
		}
	}
	return summary, nil
}
