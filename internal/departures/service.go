package departures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/constants"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/cache"
	"umrahcore/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the departure inventory: the only component that changes
// booked_count.
type Service interface {
	Reserve(ctx context.Context, departureID uuid.UUID, pax int) (*Departure, error)
	Release(ctx context.Context, departureID uuid.UUID, pax int) (*Departure, error)
	IsDeparted(ctx context.Context, departureID uuid.UUID) (bool, error)

	CreateDeparture(ctx context.Context, req CreateDepartureRequest, actorID string) (*Departure, error)
	GetAvailability(ctx context.Context, departureID uuid.UUID) (*DepartureResponse, error)
	ListDepartures(ctx context.Context, query ListDeparturesQuery) ([]DepartureResponse, int64, error)
	Close(ctx context.Context, departureID uuid.UUID) (*Departure, error)
	Reopen(ctx context.Context, departureID uuid.UUID) (*Departure, error)
	MarkDeparted(ctx context.Context, departureID uuid.UUID) (*Departure, error)
}

type service struct {
	repo  Repository
	tx    database.Transactor
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

// NewService creates the inventory service. cacheService may be nil.
func NewService(repo Repository, tx database.Transactor, cacheService cache.Service, ttl time.Duration) Service {
	return &service{
		repo:  repo,
		tx:    tx,
		cache: cacheService,
		ttl:   ttl,
		log:   logger.GetDefault(),
	}
}

func (s *service) Reserve(ctx context.Context, departureID uuid.UUID, pax int) (*Departure, error) {
	if pax < 1 {
		return nil, apperror.Validation("pax count must be at least 1")
	}

	var reserved *Departure
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		departure, ok, err := s.repo.Reserve(ctx, departureID, pax)
		if err != nil {
			return fmt.Errorf("failed to reserve seats: %w", err)
		}
		if !ok {
			return s.rejection(ctx, departureID, pax)
		}
		reserved = departure
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, departureID)
	s.log.LogSeatsReserved(ctx, departureID.String(), pax, reserved.BookedCount, reserved.Quota)
	return reserved, nil
}

// rejection explains why the guarded update matched no row.
func (s *service) rejection(ctx context.Context, departureID uuid.UUID, pax int) error {
	departure, err := s.repo.GetByID(ctx, departureID)
	if err != nil {
		return err
	}
	switch departure.Status {
	case StatusClosed, StatusDeparted:
		return apperror.New(apperror.KindDepartureClosed, "departure is %s", departure.Status)
	case StatusFull:
		return apperror.New(apperror.KindCapacityExceeded, "departure is fully booked")
	}
	return apperror.New(apperror.KindCapacityExceeded,
		"insufficient capacity: only %d seats available, requested %d", departure.AvailableSeats(), pax)
}

func (s *service) Release(ctx context.Context, departureID uuid.UUID, pax int) (*Departure, error) {
	if pax < 1 {
		return nil, apperror.Validation("pax count must be at least 1")
	}

	var released *Departure
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		departure, ok, err := s.repo.Release(ctx, departureID, pax)
		if err != nil {
			return fmt.Errorf("failed to release seats: %w", err)
		}
		if !ok {
			return apperror.NotFound("departure")
		}
		released = departure
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, departureID)
	s.log.LogSeatsReleased(ctx, departureID.String(), pax, released.BookedCount)
	return released, nil
}

func (s *service) IsDeparted(ctx context.Context, departureID uuid.UUID) (bool, error) {
	departure, err := s.repo.GetByID(ctx, departureID)
	if err != nil {
		return false, err
	}
	return departure.Status.HasDeparted(), nil
}

func (s *service) CreateDeparture(ctx context.Context, req CreateDepartureRequest, actorID string) (*Departure, error) {
	if req.Quota < 1 {
		return nil, apperror.Validation("quota must be at least 1")
	}
	if !req.PricePerPax.IsPositive() {
		return nil, apperror.Validation("price per pax must be positive")
	}
	if req.ReturnDate != nil && req.ReturnDate.Before(req.DepartureDate) {
		return nil, apperror.Validation("return date must not be before departure date")
	}

	departure := &Departure{
		PackageName:   req.PackageName,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Quota:         req.Quota,
		BookedCount:   0,
		PricePerPax:   req.PricePerPax,
		Status:        StatusOpen,
		CreatedBy:     actorID,
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, departure)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, departure.ID)
	return departure, nil
}

func (s *service) GetAvailability(ctx context.Context, departureID uuid.UUID) (*DepartureResponse, error) {
	key := availabilityKey(departureID)
	if s.cache != nil {
		var cached DepartureResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("availability cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	departure, err := s.repo.GetByID(ctx, departureID)
	if err != nil {
		return nil, database.Classify(ctx, err)
	}
	resp := departure.ToResponse()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
			s.log.Warn("availability cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return &resp, nil
}

func (s *service) ListDepartures(ctx context.Context, query ListDeparturesQuery) ([]DepartureResponse, int64, error) {
	key := constants.BuildDepartureListKey(query.Page, query.Limit, query.Status, query.From, query.To)
	if s.cache != nil {
		var cached departurePage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Items, cached.Total, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("departure list cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	departures, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, database.Classify(ctx, err)
	}
	out := make([]DepartureResponse, 0, len(departures))
	for i := range departures {
		out = append(out, departures[i].ToResponse())
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, departurePage{Items: out, Total: total}, constants.TTL_DEPARTURES_LIST); err != nil {
			s.log.Warn("departure list cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return out, total, nil
}

func (s *service) Close(ctx context.Context, departureID uuid.UUID) (*Departure, error) {
	return s.setStatus(ctx, departureID, []Status{StatusOpen, StatusFull}, StatusClosed)
}

// Reopen returns a closed departure to sale; it reopens as full when the
// quota is already taken.
func (s *service) Reopen(ctx context.Context, departureID uuid.UUID) (*Departure, error) {
	to := gorm.Expr("CASE WHEN booked_count >= quota THEN ? ELSE ? END", StatusFull, StatusOpen)
	return s.setStatus(ctx, departureID, []Status{StatusClosed}, to)
}

func (s *service) MarkDeparted(ctx context.Context, departureID uuid.UUID) (*Departure, error) {
	return s.setStatus(ctx, departureID, []Status{StatusOpen, StatusFull, StatusClosed}, StatusDeparted)
}

func (s *service) setStatus(ctx context.Context, departureID uuid.UUID, from []Status, to interface{}) (*Departure, error) {
	var updated *Departure
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		departure, ok, err := s.repo.SetStatus(ctx, departureID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			current, err := s.repo.GetByID(ctx, departureID)
			if err != nil {
				return err
			}
			return apperror.InvalidTransition("departure cannot change status from %s", current.Status)
		}
		updated = departure
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, departureID)
	return updated, nil
}

func (s *service) invalidate(ctx context.Context, departureID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availabilityKey(departureID)); err != nil {
		s.log.Warn("availability cache invalidation failed", slog.String("departure_id", departureID.String()), slog.Any("error", err))
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_DEPARTURES_LIST); err != nil {
		s.log.Warn("departure list cache invalidation failed", slog.Any("error", err))
	}
}

func availabilityKey(departureID uuid.UUID) string {
	return constants.BuildDepartureAvailabilityKey(departureID.String())
}

// departurePage is the cached form of one list page
type departurePage struct {
	Items []DepartureResponse `json:"items"`
	Total int64               `json:"total"`
}
