package rooming

import (
	"context"
	"log/slog"
	"sort"

	"umrahcore/internal/bookings"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"
	"umrahcore/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Pair makes two double/sharing passengers of one departure roommates.
	Pair(ctx context.Context, passengerA, passengerB uuid.UUID, roomNumber *string) (*Pairing, error)
	// Unpair clears the roommate link on both sides.
	Unpair(ctx context.Context, passengerID uuid.UUID) (*Pairing, error)

	CreateRoom(ctx context.Context, req CreateRoomRequest, actorID string) (*RoomAssignment, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomAssignment, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
	ListRooms(ctx context.Context, departureID uuid.UUID, hotelID *uuid.UUID) ([]RoomAssignment, error)
	Assign(ctx context.Context, roomID, customerID uuid.UUID, actorID string) (*RoomOccupant, error)
	Unassign(ctx context.Context, roomID, customerID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   database.Transactor
	log  *logger.Logger
}

func NewService(repo Repository, tx database.Transactor) Service {
	return &service{repo: repo, tx: tx, log: logger.GetDefault()}
}

func (s *service) Pair(ctx context.Context, passengerA, passengerB uuid.UUID, roomNumber *string) (*Pairing, error) {
	if passengerA == passengerB {
		return nil, apperror.Validation("a passenger cannot be paired with themselves")
	}

	var pairing *Pairing
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, b, err := s.lockPair(ctx, passengerA, passengerB)
		if err != nil {
			return err
		}
		if err := s.checkPairable(ctx, a, b); err != nil {
			return err
		}

		if err := s.repo.SetRoommate(ctx, a.ID, &b.ID, roomNumber); err != nil {
			return err
		}
		if err := s.repo.SetRoommate(ctx, b.ID, &a.ID, roomNumber); err != nil {
			return err
		}
		a.RoommateID, a.RoomNumber = &b.ID, roomNumber
		b.RoommateID, b.RoomNumber = &a.ID, roomNumber

		pairing = &Pairing{A: a.ToResponse(), B: b.ToResponse()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Passengers Paired",
		slog.String("passenger_a", passengerA.String()),
		slog.String("passenger_b", passengerB.String()),
	)
	return pairing, nil
}

// lockPair locks both rows and returns them in argument order.
func (s *service) lockPair(ctx context.Context, first, second uuid.UUID) (*bookings.Passenger, *bookings.Passenger, error) {
	ids := []uuid.UUID{first, second}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	rows, err := s.repo.LockPassengers(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	var a, b *bookings.Passenger
	for i := range rows {
		switch rows[i].ID {
		case first:
			a = &rows[i]
		case second:
			b = &rows[i]
		}
	}
	if a == nil || b == nil {
		return nil, nil, apperror.NotFound("passenger")
	}
	return a, b, nil
}

func (s *service) checkPairable(ctx context.Context, a, b *bookings.Passenger) error {
	if a.DepartureID != b.DepartureID {
		return apperror.Validation("passengers are on different departures")
	}
	for _, p := range []*bookings.Passenger{a, b} {
		if !p.RoomPreference.Pairable() {
			return apperror.Validation("passenger %s prefers a %s room", p.ID, p.RoomPreference)
		}
		if p.Customer == nil {
			return apperror.NotFound("customer")
		}
	}

	statuses, err := s.repo.BookingStatuses(ctx, []uuid.UUID{a.BookingID, b.BookingID})
	if err != nil {
		return err
	}
	for _, p := range []*bookings.Passenger{a, b} {
		if status := statuses[p.BookingID]; !status.IsActive() {
			return apperror.InvalidTransition("booking of passenger %s is %s", p.ID, status)
		}
	}

	if a.Customer.Gender != b.Customer.Gender {
		return apperror.New(apperror.KindGenderMismatch, "cannot pair a %s with a %s passenger", a.Customer.Gender, b.Customer.Gender)
	}
	if a.RoommateID != nil || b.RoommateID != nil {
		return apperror.New(apperror.KindAlreadyPaired, "a passenger already has a roommate")
	}
	return nil
}

func (s *service) Unpair(ctx context.Context, passengerID uuid.UUID) (*Pairing, error) {
	var pairing *Pairing
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		passenger, err := s.repo.GetPassenger(ctx, passengerID)
		if err != nil {
			return err
		}
		if passenger.RoommateID == nil {
			return apperror.Validation("passenger has no roommate")
		}

		// Both rows are locked in one ordered call; the link is re-checked under the lock.
		a, b, err := s.lockPair(ctx, passengerID, *passenger.RoommateID)
		if err != nil {
			return err
		}
		if a.RoommateID == nil {
			return apperror.Validation("passenger has no roommate")
		}
		if *a.RoommateID != b.ID || b.RoommateID == nil || *b.RoommateID != a.ID {
			return apperror.New(apperror.KindPersistenceConflict, "roommate of passenger %s changed", a.ID)
		}
		for _, p := range []*bookings.Passenger{a, b} {
			if err := s.repo.SetRoommate(ctx, p.ID, nil, nil); err != nil {
				return err
			}
			p.RoommateID, p.RoomNumber = nil, nil
		}
		pairing = &Pairing{A: a.ToResponse(), B: b.ToResponse()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Passengers Unpaired", slog.String("passenger_id", passengerID.String()))
	return pairing, nil
}

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest, actorID string) (*RoomAssignment, error) {
	departureID, err := uuid.Parse(req.DepartureID)
	if err != nil {
		return nil, apperror.Validation("invalid departure ID")
	}
	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, apperror.Validation("invalid hotel ID")
	}
	capacity := req.RoomType.Capacity()
	if capacity == 0 {
		return nil, apperror.Validation("unknown room type %q", req.RoomType)
	}
	if req.RoomNumber == "" {
		return nil, apperror.Validation("room number is required")
	}

	room := &RoomAssignment{
		DepartureID: departureID,
		HotelID:     hotelID,
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		Capacity:    capacity,
		CreatedBy:   actorID,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomAssignment, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	return room, database.Classify(ctx, err)
}

func (s *service) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetRoomForUpdate(ctx, roomID); err != nil {
			return err
		}
		occupants, err := s.repo.ListOccupants(ctx, roomID)
		if err != nil {
			return err
		}
		if len(occupants) > 0 {
			return apperror.Validation("room still has %d occupants", len(occupants))
		}
		return s.repo.DeleteRoom(ctx, roomID)
	})
}

func (s *service) ListRooms(ctx context.Context, departureID uuid.UUID, hotelID *uuid.UUID) ([]RoomAssignment, error) {
	rooms, err := s.repo.ListRooms(ctx, departureID, hotelID)
	return rooms, database.Classify(ctx, err)
}

// Assign places a customer in a room. The room row lock serialises
// concurrent assignments to the same room.
func (s *service) Assign(ctx context.Context, roomID, customerID uuid.UUID, actorID string) (*RoomOccupant, error) {
	var occupant *RoomOccupant
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		room, err := s.repo.GetRoomForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		occupants, err := s.repo.ListOccupants(ctx, roomID)
		if err != nil {
			return err
		}
		for _, o := range occupants {
			if o.CustomerID == customerID {
				return apperror.New(apperror.KindAlreadyAssigned, "customer is already in room %s", room.RoomNumber)
			}
		}
		if len(occupants) >= room.Capacity {
			return apperror.New(apperror.KindRoomFull, "room %s is full", room.RoomNumber)
		}

		customer, err := s.repo.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		active, err := s.repo.HasActivePassenger(ctx, room.DepartureID, customerID)
		if err != nil {
			return err
		}
		if !active {
			return apperror.Validation("customer has no active booking on this departure")
		}
		if len(occupants) > 0 && occupants[0].Gender != customer.Gender {
			return apperror.New(apperror.KindGenderMismatch, "room %s is occupied by %s guests", room.RoomNumber, occupants[0].Gender)
		}

		if existing, err := s.repo.FindOccupant(ctx, room.DepartureID, room.HotelID, customerID); err == nil {
			return apperror.New(apperror.KindAlreadyAssigned, "customer already occupies room %s", existing.RoomAssignmentID)
		} else if apperror.KindOf(err) != apperror.KindNotFound {
			return err
		}

		occupant = &RoomOccupant{
			RoomAssignmentID: room.ID,
			CustomerID:       customerID,
			DepartureID:      room.DepartureID,
			HotelID:          room.HotelID,
			Gender:           customer.Gender,
			AssignedBy:       actorID,
		}
		if err := s.repo.CreateOccupant(ctx, occupant); err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.New(apperror.KindAlreadyAssigned, "customer already has a room on this departure")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Room Assigned",
		slog.String("room_id", roomID.String()),
		slog.String("customer_id", customerID.String()),
	)
	return occupant, nil
}

func (s *service) Unassign(ctx context.Context, roomID, customerID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetRoomForUpdate(ctx, roomID); err != nil {
			return err
		}
		n, err := s.repo.DeleteOccupant(ctx, roomID, customerID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("occupant")
		}
		return nil
	})
}
