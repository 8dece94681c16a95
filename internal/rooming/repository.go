package rooming

import (
	"context"
	"errors"

	"umrahcore/internal/bookings"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []bookings.BookingStatus{
	bookings.BookingConfirmed,
	bookings.BookingProcessing,
	bookings.BookingCompleted,
}

type Repository interface {
	// Passenger pairing
	GetPassenger(ctx context.Context, id uuid.UUID) (*bookings.Passenger, error)
	// LockPassengers row-locks the passengers in ascending id order.
	LockPassengers(ctx context.Context, ids []uuid.UUID) ([]bookings.Passenger, error)
	BookingStatuses(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]bookings.BookingStatus, error)
	SetRoommate(ctx context.Context, passengerID uuid.UUID, roommateID *uuid.UUID, roomNumber *string) error

	// Room allocation
	CreateRoom(ctx context.Context, room *RoomAssignment) error
	GetRoom(ctx context.Context, id uuid.UUID) (*RoomAssignment, error)
	GetRoomForUpdate(ctx context.Context, id uuid.UUID) (*RoomAssignment, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	ListRooms(ctx context.Context, departureID uuid.UUID, hotelID *uuid.UUID) ([]RoomAssignment, error)
	ListOccupants(ctx context.Context, roomID uuid.UUID) ([]RoomOccupant, error)
	FindOccupant(ctx context.Context, departureID, hotelID, customerID uuid.UUID) (*RoomOccupant, error)
	CreateOccupant(ctx context.Context, occupant *RoomOccupant) error
	DeleteOccupant(ctx context.Context, roomID, customerID uuid.UUID) (int64, error)

	// Customer directory projection
	GetCustomer(ctx context.Context, id uuid.UUID) (*bookings.Customer, error)
	HasActivePassenger(ctx context.Context, departureID, customerID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPassenger(ctx context.Context, id uuid.UUID) (*bookings.Passenger, error) {
	var passenger bookings.Passenger
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&passenger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("passenger")
		}
		return nil, err
	}
	return &passenger, nil
}

func (r *repository) LockPassengers(ctx context.Context, ids []uuid.UUID) ([]bookings.Passenger, error) {
	var passengers []bookings.Passenger
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Customer").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&passengers).Error
	return passengers, err
}

func (r *repository) BookingStatuses(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]bookings.BookingStatus, error) {
	var rows []struct {
		ID            uuid.UUID
		BookingStatus bookings.BookingStatus
	}
	err := database.Conn(ctx, r.db).
		Model(&bookings.Booking{}).
		Select("id, booking_status").
		Where("id IN ?", bookingIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	statuses := make(map[uuid.UUID]bookings.BookingStatus, len(rows))
	for _, row := range rows {
		statuses[row.ID] = row.BookingStatus
	}
	return statuses, nil
}

func (r *repository) SetRoommate(ctx context.Context, passengerID uuid.UUID, roommateID *uuid.UUID, roomNumber *string) error {
	res := database.Conn(ctx, r.db).
		Model(&bookings.Passenger{}).
		Where("id = ?", passengerID).
		Updates(map[string]interface{}{
			"roommate_id": roommateID,
			"room_number": roomNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("passenger")
	}
	return nil
}

func (r *repository) CreateRoom(ctx context.Context, room *RoomAssignment) error {
	return database.Conn(ctx, r.db).Create(room).Error
}

func (r *repository) GetRoom(ctx context.Context, id uuid.UUID) (*RoomAssignment, error) {
	var room RoomAssignment
	err := database.Conn(ctx, r.db).
		Preload("Occupants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (r *repository) GetRoomForUpdate(ctx context.Context, id uuid.UUID) (*RoomAssignment, error) {
	var room RoomAssignment
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (r *repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	res := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&RoomAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("room")
	}
	return nil
}

func (r *repository) ListRooms(ctx context.Context, departureID uuid.UUID, hotelID *uuid.UUID) ([]RoomAssignment, error) {
	var rooms []RoomAssignment
	q := database.Conn(ctx, r.db).
		Preload("Occupants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("departure_id = ?", departureID)
	if hotelID != nil {
		q = q.Where("hotel_id = ?", *hotelID)
	}
	err := q.Order("hotel_id ASC, room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (r *repository) ListOccupants(ctx context.Context, roomID uuid.UUID) ([]RoomOccupant, error) {
	var occupants []RoomOccupant
	err := database.Conn(ctx, r.db).
		Where("room_assignment_id = ?", roomID).
		Order("created_at ASC").
		Find(&occupants).Error
	return occupants, err
}

func (r *repository) FindOccupant(ctx context.Context, departureID, hotelID, customerID uuid.UUID) (*RoomOccupant, error) {
	var occupant RoomOccupant
	err := database.Conn(ctx, r.db).
		Where("departure_id = ? AND hotel_id = ? AND customer_id = ?", departureID, hotelID, customerID).
		First(&occupant).Error
	if err != nil {
		return nil, notFound(err, "occupant")
	}
	return &occupant, nil
}

func (r *repository) CreateOccupant(ctx context.Context, occupant *RoomOccupant) error {
	return database.Conn(ctx, r.db).Create(occupant).Error
}

func (r *repository) DeleteOccupant(ctx context.Context, roomID, customerID uuid.UUID) (int64, error) {
	res := database.Conn(ctx, r.db).
		Where("room_assignment_id = ? AND customer_id = ?", roomID, customerID).
		Delete(&RoomOccupant{})
	return res.RowsAffected, res.Error
}

func (r *repository) GetCustomer(ctx context.Context, id uuid.UUID) (*bookings.Customer, error) {
	var customer bookings.Customer
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, notFound(err, "customer")
	}
	return &customer, nil
}

func (r *repository) HasActivePassenger(ctx context.Context, departureID, customerID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&bookings.Passenger{}).
		Joins("JOIN bookings ON bookings.id = booking_passengers.booking_id").
		Where("booking_passengers.departure_id = ? AND booking_passengers.customer_id = ?", departureID, customerID).
		Where("bookings.booking_status IN ?", activeStatuses).
		Count(&count).Error
	return count > 0, err
}

func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	return err
}
