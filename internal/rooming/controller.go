package rooming

import (
	"net/http"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/middleware"
	"umrahcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// PairPassengers godoc
// @Summary      Pair two passengers as roommates
// @Tags         rooming
// @Accept       json
// @Produce      json
// @Param        request  body      PairRequest  true  "Pair"
// @Success      200      {object}  response.StandardApiResponse{data=Pairing}
// @Failure      409      {object}  response.StandardApiResponse
// @Failure      422      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/rooming/pairs [post]
func (c *Controller) PairPassengers(ctx *gin.Context) {
	var req PairRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	pairing, err := c.service.Pair(ctx.Request.Context(), uuid.MustParse(req.PassengerA), uuid.MustParse(req.PassengerB), req.RoomNumber)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Passengers paired", pairing, nil)
}

// UnpairPassenger godoc
// @Summary      Remove a roommate pairing
// @Tags         rooming
// @Produce      json
// @Param        passengerId  path      string  true  "Passenger ID"
// @Success      200          {object}  response.StandardApiResponse{data=Pairing}
// @Security     BearerAuth
// @Router       /admin/rooming/pairs/{passengerId} [delete]
func (c *Controller) UnpairPassenger(ctx *gin.Context) {
	passengerID, ok := parseParam(ctx, "passengerId", "passenger")
	if !ok {
		return
	}

	pairing, err := c.service.Unpair(ctx.Request.Context(), passengerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Passengers unpaired", pairing, nil)
}

// CreateRoom godoc
// @Summary      Add a hotel room to a departure
// @Tags         rooming
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRoomRequest  true  "Room"
// @Success      201      {object}  response.StandardApiResponse{data=RoomResponse}
// @Security     BearerAuth
// @Router       /admin/rooming/rooms [post]
func (c *Controller) CreateRoom(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	room, err := c.service.CreateRoom(ctx.Request.Context(), req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Room created successfully", room.ToResponse(), nil)
}

// ListRooms godoc
// @Summary      Rooms of a departure with occupants
// @Tags         rooming
// @Produce      json
// @Param        departure_id  query     string  true   "Departure ID"
// @Param        hotel_id      query     string  false  "Hotel ID"
// @Success      200           {object}  response.StandardApiResponse{data=[]RoomResponse}
// @Security     BearerAuth
// @Router       /admin/rooming/rooms [get]
func (c *Controller) ListRooms(ctx *gin.Context) {
	var query ListRoomsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	var hotelID *uuid.UUID
	if query.HotelID != "" {
		id := uuid.MustParse(query.HotelID)
		hotelID = &id
	}
	rooms, err := c.service.ListRooms(ctx.Request.Context(), uuid.MustParse(query.DepartureID), hotelID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	items := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, rooms[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Rooms retrieved successfully", items, nil)
}

// GetRoom godoc
// @Summary      Get a room with occupants
// @Tags         rooming
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  response.StandardApiResponse{data=RoomResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/rooming/rooms/{id} [get]
func (c *Controller) GetRoom(ctx *gin.Context) {
	roomID, ok := parseParam(ctx, "id", "room")
	if !ok {
		return
	}

	room, err := c.service.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room retrieved successfully", room.ToResponse(), nil)
}

// DeleteRoom godoc
// @Summary      Delete an empty room
// @Tags         rooming
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/rooming/rooms/{id} [delete]
func (c *Controller) DeleteRoom(ctx *gin.Context) {
	roomID, ok := parseParam(ctx, "id", "room")
	if !ok {
		return
	}

	if err := c.service.DeleteRoom(ctx.Request.Context(), roomID); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Room deleted", nil, nil)
}

// AssignOccupant godoc
// @Summary      Put a customer in a room
// @Tags         rooming
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "Room ID"
// @Param        request  body      AssignRequest  true  "Customer"
// @Success      201      {object}  response.StandardApiResponse{data=RoomOccupant}
// @Failure      409      {object}  response.StandardApiResponse
// @Failure      422      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/rooming/rooms/{id}/occupants [post]
func (c *Controller) AssignOccupant(ctx *gin.Context) {
	roomID, ok := parseParam(ctx, "id", "room")
	if !ok {
		return
	}
	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	occupant, err := c.service.Assign(ctx.Request.Context(), roomID, uuid.MustParse(req.CustomerID), middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Customer assigned", occupant, nil)
}

// UnassignOccupant godoc
// @Summary      Take a customer out of a room
// @Tags         rooming
// @Produce      json
// @Param        id          path      string  true  "Room ID"
// @Param        customerId  path      string  true  "Customer ID"
// @Success      200         {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/rooming/rooms/{id}/occupants/{customerId} [delete]
func (c *Controller) UnassignOccupant(ctx *gin.Context) {
	roomID, ok := parseParam(ctx, "id", "room")
	if !ok {
		return
	}
	customerID, ok := parseParam(ctx, "customerId", "customer")
	if !ok {
		return
	}

	if err := c.service.Unassign(ctx.Request.Context(), roomID, customerID); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Customer unassigned", nil, nil)
}

func parseParam(ctx *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("invalid %s ID", resource))
		return uuid.Nil, false
	}
	return id, true
}
