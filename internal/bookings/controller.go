package bookings

import (
	"context"
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

// CreateBooking godoc
// @Summary      Create a booking
// @Description  Reserves seats on the departure and opens a pending booking.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking"
// @Success      201      {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking.ToResponse(), nil)
}

// GetBooking godoc
// @Summary      Get a booking with its passengers
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(), nil)
}

// ListBookings godoc
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        departure_id    query     string  false  "Departure"
// @Param        agent_id        query     string  false  "Agent"
// @Param        booking_status  query     string  false  "Booking status"
// @Param        payment_status  query     string  false  "Payment status"
// @Param        page            query     int     false  "Page"
// @Param        limit           query     int     false  "Page size"
// @Success      200             {object}  response.StandardApiResponse{data=response.Page}
// @Security     BearerAuth
// @Router       /bookings [get]
func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, total, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookings[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully",
		response.NewPage(items, total, query.Page, query.Limit), nil)
}

// ConfirmBooking godoc
// @Summary      Confirm a pending booking without full payment
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/confirm [post]
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	c.simpleTransition(ctx, c.service.Confirm, "Booking confirmed")
}

// StartProcessing godoc
// @Summary      Move a confirmed booking into processing
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/process [post]
func (c *Controller) StartProcessing(ctx *gin.Context) {
	c.simpleTransition(ctx, c.service.StartProcessing, "Booking is being processed")
}

// CompleteBooking godoc
// @Summary      Complete a processed booking
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/complete [post]
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	c.simpleTransition(ctx, c.service.Complete, "Booking completed")
}

// CancelBooking godoc
// @Summary      Cancel a booking and release its seats
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id       path      string             true   "Booking ID"
// @Param        request  body      TransitionRequest  false  "Reason"
// @Success      200      {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	c.reasonTransition(ctx, c.service.Cancel, "Booking cancelled")
}

// RefundBooking godoc
// @Summary      Refund a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id       path      string             true   "Booking ID"
// @Param        request  body      TransitionRequest  false  "Reason"
// @Success      200      {object}  response.StandardApiResponse{data=BookingResponse}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/refund [post]
func (c *Controller) RefundBooking(ctx *gin.Context) {
	c.reasonTransition(ctx, c.service.Refund, "Booking refunded")
}

func (c *Controller) simpleTransition(ctx *gin.Context, op func(context.Context, uuid.UUID, string) (*Booking, error), message string) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	booking, err := op(ctx.Request.Context(), bookingID, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, booking.ToResponse(), nil)
}

func (c *Controller) reasonTransition(ctx *gin.Context, op func(context.Context, uuid.UUID, string, string) (*Booking, error), message string) {
	bookingID, ok := parseBookingID(ctx)
	if !ok {
		return
	}

	var req TransitionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	booking, err := op(ctx.Request.Context(), bookingID, middleware.ActorID(ctx), req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, booking.ToResponse(), nil)
}

func parseBookingID(ctx *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("invalid booking ID"))
		return uuid.Nil, false
	}
	return bookingID, true
}
