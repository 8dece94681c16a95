package bookings

import (
	"umrahcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		// Booking intake: staff and agents
		intake := bookings.Group("")
		intake.Use(middleware.RequireRoles(middleware.RoleStaff, middleware.RoleAdmin, middleware.RoleAgent))
		intake.POST("", controller.CreateBooking)
		intake.GET("/:id", controller.GetBooking)

		// Back-office lifecycle
		staff := bookings.Group("")
		staff.Use(middleware.RequireStaff())
		staff.GET("", controller.ListBookings)
		staff.POST("/:id/confirm", controller.ConfirmBooking)
		staff.POST("/:id/process", controller.StartProcessing)
		staff.POST("/:id/complete", controller.CompleteBooking)
		staff.POST("/:id/cancel", controller.CancelBooking)
		staff.POST("/:id/refund", controller.RefundBooking)
	}
}

// Route definitions for reference:
//
// POST   /api/v1/bookings                  - Reserve seats and open a pending booking
// GET    /api/v1/bookings/:id              - Booking with passengers
// GET    /api/v1/bookings?departure_id=... - Filtered, paginated list
// POST   /api/v1/bookings/:id/confirm      - pending -> confirmed (without full payment)
// POST   /api/v1/bookings/:id/process      - confirmed -> processing
// POST   /api/v1/bookings/:id/complete     - processing -> completed
// POST   /api/v1/bookings/:id/cancel       - pending|confirmed -> cancelled, seats released
// POST   /api/v1/bookings/:id/refund       - confirmed|completed -> refunded
