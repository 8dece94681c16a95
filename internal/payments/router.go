package payments

import (
	"umrahcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	intake := middleware.RequireRoles(middleware.RoleStaff, middleware.RoleAdmin, middleware.RoleAgent)

	bookingPayments := rg.Group("/bookings/:id")
	bookingPayments.Use(middleware.JWTAuth())
	{
		bookingPayments.POST("/payments", intake, controller.SubmitPayment)
		bookingPayments.GET("/payments", intake, controller.ListBookingPayments)
		bookingPayments.GET("/reconciliation", middleware.RequireStaff(), controller.ReconcileBooking)
	}

	payments := rg.Group("/payments")
	payments.Use(middleware.JWTAuth())
	{
		payments.GET("/:id", intake, controller.GetPayment)
		payments.POST("/:id/verify", middleware.RequireStaff(), controller.VerifyPayment)
	}

	plans := rg.Group("/plans")
	plans.Use(middleware.JWTAuth(), intake)
	{
		plans.POST("", controller.CreatePlan)
		plans.GET("", controller.ListPlans)
		plans.GET("/:id", controller.GetPlan)
		plans.POST("/:id/payments", controller.SubmitPlanPayment)
		plans.POST("/:id/cancel", controller.CancelPlan)
	}

	planPayments := rg.Group("/plan-payments")
	planPayments.Use(middleware.JWTAuth(), middleware.RequireStaff())
	{
		planPayments.POST("/:id/verify", controller.VerifyPlanPayment)
	}
}

// Route definitions for reference:
//
// POST   /api/v1/bookings/:id/payments       - Submit a transfer with proof
// GET    /api/v1/bookings/:id/payments       - Payments of a booking
// GET    /api/v1/bookings/:id/reconciliation - Ledger vs verified payments
// GET    /api/v1/payments/:id                - One payment
// POST   /api/v1/payments/:id/verify         - paid|failed, credits the booking
// POST   /api/v1/plans                       - Open a savings/installment plan
// GET    /api/v1/plans?customer_id=...       - Plans of a customer
// GET    /api/v1/plans/:id                   - Plan with payments
// POST   /api/v1/plans/:id/payments          - Submit a plan payment
// POST   /api/v1/plans/:id/cancel            - active -> cancelled
// POST   /api/v1/plan-payments/:id/verify    - paid|failed against the plan target
