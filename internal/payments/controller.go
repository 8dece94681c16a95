package payments

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

// SubmitPayment godoc
// @Summary      Submit a payment against a booking
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Booking ID"
// @Param        request  body      SubmitPaymentRequest  true  "Payment"
// @Success      201      {object}  response.StandardApiResponse{data=Payment}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /bookings/{id}/payments [post]
func (c *Controller) SubmitPayment(ctx *gin.Context) {
	bookingID, ok := parseUUID(ctx, "booking")
	if !ok {
		return
	}
	var req SubmitPaymentRequest
	if !c.bind(ctx, &req) {
		return
	}

	payment, err := c.service.Submit(ctx.Request.Context(), bookingID, req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment submitted", payment, nil)
}

// ListBookingPayments godoc
// @Summary      Payments submitted for a booking
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=[]Payment}
// @Security     BearerAuth
// @Router       /bookings/{id}/payments [get]
func (c *Controller) ListBookingPayments(ctx *gin.Context) {
	bookingID, ok := parseUUID(ctx, "booking")
	if !ok {
		return
	}

	payments, err := c.service.ListByBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", payments, nil)
}

// ReconcileBooking godoc
// @Summary      Compare a booking ledger with its verified payments
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse{data=Reconciliation}
// @Security     BearerAuth
// @Router       /bookings/{id}/reconciliation [get]
func (c *Controller) ReconcileBooking(ctx *gin.Context) {
	bookingID, ok := parseUUID(ctx, "booking")
	if !ok {
		return
	}

	rec, err := c.service.ReconcileBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reconciliation complete", rec, nil)
}

// GetPayment godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.StandardApiResponse{data=Payment}
// @Failure      404  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (c *Controller) GetPayment(ctx *gin.Context) {
	paymentID, ok := parseUUID(ctx, "payment")
	if !ok {
		return
	}

	payment, err := c.service.Get(ctx.Request.Context(), paymentID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", payment, nil)
}

// VerifyPayment godoc
// @Summary      Verify or reject a submitted payment
// @Description  A paid outcome credits the booking ledger and confirms the booking once fully paid.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Payment ID"
// @Param        request  body      VerifyPaymentRequest  true  "Outcome"
// @Success      200      {object}  response.StandardApiResponse{data=Verification}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /payments/{id}/verify [post]
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	paymentID, ok := parseUUID(ctx, "payment")
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if !c.bind(ctx, &req) {
		return
	}

	result, err := c.service.Verify(ctx.Request.Context(), paymentID, req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified", result, nil)
}

// CreatePlan godoc
// @Summary      Open a savings or installment plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan"
// @Success      201      {object}  response.StandardApiResponse{data=Plan}
// @Failure      400      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /plans [post]
func (c *Controller) CreatePlan(ctx *gin.Context) {
	var req CreatePlanRequest
	if !c.bind(ctx, &req) {
		return
	}

	plan, err := c.service.CreatePlan(ctx.Request.Context(), req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Plan created successfully", plan, nil)
}

// ListPlans godoc
// @Summary      Plans held by a customer
// @Tags         plans
// @Produce      json
// @Param        customer_id  query     string  true  "Customer ID"
// @Success      200          {object}  response.StandardApiResponse{data=[]Plan}
// @Security     BearerAuth
// @Router       /plans [get]
func (c *Controller) ListPlans(ctx *gin.Context) {
	customerID, err := uuid.Parse(ctx.Query("customer_id"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("invalid customer ID"))
		return
	}

	plans, err := c.service.ListPlans(ctx.Request.Context(), customerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Plans retrieved successfully", plans, nil)
}

// GetPlan godoc
// @Summary      Get a plan with its payments
// @Tags         plans
// @Produce      json
// @Param        id   path      string  true  "Plan ID"
// @Success      200  {object}  response.StandardApiResponse{data=PlanResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /plans/{id} [get]
func (c *Controller) GetPlan(ctx *gin.Context) {
	planID, ok := parseUUID(ctx, "plan")
	if !ok {
		return
	}

	plan, err := c.service.GetPlan(ctx.Request.Context(), planID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Plan retrieved successfully", plan, nil)
}

// CancelPlan godoc
// @Summary      Cancel an active plan
// @Tags         plans
// @Produce      json
// @Param        id   path      string  true  "Plan ID"
// @Success      200  {object}  response.StandardApiResponse{data=Plan}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /plans/{id}/cancel [post]
func (c *Controller) CancelPlan(ctx *gin.Context) {
	planID, ok := parseUUID(ctx, "plan")
	if !ok {
		return
	}

	plan, err := c.service.CancelPlan(ctx.Request.Context(), planID, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Plan cancelled", plan, nil)
}

// SubmitPlanPayment godoc
// @Summary      Submit a payment against a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Plan ID"
// @Param        request  body      SubmitPlanPaymentRequest  true  "Payment"
// @Success      201      {object}  response.StandardApiResponse{data=PlanPayment}
// @Security     BearerAuth
// @Router       /plans/{id}/payments [post]
func (c *Controller) SubmitPlanPayment(ctx *gin.Context) {
	planID, ok := parseUUID(ctx, "plan")
	if !ok {
		return
	}
	var req SubmitPlanPaymentRequest
	if !c.bind(ctx, &req) {
		return
	}

	payment, err := c.service.SubmitPlanPayment(ctx.Request.Context(), planID, req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Plan payment submitted", payment, nil)
}

// VerifyPlanPayment godoc
// @Summary      Verify or reject a plan payment
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Plan payment ID"
// @Param        request  body      VerifyPaymentRequest  true  "Outcome"
// @Success      200      {object}  response.StandardApiResponse{data=PlanVerification}
// @Failure      409      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /plan-payments/{id}/verify [post]
func (c *Controller) VerifyPlanPayment(ctx *gin.Context) {
	paymentID, ok := parseUUID(ctx, "plan payment")
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if !c.bind(ctx, &req) {
		return
	}

	result, err := c.service.VerifyPlanPayment(ctx.Request.Context(), paymentID, req, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Plan payment verified", result, nil)
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return false
	}
	return true
}

func parseUUID(ctx *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("invalid %s ID", resource))
		return uuid.Nil, false
	}
	return id, true
}
