package departures

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

type Controller interface {
	CreateDeparture(c *gin.Context)
	GetDeparture(c *gin.Context)
	ListDepartures(c *gin.Context)
	CloseDeparture(c *gin.Context)
	ReopenDeparture(c *gin.Context)
	MarkDeparted(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateDeparture godoc
// @Summary      Create a departure
// @Tags         departures
// @Accept       json
// @Produce      json
// @Param        request  body      CreateDepartureRequest  true  "Departure"
// @Success      201      {object}  response.StandardApiResponse{data=DepartureResponse}
// @Failure      400      {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/departures [post]
func (ctrl *controller) CreateDeparture(c *gin.Context) {
	var req CreateDepartureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	departure, err := ctrl.service.CreateDeparture(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Departure created successfully", departure.ToResponse(), nil)
}

// GetDeparture godoc
// @Summary      Departure availability
// @Tags         departures
// @Produce      json
// @Param        id   path      string  true  "Departure ID"
// @Success      200  {object}  response.StandardApiResponse{data=DepartureResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Router       /departures/{id} [get]
func (ctrl *controller) GetDeparture(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	departure, err := ctrl.service.GetAvailability(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Departure retrieved successfully", departure, nil)
}

// ListDepartures godoc
// @Summary      List departures
// @Tags         departures
// @Produce      json
// @Param        status  query     string  false  "open, closed, full or departed"
// @Param        from    query     string  false  "Earliest departure date (YYYY-MM-DD)"
// @Param        to      query     string  false  "Latest departure date (YYYY-MM-DD)"
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.StandardApiResponse{data=response.Page}
// @Router       /departures [get]
func (ctrl *controller) ListDepartures(c *gin.Context) {
	var query ListDeparturesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	items, total, err := ctrl.service.ListDepartures(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Departures retrieved successfully",
		response.NewPage(items, total, query.Page, query.Limit), nil)
}

// CloseDeparture godoc
// @Summary      Stop sales on a departure
// @Tags         departures
// @Produce      json
// @Param        id   path      string  true  "Departure ID"
// @Success      200  {object}  response.StandardApiResponse{data=DepartureResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/departures/{id}/close [post]
func (ctrl *controller) CloseDeparture(c *gin.Context) {
	ctrl.changeStatus(c, ctrl.service.Close, "Departure closed")
}

// ReopenDeparture godoc
// @Summary      Resume sales on a closed departure
// @Tags         departures
// @Produce      json
// @Param        id   path      string  true  "Departure ID"
// @Success      200  {object}  response.StandardApiResponse{data=DepartureResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/departures/{id}/reopen [post]
func (ctrl *controller) ReopenDeparture(c *gin.Context) {
	ctrl.changeStatus(c, ctrl.service.Reopen, "Departure reopened")
}

// MarkDeparted godoc
// @Summary      Mark a departure as departed
// @Tags         departures
// @Produce      json
// @Param        id   path      string  true  "Departure ID"
// @Success      200  {object}  response.StandardApiResponse{data=DepartureResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/departures/{id}/depart [post]
func (ctrl *controller) MarkDeparted(c *gin.Context) {
	ctrl.changeStatus(c, ctrl.service.MarkDeparted, "Departure marked as departed")
}

func (ctrl *controller) changeStatus(c *gin.Context, op func(context.Context, uuid.UUID) (*Departure, error), message string) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	departure, err := op(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, message, departure.ToResponse(), nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apperror.Validation("invalid departure ID"))
		return uuid.Nil, false
	}
	return id, true
}
