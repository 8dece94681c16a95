package commissions

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

// CreateAgent godoc
// @Summary      Register an agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        request  body      CreateAgentRequest  true  "Agent"
// @Success      201      {object}  response.StandardApiResponse{data=Agent}
// @Security     BearerAuth
// @Router       /admin/agents [post]
func (c *Controller) CreateAgent(ctx *gin.Context) {
	var req CreateAgentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	agent, err := c.service.CreateAgent(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Agent created successfully", agent, nil)
}

func (c *Controller) ListAgents(ctx *gin.Context) {
	agents, err := c.service.ListAgents(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Agents retrieved successfully", agents, nil)
}

func (c *Controller) GetAgent(ctx *gin.Context) {
	agentID, ok := parseUUID(ctx, "id", "agent")
	if !ok {
		return
	}
	agent, err := c.service.GetAgent(ctx.Request.Context(), agentID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Agent retrieved successfully", agent, nil)
}

// ListAgentCommissions godoc
// @Summary      Commissions of an agent
// @Tags         agents
// @Produce      json
// @Param        id      path      string  true   "Agent ID"
// @Param        status  query     string  false  "pending, paid or voided"
// @Success      200     {object}  response.StandardApiResponse{data=response.Page}
// @Security     BearerAuth
// @Router       /admin/agents/{id}/commissions [get]
func (c *Controller) ListAgentCommissions(ctx *gin.Context) {
	agentID, ok := parseUUID(ctx, "id", "agent")
	if !ok {
		return
	}

	var query ListCommissionsQuery
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
		query.Limit = 20
	}

	items, total, err := c.service.ListByAgent(ctx.Request.Context(), agentID, query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Commissions retrieved successfully",
		response.NewPage(items, total, query.Page, query.Limit), nil)
}

// AgentSummary godoc
// @Summary      Payable and paid commission totals of an agent
// @Tags         agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  response.StandardApiResponse{data=Summary}
// @Security     BearerAuth
// @Router       /admin/agents/{id}/summary [get]
func (c *Controller) AgentSummary(ctx *gin.Context) {
	agentID, ok := parseUUID(ctx, "id", "agent")
	if !ok {
		return
	}
	summary, err := c.service.Summary(ctx.Request.Context(), agentID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Commission summary retrieved successfully", summary, nil)
}

// MarkPaid godoc
// @Summary      Record a commission disbursement
// @Tags         commissions
// @Produce      json
// @Param        id   path      string  true  "Commission ID"
// @Success      200  {object}  response.StandardApiResponse{data=Commission}
// @Failure      409  {object}  response.StandardApiResponse
// @Security     BearerAuth
// @Router       /admin/commissions/{id}/pay [post]
func (c *Controller) MarkPaid(ctx *gin.Context) {
	commissionID, ok := parseUUID(ctx, "id", "commission")
	if !ok {
		return
	}
	commission, err := c.service.MarkPaid(ctx.Request.Context(), commissionID, middleware.ActorID(ctx))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Commission marked as paid", commission, nil)
}

func parseUUID(ctx *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		response.RespondError(ctx, apperror.Validation("invalid %s ID", resource))
		return uuid.Nil, false
	}
	return id, true
}
