package commissions

import (
	"umrahcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCommissionRoutes(rg *gin.RouterGroup, controller *Controller) {
	agents := rg.Group("/admin/agents")
	agents.Use(middleware.JWTAuth(), middleware.RequireStaff())
	{
		agents.POST("", controller.CreateAgent)
		agents.GET("", controller.ListAgents)
		agents.GET("/:id", controller.GetAgent)
		agents.GET("/:id/commissions", controller.ListAgentCommissions)
		agents.GET("/:id/summary", controller.AgentSummary)
	}

	commissions := rg.Group("/admin/commissions")
	commissions.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		commissions.POST("/:id/pay", controller.MarkPaid)
	}
}
