package departures

import (
	"umrahcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDepartureRoutes(router *gin.RouterGroup, controller Controller) {
	// Public availability browsing
	public := router.Group("/departures")
	{
		public.GET("", controller.ListDepartures)   // GET /api/v1/departures
		public.GET("/:id", controller.GetDeparture) // GET /api/v1/departures/:id
	}

	// Back-office departure management
	admin := router.Group("/admin/departures")
	admin.Use(middleware.JWTAuth(), middleware.RequireStaff())
	{
		admin.POST("", controller.CreateDeparture)            // POST /api/v1/admin/departures
		admin.POST("/:id/close", controller.CloseDeparture)   // POST /api/v1/admin/departures/:id/close
		admin.POST("/:id/reopen", controller.ReopenDeparture) // POST /api/v1/admin/departures/:id/reopen
		admin.POST("/:id/depart", controller.MarkDeparted)    // POST /api/v1/admin/departures/:id/depart
	}
}
