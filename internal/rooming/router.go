package rooming

import (
	"umrahcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoomingRoutes(rg *gin.RouterGroup, controller *Controller) {
	rooming := rg.Group("/admin/rooming")
	rooming.Use(middleware.JWTAuth(), middleware.RequireStaff())
	{
		rooming.POST("/pairs", controller.PairPassengers)                 // POST   /api/v1/admin/rooming/pairs
		rooming.DELETE("/pairs/:passengerId", controller.UnpairPassenger) // DELETE /api/v1/admin/rooming/pairs/:passengerId

		rooming.POST("/rooms", controller.CreateRoom)                                   // POST   /api/v1/admin/rooming/rooms
		rooming.GET("/rooms", controller.ListRooms)                                     // GET    /api/v1/admin/rooming/rooms?departure_id=...
		rooming.GET("/rooms/:id", controller.GetRoom)                                   // GET    /api/v1/admin/rooming/rooms/:id
		rooming.DELETE("/rooms/:id", controller.DeleteRoom)                             // DELETE /api/v1/admin/rooming/rooms/:id
		rooming.POST("/rooms/:id/occupants", controller.AssignOccupant)                 // POST   /api/v1/admin/rooming/rooms/:id/occupants
		rooming.DELETE("/rooms/:id/occupants/:customerId", controller.UnassignOccupant) // DELETE /api/v1/admin/rooming/rooms/:id/occupants/:customerId
	}
}
