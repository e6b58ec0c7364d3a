package routes

import (
	"github.com/gin-gonic/gin"

	"transit_admin/internal/controllers"
	"transit_admin/internal/middleware"
)

func StopRoutes(r *gin.Engine, ct *controllers.StopController) {
	stops := r.Group("/api/stops")
	stops.Use(middleware.RequireAuth())
	{
		stops.POST("", ct.Create)
		stops.PUT("/group", ct.UpdateGroup)
		stops.GET("/groups", ct.ListGroups)
		stops.GET("/group/:id", ct.GetGroup)
		stops.GET("/with-groups", ct.ListWithGroups)
	}
}
