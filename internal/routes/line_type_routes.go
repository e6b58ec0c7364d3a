package routes

import (
	"github.com/gin-gonic/gin"

	"transit_admin/internal/controllers"
	"transit_admin/internal/middleware"
)

func LineTypeRoutes(r *gin.Engine, ct *controllers.LineTypeController) {
	lineTypes := r.Group("/api/line-types")
	lineTypes.Use(middleware.RequireAuth())
	{
		lineTypes.GET("", ct.List)
		lineTypes.GET("/:id", ct.Get)
		lineTypes.POST("", ct.Create)
		lineTypes.PUT("/:id", ct.Update)
	}

	r.DELETE("/api/line-types/:id", middleware.RequireAuthWithRole("admin"), ct.Delete)
}
