package routes

import (
	"github.com/gin-gonic/gin"

	"transit_admin/internal/controllers"
	"transit_admin/internal/middleware"
)

func LineRoutes(r *gin.Engine, ct *controllers.LineController) {
	lines := r.Group("/api/lines")
	lines.Use(middleware.RequireAuth())
	{
		lines.POST("", ct.Create)
		lines.GET("", ct.List)
		lines.GET("/:id", ct.Get)
		lines.GET("/:id/routes", ct.Routes)
		lines.PUT("/:id", ct.Update)
	}

	// Deleting a whole line is admin-only.
	r.DELETE("/api/lines/:id", middleware.RequireAuthWithRole("admin"), ct.Delete)
}
