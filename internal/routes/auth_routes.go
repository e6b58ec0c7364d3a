package routes

import (
	"github.com/gin-gonic/gin"

	"transit_admin/internal/controllers"
)

func AuthRoutes(r *gin.Engine, ct *controllers.AuthController) {
	r.POST("/api/auth", ct.Login)
}
