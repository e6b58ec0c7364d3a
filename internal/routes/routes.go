package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"transit_admin/internal/controllers"
)

// Controllers bundles the handlers the router needs; main constructs them
// once with the shared DB handle and passes them in.
type Controllers struct {
	Auth      *controllers.AuthController
	Lines     *controllers.LineController
	LineTypes *controllers.LineTypeController
	Stops     *controllers.StopController
}

func SetupRouter(ct Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlogger.SetLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	AuthRoutes(r, ct.Auth)
	LineRoutes(r, ct.Lines)
	LineTypeRoutes(r, ct.LineTypes)
	StopRoutes(r, ct.Stops)

	return r
}
