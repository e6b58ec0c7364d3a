package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_admin/internal/lineplan"
	"transit_admin/internal/services"
)

type LineController struct {
	lines *services.LineService
}

func NewLineController(lines *services.LineService) *LineController {
	return &LineController{lines: lines}
}

// Create handles POST /api/lines. The body may be canonical or wizard-shaped;
// the service normalizes it before persisting.
func (ct *LineController) Create(c *gin.Context) {
	var req lineplan.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Create line: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result, err := ct.lines.AddFullLine(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Update handles PUT /api/lines/:id, replacing the line's route graph.
func (ct *LineController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req lineplan.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Update line: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result, err := ct.lines.UpdateFullLine(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/lines/:id.
func (ct *LineController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	line, err := ct.lines.GetLineByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// List handles GET /api/lines.
func (ct *LineController) List(c *gin.Context) {
	lines, err := ct.lines.GetAllLines()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// Routes handles GET /api/lines/:id/routes, the public route listing.
func (ct *LineController) Routes(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	routes, err := ct.lines.GetRoutesByLineID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// Delete handles DELETE /api/lines/:id.
func (ct *LineController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := ct.lines.DeleteLine(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Line deleted successfully"})
}
