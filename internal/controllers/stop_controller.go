package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_admin/internal/services"
)

type StopController struct {
	stops *services.StopService
}

func NewStopController(stops *services.StopService) *StopController {
	return &StopController{stops: stops}
}

// Create handles POST /api/stops: a new stop group with its stops.
func (ct *StopController) Create(c *gin.Context) {
	var input services.StopGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stops, err := ct.stops.AddStops(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stops)
}

// UpdateGroup handles PUT /api/stops/group: reconciles a group's stop list.
// Per-stop failures don't fail the request; they come back in the report.
func (ct *StopController) UpdateGroup(c *gin.Context) {
	var input services.StopGroupUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, report, err := ct.stops.UpdateStopGroupWithStops(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     group.ID,
		"name":   group.Name,
		"stops":  group.Stops,
		"report": report,
	})
}

// GetGroup handles GET /api/stops/group/:id.
func (ct *StopController) GetGroup(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	group, err := ct.stops.GetStopsByGroupID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListGroups handles GET /api/stops/groups.
func (ct *StopController) ListGroups(c *gin.Context) {
	groups, err := ct.stops.GetAllStopGroups()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// ListWithGroups handles GET /api/stops/with-groups, the stop-picker feed.
func (ct *StopController) ListWithGroups(c *gin.Context) {
	stops, err := ct.stops.GetAllStopsWithGroups()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stops)
}
