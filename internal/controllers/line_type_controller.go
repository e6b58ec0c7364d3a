package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transit_admin/internal/services"
)

type LineTypeController struct {
	lineTypes *services.LineTypeService
}

func NewLineTypeController(lineTypes *services.LineTypeService) *LineTypeController {
	return &LineTypeController{lineTypes: lineTypes}
}

func (ct *LineTypeController) Create(c *gin.Context) {
	var input services.LineTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lineType, err := ct.lineTypes.AddLineType(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lineType)
}

func (ct *LineTypeController) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var input services.LineTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lineType, err := ct.lineTypes.UpdateLineType(id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineType)
}

func (ct *LineTypeController) List(c *gin.Context) {
	lineTypes, err := ct.lineTypes.GetAllLineTypes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineTypes)
}

func (ct *LineTypeController) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	lineType, err := ct.lineTypes.GetLineTypeByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineType)
}

func (ct *LineTypeController) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := ct.lineTypes.DeleteLineType(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Line type deleted successfully"})
}
