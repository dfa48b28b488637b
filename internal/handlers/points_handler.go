package handlers

import (
	"net/http"
	"strconv"

	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	Points *services.PointsService
}

func NewPointsHandler(points *services.PointsService) *PointsHandler {
	return &PointsHandler{Points: points}
}

func (h *PointsHandler) RegisterRoutes(admin, authed *gin.RouterGroup) {
	authed.GET("/points/conversion", h.Get)
	authed.GET("/points/convert", h.Convert)
	admin.PUT("/points/conversion/:id", h.Edit)
}

func (h *PointsHandler) Get(c *gin.Context) {
	setting, err := h.Points.Get()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(setting, "success"))
}

// Convert translates between currency and points using the active setting.
// Pass either amount= or points=.
func (h *PointsHandler) Convert(c *gin.Context) {
	if v := c.Query("amount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		points, err := h.Points.ToPoints(amount)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"amount": amount, "points": points}, "success"))
		return
	}
	if v := c.Query("points"); v != "" {
		points, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points"})
			return
		}
		amount, err := h.Points.ToAmount(points)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"amount": amount, "points": points}, "success"))
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "amount or points query parameter is required"})
}

func (h *PointsHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}
	var data services.EditConversionDTO
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Points.Edit(id, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}
