package handlers

import (
	"net/http"
	"strconv"

	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/notifications", h.List)
	authed.PUT("/notifications/:id/read", h.MarkAsRead)
	authed.PUT("/notifications/read-all", h.MarkAllRead)
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications := h.Notifications.List(c.GetInt("userId"))
	if err := h.Notifications.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": notifications})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(notifications, "success"))
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	result, err := h.Notifications.MarkAsRead(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	result, err := h.Notifications.MarkAllRead()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}
