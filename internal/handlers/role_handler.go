package handlers

import (
	"net/http"
	"strconv"

	"rewards-admin-service/internal/models"
	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	Roles *services.RoleService
}

func NewRoleHandler(roles *services.RoleService) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

func (h *RoleHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/roles", h.List)
	admin.GET("/roles/all", h.All)
	admin.POST("/roles", h.Register)
	admin.PUT("/roles/:id", h.Edit)
	admin.PUT("/roles/:id/permissions", h.UpdatePermissions)
	admin.DELETE("/roles/:id", h.Delete)
}

func (h *RoleHandler) List(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("search"); v != "" {
		filters["search"] = v
	}
	roles := h.Roles.List(filters)
	if err := h.Roles.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": roles})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(roles, "success"))
}

// All returns the flat role list used to populate role pickers.
func (h *RoleHandler) All(c *gin.Context) {
	roles := h.Roles.All()
	if err := h.Roles.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": roles})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(roles, "success"))
}

func (h *RoleHandler) Register(c *gin.Context) {
	var data services.RegisterRoleDTO
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Roles.Register(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *RoleHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}
	var data services.RegisterRoleDTO
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Roles.Edit(id, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *RoleHandler) UpdatePermissions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}
	var body struct {
		Permissions []models.Permission `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Roles.UpdatePermissions(id, body.Permissions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}
	result, err := h.Roles.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}
