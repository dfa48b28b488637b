package handlers

import (
	"net/http"
	"strconv"

	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	Employees *services.EmployeeService
}

func NewEmployeeHandler(employees *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Employees: employees}
}

func (h *EmployeeHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/employees", h.List)
	admin.POST("/employees", h.Register)
	admin.PUT("/employees/:id", h.Edit)
	admin.DELETE("/employees/:id", h.Delete)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("search"); v != "" {
		filters["search"] = v
	}
	if v := c.Query("roleId"); v != "" {
		if roleId, err := strconv.Atoi(v); err == nil {
			filters["roleId"] = roleId
		}
	}
	employees := h.Employees.List(filters)
	if err := h.Employees.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": employees})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(employees, "success"))
}

func (h *EmployeeHandler) Register(c *gin.Context) {
	roleId, _ := strconv.Atoi(c.PostForm("roleId"))
	supervisorId, _ := strconv.Atoi(c.PostForm("supervisorId"))
	data := services.RegisterEmployeeDTO{
		Name:         c.PostForm("name"),
		UserName:     c.PostForm("userName"),
		Password:     c.PostForm("password"),
		Mobile:       c.PostForm("mobile"),
		Email:        c.PostForm("email"),
		RoleId:       roleId,
		SupervisorId: supervisorId,
	}

	image, err := formFilePart(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Employees.Register(data, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *EmployeeHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Employees.Edit(id, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}
	result, err := h.Employees.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}
