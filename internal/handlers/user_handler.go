package handlers

import (
	"net/http"
	"strconv"

	"rewards-admin-service/internal/services"
	"rewards-admin-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) RegisterRoutes(admin, authed *gin.RouterGroup) {
	admin.GET("/users", h.List)
	admin.POST("/users", h.Register)
	admin.PUT("/users/:id", h.Edit)
	authed.GET("/users/dropdown", h.DropDown)
	authed.POST("/users/:id/password", h.ChangePassword)
}

func (h *UserHandler) List(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("search"); v != "" {
		filters["search"] = v
	}
	users := h.Users.List(filters)
	if err := h.Users.Err(); err != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": err, "data": users})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(users, "success"))
}

// DropDown serves the beneficiary picker. exceptEmployees=true narrows the
// list to plain users.
func (h *UserHandler) DropDown(c *gin.Context) {
	exceptEmployees := c.Query("exceptEmployees") == "true"
	users, err := h.Users.DropDown(exceptEmployees)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(users, "success"))
}

func (h *UserHandler) Register(c *gin.Context) {
	data := services.RegisterUserDTO{
		Name:     c.PostForm("name"),
		UserName: c.PostForm("userName"),
		Password: c.PostForm("password"),
		Mobile:   c.PostForm("mobile"),
		Email:    c.PostForm("email"),
	}

	image, err := formFilePart(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Users.Register(data, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *UserHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	roleId, _ := strconv.Atoi(c.PostForm("roleId"))
	supervisorId, _ := strconv.Atoi(c.PostForm("supervisorId"))
	data := services.EditUserDTO{
		Name:         c.PostForm("name"),
		Mobile:       c.PostForm("mobile"),
		Email:        c.PostForm("email"),
		RoleId:       roleId,
		SupervisorId: supervisorId,
	}
	if v := c.PostForm("isActive"); v != "" {
		active := v == "true"
		data.IsActive = &active
	}

	image, err := formFilePart(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Users.Edit(id, data, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	// Non-admins may only change their own password.
	if c.GetString("role") != "admin" && id != c.GetInt("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only change your own password"})
		return
	}
	var body struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Users.ChangePassword(id, body.OldPassword, body.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(common.HTTPStatus(result), result)
}
