package handlers

import (
	"encoding/json"
	"net/http"

	"rewards-admin-service/internal/gateway"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Gateway *gateway.Client
}

func NewAuthHandler(gw *gateway.Client) *AuthHandler {
	return &AuthHandler{Gateway: gw}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", h.Login)
}

type loginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login proxies console credentials to the backend and relays the token plus
// profile untouched. The service session is not affected.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.Gateway.Authenticate(req.UserName, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var payload interface{}
	if err := json.Unmarshal(resp, &payload); err != nil {
		c.Data(http.StatusOK, "application/json", resp)
		return
	}
	c.JSON(http.StatusOK, payload)
}
