// Package middleware provides HTTP middleware for the fiber surface.
// Authentication itself lives outside this service; the middleware only
// resolves the owner reference carried by an already-issued token.
package middleware

import (
	"log"
	"strings"

	"github.com/usename-Poezd/transaction-service/internal/config"
	"github.com/usename-Poezd/transaction-service/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims identifies the payment owner on protected routes.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and adds the claims to the request
// context under "claims".
func Auth() fiber.Handler {
	secret := []byte(config.GetEnv("JWT_SECRET", "transaction-service"))

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "missing authorization header")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "invalid authorization format")
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			log.Printf("Token validation error: %v", err)
			return response.Unauthorized(c, "invalid token")
		}

		claims, ok := token.Claims.(*UserClaims)
		if !ok {
			return response.Unauthorized(c, "invalid token claims")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
