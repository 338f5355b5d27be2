package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	dto "todoapi/app/dto/http"
	"todoapi/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Context keys populated for downstream handlers.
const (
	ContextUserID      = "user_id"
	ContextAccessToken = "access_token"
)

type authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	authService authenticator
}

func NewAuthMiddleware(authService authenticator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth guards a route: it extracts the bearer token, verifies it
// and consults the revocation ledger. All failures are 401; a revoked
// token differs from an expired one only in the message.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("missing authorization header"))
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid authorization header format"))
		}

		tokenString := parts[1]
		claims, err := m.authService.Authenticate(c.Request().Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				logrus.Debug("Revoked access token presented")
				return c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("token has been revoked"))
			case errors.Is(err, service.ErrInvalidToken):
				logrus.Debug("Invalid or expired access token")
				return c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid or expired token"))
			default:
				logrus.WithError(err).Error("token authentication failed")
				return c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextAccessToken, tokenString)

		return next(c)
	}
}
