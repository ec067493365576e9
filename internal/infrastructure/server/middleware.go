package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/application/services"
)

// authMiddleware validates the bearer token and stores the caller's
// identity in the request context.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := authService.VerifyToken(token)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", 0, c.RealIP(), map[string]interface{}{
					"reason": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)

			return next(c)
		}
	}
}
