package webserver

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/stationeryhq/stationery-server/internal/auth"
	"github.com/stationeryhq/stationery-server/internal/domain"
)

// ContextAdminKey is where the gate stores the verified claims on the
// request context.
const ContextAdminKey = "admin"

// AdminGate returns the middleware chain protecting mutating routes: a
// bearer-token check (401 on a missing, malformed, badly signed or expired
// token) followed by a role check (403 when the identity is not an admin).
func AdminGate(secret []byte) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.AdminClaims)
		},
	})
	return []echo.MiddlewareFunc{verify, requireAdminRole}
}

func requireAdminRole(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
		}
		claims, ok := token.Claims.(*auth.AdminClaims)
		if !ok || claims.Role != domain.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden: Not an admin role")
		}
		c.Set(ContextAdminKey, claims)
		return next(c)
	}
}
