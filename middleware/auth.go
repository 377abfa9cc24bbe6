package middleware

import (
	"context"
	"strings"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Authenticator resolves a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.Identity, error)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", services.Unauthorized("Missing authorization header")
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || strings.TrimSpace(tokenParts[1]) == "" {
		return "", services.Unauthorized("Invalid authorization header format")
	}
	return strings.TrimSpace(tokenParts[1]), nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's identity in the context.
func AuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is sent and
// lets anonymous requests through. A bad token is treated as anonymous.
func OptionalAuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			token, err := bearerToken(c)
			if err != nil {
				return next(c)
			}
			if identity, err := auth.Authenticate(c.Request().Context(), token); err == nil {
				c.Set(identityKey, identity)
			} else if services.KindOf(err) == services.KindInternal {
				return err
			}
			return next(c)
		}
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return services.Unauthorized("User not authenticated")
			}
			if err := services.RequireRole(*identity, role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by the auth middlewares.
func IdentityFrom(c echo.Context) (*models.Identity, bool) {
	identity, ok := c.Get(identityKey).(*models.Identity)
	return identity, ok && identity != nil
}
