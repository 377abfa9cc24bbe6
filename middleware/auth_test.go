package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	identities map[string]*models.Identity
	err        error
	calls      int
}

func (s *stubAuthenticator) Authenticate(_ context.Context, rawToken string) (*models.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if identity, ok := s.identities[rawToken]; ok {
		return identity, nil
	}
	return nil, services.Unauthorized("Invalid or expired token")
}

var adminIdentity = &models.Identity{UserID: "admin-1", Role: models.RoleAdmin}

func newContext(authHeader string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func captureIdentity(got **models.Identity) echo.HandlerFunc {
	return func(c echo.Context) error {
		*got, _ = IdentityFrom(c)
		return nil
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuthenticator{identities: map[string]*models.Identity{"good": adminIdentity}}

	var got *models.Identity
	err := AuthMiddleware(auth)(captureIdentity(&got))(newContext("Bearer good"))
	require.NoError(t, err)
	assert.Same(t, adminIdentity, got)

	for _, header := range []string{"", "Bearer", "Basic good", "Bearer    ", "Bearer bad"} {
		err := AuthMiddleware(auth)(captureIdentity(&got))(newContext(header))
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err), "header %q", header)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	auth := &stubAuthenticator{identities: map[string]*models.Identity{"good": adminIdentity}}

	var got *models.Identity
	require.NoError(t, OptionalAuthMiddleware(auth)(captureIdentity(&got))(newContext("")))
	assert.Nil(t, got)
	assert.Equal(t, 0, auth.calls)

	require.NoError(t, OptionalAuthMiddleware(auth)(captureIdentity(&got))(newContext("Bearer bad")))
	assert.Nil(t, got)

	require.NoError(t, OptionalAuthMiddleware(auth)(captureIdentity(&got))(newContext("bearer good")))
	assert.Same(t, adminIdentity, got)

	broken := &stubAuthenticator{err: services.Internal("Failed to load token", errors.New("db down"))}
	err := OptionalAuthMiddleware(broken)(captureIdentity(&got))(newContext("Bearer good"))
	assert.Equal(t, services.KindInternal, services.KindOf(err))
}

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error { return nil }

	c := newContext("")
	assert.Equal(t, services.KindUnauthorized, services.KindOf(RequireRole(models.RoleAdmin)(next)(c)))

	c.Set(identityKey, &models.Identity{UserID: "user-a", Role: models.RoleCustomer})
	assert.Equal(t, services.KindForbidden, services.KindOf(RequireRole(models.RoleAdmin)(next)(c)))

	c.Set(identityKey, adminIdentity)
	assert.NoError(t, RequireRole(models.RoleAdmin)(next)(c))
}
