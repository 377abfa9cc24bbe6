package handlers

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Logout(ctx context.Context, caller models.Identity) error
	Me(ctx context.Context, caller models.Identity) (*services.MeResult, error)
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	result, err := h.auth.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "User registered successfully", result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login successful", result)
}

// Logout revokes only the token used for this request.
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), identity); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Successfully logged out", nil)
}

func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	me, err := h.auth.Me(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User retrieved successfully", me)
}
