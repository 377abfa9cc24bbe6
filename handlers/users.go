package handlers

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	GetProfile(ctx context.Context, caller models.Identity) (*models.Profile, error)
	UpdateProfile(ctx context.Context, caller models.Identity, in services.ProfileInput) (*models.Profile, error)
}

type AddressService interface {
	List(ctx context.Context, caller models.Identity, page models.PageRequest) (models.Page[models.Address], error)
	Create(ctx context.Context, caller models.Identity, in services.AddressInput) (*models.Address, error)
	Get(ctx context.Context, caller models.Identity, id string) (*models.Address, error)
	Update(ctx context.Context, caller models.Identity, id string, patch services.AddressPatch) (*models.Address, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
}

// UserHandler serves the caller's own profile and address book.
type UserHandler struct {
	profiles  ProfileService
	addresses AddressService
}

func NewUserHandler(profiles ProfileService, addresses AddressService) *UserHandler {
	return &UserHandler{profiles: profiles, addresses: addresses}
}

// GetUserProfile retrieves the caller's profile
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateUserProfile(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.ProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}
	profile, err := h.profiles.UpdateProfile(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) GetUserAddresses(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	addresses, err := h.addresses.List(c.Request().Context(), identity, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Addresses retrieved successfully", addresses)
}

func (h *UserHandler) AddUserAddress(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.AddressInput
	if err := bind(c, &in); err != nil {
		return err
	}
	address, err := h.addresses.Create(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Address created successfully", address)
}

func (h *UserHandler) GetUserAddress(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	address, err := h.addresses.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Address retrieved successfully", address)
}

func (h *UserHandler) UpdateUserAddress(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var patch services.AddressPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	address, err := h.addresses.Update(c.Request().Context(), identity, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Address updated successfully", address)
}

func (h *UserHandler) DeleteUserAddress(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.addresses.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Address deleted successfully", nil)
}
