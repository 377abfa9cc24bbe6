package handlers

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/middleware"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.Page[models.Product], error)
	Create(ctx context.Context, caller models.Identity, in services.ProductInput) (*models.Product, error)
	Get(ctx context.Context, caller *models.Identity, id string) (*models.Product, error)
	Update(ctx context.Context, caller models.Identity, id string, patch services.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
}

type ProductHandler struct {
	products ProductService
}

func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetProducts lists live products; supports search, category and is_active filters.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		return err
	}
	filter := models.ProductFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		IsActive: isActive,
	}

	products, err := h.products.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	identity, _ := middleware.IdentityFrom(c)
	product, err := h.products.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	product, err := h.products.Create(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var patch services.ProductPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	product, err := h.products.Update(c.Request().Context(), identity, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}
