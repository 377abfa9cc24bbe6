package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name           string                 `json:"name" validate:"required,max=255"`
	Description    string                 `json:"description"`
	Price          *decimal.Decimal       `json:"price" validate:"required"`
	Capacity       string                 `json:"capacity" validate:"max=100"`
	Category       string                 `json:"category" validate:"max=100"`
	Specifications map[string]interface{} `json:"specifications"`
	ImageURLs      []string               `json:"image_urls"`
	Rating         *decimal.Decimal       `json:"rating"`
	ReviewCount    *int                   `json:"review_count" validate:"omitnil,min=0"`
	IsActive       *bool                  `json:"is_active"`
}

// ProductPatch holds the fields of a partial product update; nil means unchanged.
type ProductPatch struct {
	Name           *string                `json:"name" validate:"omitnil,max=255"`
	Description    *string                `json:"description"`
	Price          *decimal.Decimal       `json:"price"`
	Capacity       *string                `json:"capacity" validate:"omitnil,max=100"`
	Category       *string                `json:"category" validate:"omitnil,max=100"`
	Specifications map[string]interface{} `json:"specifications"`
	ImageURLs      []string               `json:"image_urls"`
	Rating         *decimal.Decimal       `json:"rating"`
	ReviewCount    *int                   `json:"review_count" validate:"omitnil,min=0"`
	IsActive       *bool                  `json:"is_active"`
}

func checkNonNegative(fe FieldErrors, field string, value *decimal.Decimal) {
	if value != nil && value.IsNegative() {
		fe.Add(field, "The "+field+" field must be at least 0.")
	}
}

type ProductService struct {
	products repository.ProductRepository
	logger   echo.Logger
	now      func() time.Time
}

func NewProductService(products repository.ProductRepository, logger echo.Logger) *ProductService {
	return &ProductService{products: products, logger: logger, now: time.Now}
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) (models.Page[models.Product], error) {
	filter.Search = strings.TrimSpace(filter.Search)
	page = page.Normalize()
	products, total, err := s.products.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.Product]{}, Internal("Failed to list products", err)
	}
	return models.NewPage(products, page, total), nil
}

func (s *ProductService) Create(ctx context.Context, caller models.Identity, in ProductInput) (*models.Product, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	fe := FieldErrors{}
	validateStruct(in, fe)
	checkNonNegative(fe, "price", in.Price)
	checkNonNegative(fe, "rating", in.Rating)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product := &models.Product{
		Name:           in.Name,
		Description:    in.Description,
		Price:          *in.Price,
		Capacity:       in.Capacity,
		Category:       in.Category,
		Specifications: in.Specifications,
		ImageURLs:      in.ImageURLs,
		IsActive:       true,
		CreatedBy:      caller.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	if in.Rating != nil {
		product.Rating = *in.Rating
	}
	if in.ReviewCount != nil {
		product.ReviewCount = *in.ReviewCount
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, Internal("Failed to create product", err)
	}
	s.logger.Infof("product %s created by %s", product.ID.Hex(), caller.UserID)
	return product, nil
}

// Get returns a product by id. caller may be nil for anonymous requests; only
// admins can see soft-deleted products.
func (s *ProductService) Get(ctx context.Context, caller *models.Identity, id string) (*models.Product, error) {
	includeDeleted := caller != nil && caller.IsAdmin()
	product, err := s.products.FindByID(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Product", "Product does not exist")
		}
		return nil, Internal("Failed to load product", err)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, caller models.Identity, id string, patch ProductPatch) (*models.Product, error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		if name == "" {
			fe.Add("name", "The name field is required.")
		}
	}
	validateStruct(patch, fe)
	checkNonNegative(fe, "price", patch.Price)
	checkNonNegative(fe, "rating", patch.Rating)
	if err := fe.Err(); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Product", "Product does not exist")
		}
		return nil, Internal("Failed to load product", err)
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Capacity != nil {
		product.Capacity = *patch.Capacity
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Specifications != nil {
		product.Specifications = patch.Specifications
	}
	if patch.ImageURLs != nil {
		product.ImageURLs = patch.ImageURLs
	}
	if patch.Rating != nil {
		product.Rating = *patch.Rating
	}
	if patch.ReviewCount != nil {
		product.ReviewCount = *patch.ReviewCount
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}
	product.UpdatedAt = s.now().UTC()

	if err := s.products.Save(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Product", "Product does not exist")
		}
		return nil, Internal("Failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, caller models.Identity, id string) error {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.products.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Product", "Product does not exist")
		}
		return Internal("Failed to delete product", err)
	}
	s.logger.Infof("product %s deleted by %s", id, caller.UserID)
	return nil
}
