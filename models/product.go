package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Name           string                 `bson:"name" json:"name"`
	Description    string                 `bson:"description,omitempty" json:"description,omitempty"`
	Price          decimal.Decimal        `bson:"price" json:"price"`
	Capacity       string                 `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Category       string                 `bson:"category,omitempty" json:"category,omitempty"`
	Specifications map[string]interface{} `bson:"specifications,omitempty" json:"specifications,omitempty"`
	ImageURLs      []string               `bson:"imageUrls" json:"image_urls"`
	Rating         decimal.Decimal        `bson:"rating" json:"rating"`
	ReviewCount    int                    `bson:"reviewCount" json:"review_count"`
	IsActive       bool                   `bson:"isActive" json:"is_active"`
	CreatedBy      string                 `bson:"createdBy" json:"created_by"`
	CreatedAt      time.Time              `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updatedAt" json:"updated_at"`
	DeletedAt      *time.Time             `bson:"deletedAt,omitempty" json:"deleted_at,omitempty"`
}

func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

type ProductFilter struct {
	Search   string
	Category string
	IsActive *bool
}
