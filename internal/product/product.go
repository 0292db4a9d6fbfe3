package product

import (
	"time"

	productDatamodel "github.com/scime/ecommerce/internal/core/datamodel/product"
)

type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LocationAddress string    `json:"location_address"`
	CategoryID      int64     `json:"category_id"`
	Popularity      int       `json:"popularity"`
	IsActive        bool      `json:"is_active"`
	IsDeleted       bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsVisible reports whether the product should appear in listings.
func (p *Product) IsVisible() bool {
	return p.IsActive && !p.IsDeleted
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		LocationAddress: p.LocationAddress,
		CategoryID:      p.CategoryID,
		Popularity:      p.Popularity,
	}
}

func ToDataModel(p *Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		LocationAddress: p.LocationAddress,
		CategoryID:      p.CategoryID,
		Popularity:      p.Popularity,
		IsActive:        p.IsActive,
		IsDeleted:       p.IsDeleted,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromDataModel(p *productDatamodel.Product) *Product {
	return &Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		LocationAddress: p.LocationAddress,
		CategoryID:      p.CategoryID,
		Popularity:      p.Popularity,
		IsActive:        p.IsActive,
		IsDeleted:       p.IsDeleted,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
