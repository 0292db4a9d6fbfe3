package product

import (
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/core/common/validation"
)

type ProductResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LocationAddress string `json:"location_address"`
	CategoryID      int64  `json:"category_id"`
	Popularity      int    `json:"popularity"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type CreateProductDTO struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	LocationAddress string `json:"location_address"`
	CategoryID      int64  `json:"category_id"`
}

func (d CreateProductDTO) Validate() error {
	if err := validation.ValidateProductName(d.Name); err != nil {
		return err
	}
	if err := validation.ValidateLocationAddress(d.LocationAddress); err != nil {
		return err
	}
	if d.CategoryID == 0 {
		return internal.NewValidationFieldError("category_id", "category_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateProductDTO struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	LocationAddress *string `json:"location_address,omitempty"`
	CategoryID      *int64  `json:"category_id,omitempty"`
	Popularity      *int    `json:"popularity,omitempty"`
}

func (d UpdateProductDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeInvalidName)
	}
	return nil
}
