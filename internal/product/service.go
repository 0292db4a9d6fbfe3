package product

import (
	"log/slog"

	"github.com/scime/ecommerce/internal"
	productDatamodel "github.com/scime/ecommerce/internal/core/datamodel/product"
)

type RepositoryAPI interface {
	GetVisiblePaginated(page, limit int) ([]*productDatamodel.Product, error)
	GetByID(id int64) (*productDatamodel.Product, error)
	Create(p *productDatamodel.Product) error
	Update(p *productDatamodel.Product) error
	SoftDelete(id int64) error
}

// CategoryChecker validates that a product's category exists and is active.
type CategoryChecker interface {
	IsValidCategory(id int64) bool
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) List(page, limit int) ([]*Product, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := s.repo.GetVisiblePaginated(page, limit)
	if err != nil {
		s.logger.Error("failed to list products", "error", err, "page", page)
		return nil, err
	}

	products := make([]*Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, FromDataModel(row))
	}
	return products, nil
}

func (s *Service) GetByID(id int64) (*Product, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get product", "error", err, "product_id", id)
		return nil, err
	}
	if row == nil || row.IsDeleted {
		return nil, internal.ErrProductNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if s.categories != nil && !s.categories.IsValidCategory(dto.CategoryID) {
		return nil, internal.ErrCategoryNotFound
	}

	row := &productDatamodel.Product{
		Name:            dto.Name,
		Description:     dto.Description,
		LocationAddress: dto.LocationAddress,
		CategoryID:      dto.CategoryID,
		IsActive:        true,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create product", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("product created", "product_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil || row.IsDeleted {
		return nil, internal.ErrProductNotFound
	}

	if dto.CategoryID != nil {
		if s.categories != nil && !s.categories.IsValidCategory(*dto.CategoryID) {
			return nil, internal.ErrCategoryNotFound
		}
		row.CategoryID = *dto.CategoryID
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.LocationAddress != nil {
		row.LocationAddress = *dto.LocationAddress
	}
	if dto.Popularity != nil {
		row.Popularity = *dto.Popularity
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update product", "error", err, "product_id", id)
		return nil, err
	}

	s.logger.Info("product updated", "product_id", id)
	return FromDataModel(row), nil
}

// Delete soft-deletes the product so existing orders keep referencing it.
func (s *Service) Delete(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil || row.IsDeleted {
		return internal.ErrProductNotFound
	}

	if err := s.repo.SoftDelete(id); err != nil {
		s.logger.Error("failed to delete product", "error", err, "product_id", id)
		return err
	}

	s.logger.Info("product deleted", "product_id", id, "name", row.Name)
	return nil
}
