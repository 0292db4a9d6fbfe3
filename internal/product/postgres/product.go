package postgres

import (
	productDatamodel "github.com/scime/ecommerce/internal/core/datamodel/product"
	"github.com/scime/ecommerce/internal/product"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetVisiblePaginated(page, limit int) ([]*productDatamodel.Product, error) {
	var products []*productDatamodel.Product
	offset := (page - 1) * limit
	err := r.db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("popularity DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetByID(id int64) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(p *productDatamodel.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *productDatamodel.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) SoftDelete(id int64) error {
	return r.db.Model(&productDatamodel.Product{}).Where("id = ?", id).Update("is_deleted", true).Error
}
