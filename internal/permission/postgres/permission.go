package postgres

import (
	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
	"github.com/scime/ecommerce/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetAll() ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.Order("name ASC").Find(&permissions).Error
	return permissions, err
}

func (r *PermissionRepository) GetByID(id int64) (*permissionDatamodel.Permission, error) {
	var p permissionDatamodel.Permission
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) GetByName(name string) (*permissionDatamodel.Permission, error) {
	var p permissionDatamodel.Permission
	err := r.db.Where("name = ?", name).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) Create(p *permissionDatamodel.Permission) error {
	return r.db.Create(p).Error
}

func (r *PermissionRepository) Update(p *permissionDatamodel.Permission) error {
	return r.db.Save(p).Error
}

func (r *PermissionRepository) Delete(id int64) error {
	return r.db.Delete(&permissionDatamodel.Permission{}, id).Error
}

// Reconcile applies catalog additions and removals in one transaction so a
// failed sync leaves no partial state behind.
func (r *PermissionRepository) Reconcile(toCreate, toDelete []*permissionDatamodel.Permission) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(toCreate) > 0 {
			if err := tx.Create(toCreate).Error; err != nil {
				return err
			}
		}
		for _, p := range toDelete {
			if err := tx.Delete(&permissionDatamodel.Permission{}, p.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
