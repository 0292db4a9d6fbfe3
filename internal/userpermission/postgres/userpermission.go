package postgres

import (
	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
	"github.com/scime/ecommerce/internal/userpermission"
	"gorm.io/gorm"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) userpermission.RepositoryAPI {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) InsertMany(grants []*permissionDatamodel.UserPermission) error {
	if len(grants) == 0 {
		return nil
	}
	return r.db.Create(grants).Error
}

func (r *GrantRepository) UpdateOne(grant *permissionDatamodel.UserPermission) error {
	return r.db.Save(grant).Error
}

func (r *GrantRepository) DeleteMany(grants []*permissionDatamodel.UserPermission) error {
	if len(grants) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.ID)
	}
	return r.db.Delete(&permissionDatamodel.UserPermission{}, ids).Error
}

func (r *GrantRepository) FindByUser(userID int64) ([]*permissionDatamodel.UserPermission, error) {
	var grants []*permissionDatamodel.UserPermission
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&grants).Error
	return grants, err
}

func (r *GrantRepository) FindByUserAndPermission(userID, permissionID int64) (*permissionDatamodel.UserPermission, error) {
	var grant permissionDatamodel.UserPermission
	err := r.db.Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Order("id ASC").First(&grant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// FindByUserAndPermissionName returns all target-scoped variants of the
// grant in creation order. Evaluate's global-first tie-break relies on this
// ordering being stable.
func (r *GrantRepository) FindByUserAndPermissionName(userID int64, permissionName string) ([]*permissionDatamodel.UserPermission, error) {
	var grants []*permissionDatamodel.UserPermission
	err := r.db.
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ? AND permissions.name = ?", userID, permissionName).
		Order("user_permissions.id ASC").
		Find(&grants).Error
	return grants, err
}

func (r *GrantRepository) PermissionNamesByUser(userID int64) ([]string, error) {
	var names []string
	err := r.db.Model(&permissionDatamodel.UserPermission{}).
		Distinct("permissions.name").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	return names, err
}
