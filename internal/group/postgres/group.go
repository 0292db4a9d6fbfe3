package postgres

import (
	groupDatamodel "github.com/scime/ecommerce/internal/core/datamodel/group"
	"github.com/scime/ecommerce/internal/group"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) group.RepositoryAPI {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) GetAll() ([]*groupDatamodel.Group, error) {
	var groups []*groupDatamodel.Group
	err := r.db.Order("name ASC").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) GetByID(id int64) (*groupDatamodel.Group, error) {
	var g groupDatamodel.Group
	err := r.db.Where("id = ?", id).First(&g).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) GetByName(name string) (*groupDatamodel.Group, error) {
	var g groupDatamodel.Group
	err := r.db.Where("name = ?", name).First(&g).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) Create(g *groupDatamodel.Group) error {
	return r.db.Create(g).Error
}

func (r *GroupRepository) Update(g *groupDatamodel.Group) error {
	return r.db.Save(g).Error
}

// Delete removes the group and its memberships in one transaction.
func (r *GroupRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&groupDatamodel.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&groupDatamodel.Group{}).Error
	})
}

func (r *GroupRepository) Members(groupID int64) ([]*groupDatamodel.GroupMember, error) {
	var members []*groupDatamodel.GroupMember
	err := r.db.Where("group_id = ?", groupID).Order("id ASC").Find(&members).Error
	return members, err
}

func (r *GroupRepository) FindMember(groupID, userID int64) (*groupDatamodel.GroupMember, error) {
	var m groupDatamodel.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *GroupRepository) AddMember(m *groupDatamodel.GroupMember) error {
	return r.db.Create(m).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID int64) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&groupDatamodel.GroupMember{}).Error
}
