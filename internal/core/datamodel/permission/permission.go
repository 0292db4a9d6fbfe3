package permission

import "time"

type Permission struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;uniqueIndex;not null"`
	Description    string    `gorm:"column:description"`
	DefaultGranted bool      `gorm:"column:default_granted;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}

// UserPermission is one grant row binding a user to a permission. A nil
// TargetID means the grant applies to every target of the permission's
// resource type. The composite unique index is the backstop against
// duplicate grants for the same scope.
type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;index:idx_user_permission_target,unique"`
	PermissionID int64     `gorm:"column:permission_id;not null;index:idx_user_permission_target,unique"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	IsDenied     bool      `gorm:"column:is_denied;default:false"`
	TargetID     *int64    `gorm:"column:target_id;index:idx_user_permission_target,unique"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
