package group

import "time"

type Group struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMember struct {
	ID        int64     `gorm:"primaryKey"`
	GroupID   int64     `gorm:"column:group_id;not null;index:idx_group_member,unique"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_group_member,unique"`
	AddedBy   *int64    `gorm:"column:added_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
