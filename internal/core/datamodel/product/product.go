package product

import "time"

type Product struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description"`
	LocationAddress string    `gorm:"column:location_address;not null"`
	CategoryID      int64     `gorm:"column:category_id;not null;index"`
	Popularity      int       `gorm:"column:popularity"`
	IsActive        bool      `gorm:"column:is_active;default:true"`
	IsDeleted       bool      `gorm:"column:is_deleted;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
