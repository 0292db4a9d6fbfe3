package permission

import (
	"time"

	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
)

type Permission struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	DefaultGranted bool      `json:"default_granted"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Permission) ToResponse() PermissionResponse {
	return PermissionResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		DefaultGranted: p.DefaultGranted,
	}
}

func ToDataModel(p *Permission) *permissionDatamodel.Permission {
	return &permissionDatamodel.Permission{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		DefaultGranted: p.DefaultGranted,
		CreatedAt:      p.CreatedAt,
	}
}

func FromDataModel(p *permissionDatamodel.Permission) *Permission {
	return &Permission{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		DefaultGranted: p.DefaultGranted,
		CreatedAt:      p.CreatedAt,
	}
}
