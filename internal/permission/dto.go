package permission

import (
	"github.com/scime/ecommerce/internal/core/common/validation"
)

type CreatePermissionDTO struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultGranted bool   `json:"default_granted"`
}

func (d CreatePermissionDTO) Validate() error {
	if err := validation.ValidatePermissionName(d.Name); err != nil {
		return err
	}
	return nil
}

// UpdatePermissionDTO carries a partial update; nil fields keep the stored value.
type UpdatePermissionDTO struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	DefaultGranted *bool   `json:"default_granted,omitempty"`
}

func (d UpdatePermissionDTO) Validate() error {
	if d.Name != nil {
		if err := validation.ValidatePermissionName(*d.Name); err != nil {
			return err
		}
	}
	return nil
}

type PermissionResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultGranted bool   `json:"default_granted"`
}
