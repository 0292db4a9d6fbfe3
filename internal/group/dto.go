package group

import "github.com/scime/ecommerce/internal"

type CreateGroupDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateGroupDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeInvalidName)
	}
	return nil
}

type UpdateGroupDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d UpdateGroupDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeInvalidName)
	}
	return nil
}

type AddMemberDTO struct {
	UserID  int64  `json:"user_id"`
	AddedBy *int64 `json:"-"`
}

type GroupResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
	}
}
