package group

import (
	"time"

	groupDatamodel "github.com/scime/ecommerce/internal/core/datamodel/group"
)

type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Member struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	UserID    int64     `json:"user_id"`
	AddedBy   *int64    `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDataModel(g *Group) *groupDatamodel.Group {
	return &groupDatamodel.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func FromDataModel(g *groupDatamodel.Group) *Group {
	return &Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func MemberFromDataModel(m *groupDatamodel.GroupMember) *Member {
	return &Member{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		AddedBy:   m.AddedBy,
		CreatedAt: m.CreatedAt,
	}
}
