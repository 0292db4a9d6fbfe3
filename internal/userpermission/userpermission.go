package userpermission

import (
	"time"

	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
)

// Decision is the three-valued outcome of a permission check. Indeterminate
// means no applicable grant was found; callers decide the fallback policy.
type Decision int

const (
	Deny          Decision = -1
	Indeterminate Decision = 0
	Allow         Decision = 1
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "indeterminate"
	}
}

// Grant is one scoping rule binding a user to a permission. A nil TargetID
// makes the grant global: it applies to every target of the permission's
// resource type.
type Grant struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	PermissionID   int64     `json:"permission_id"`
	PermissionName string    `json:"permission_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	IsDenied       bool      `json:"is_denied"`
	TargetID       *int64    `json:"target_id"`
	GrantedBy      *int64    `json:"granted_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsGlobal reports whether the grant applies to all targets.
func (g *Grant) IsGlobal() bool {
	return g.TargetID == nil
}

// Decide translates the grant's deny flag into a Decision.
func (g *Grant) Decide() Decision {
	if g.IsDenied {
		return Deny
	}
	return Allow
}

type GrantStatus string

const (
	StatusAssigned                 GrantStatus = "assigned"
	StatusUpdated                  GrantStatus = "updated"
	StatusRevoked                  GrantStatus = "revoked"
	StatusSkippedUnknownPermission GrantStatus = "skipped_unknown_permission"
	StatusGrantNotFound            GrantStatus = "grant_not_found"
)

// GrantResult reports the outcome of one batch entry. Batch operations
// return one result per input entry, in input order, so callers see skipped
// entries without diffing against their request.
type GrantResult struct {
	Permission string      `json:"permission"`
	Status     GrantStatus `json:"status"`
}

func ToDataModel(g *Grant) *permissionDatamodel.UserPermission {
	return &permissionDatamodel.UserPermission{
		ID:           g.ID,
		UserID:       g.UserID,
		PermissionID: g.PermissionID,
		IsActive:     g.IsActive,
		IsDenied:     g.IsDenied,
		TargetID:     g.TargetID,
		GrantedBy:    g.GrantedBy,
		CreatedAt:    g.CreatedAt,
	}
}

func FromDataModel(row *permissionDatamodel.UserPermission) *Grant {
	return &Grant{
		ID:           row.ID,
		UserID:       row.UserID,
		PermissionID: row.PermissionID,
		IsActive:     row.IsActive,
		IsDenied:     row.IsDenied,
		TargetID:     row.TargetID,
		GrantedBy:    row.GrantedBy,
		CreatedAt:    row.CreatedAt,
	}
}
