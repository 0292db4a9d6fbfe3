package userpermission

import (
	"encoding/json"
	"fmt"

	"github.com/scime/ecommerce/internal"
)

// TargetAll is the wire value that maps to a global (nil-target) grant.
const TargetAll = "all"

// Target is the scope of one grant entry: either "all" or a numeric target
// id. It accepts both a JSON string ("all") and a JSON number on the wire.
type Target struct {
	All bool
	ID  int64
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != TargetAll {
			return fmt.Errorf("invalid target %q: expected %q or a target id", s, TargetAll)
		}
		t.All = true
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid target %s: expected %q or a target id", data, TargetAll)
	}
	t.ID = id
	return nil
}

func (t Target) MarshalJSON() ([]byte, error) {
	if t.All {
		return json.Marshal(TargetAll)
	}
	return json.Marshal(t.ID)
}

// TargetID maps the wire scope to the stored form: nil for "all", the id otherwise.
func (t *Target) TargetID() *int64 {
	if t.All {
		return nil
	}
	id := t.ID
	return &id
}

// GrantEntry is one entry of an assign or update batch. Entries are an
// ordered sequence; they are processed and reported in input order.
// IsActive and IsDenied are optional: on assign they default to true/false,
// on update an absent field keeps the stored value.
type GrantEntry struct {
	Permission string  `json:"permission"`
	IsActive   *bool   `json:"is_active,omitempty"`
	IsDenied   *bool   `json:"is_denied,omitempty"`
	Target     *Target `json:"target,omitempty"`
}

type AssignPermissionsDTO struct {
	UserID      int64        `json:"user_id"`
	Permissions []GrantEntry `json:"permissions"`

	// GrantedBy is set by the handler from the authenticated caller, not
	// taken from the request body.
	GrantedBy *int64 `json:"-"`
}

func (d AssignPermissionsDTO) Validate() error {
	if d.UserID == 0 {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	for _, entry := range d.Permissions {
		if entry.Permission == "" {
			return internal.NewValidationFieldError("permissions", "permission name cannot be empty", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

type RevokePermissionsDTO struct {
	UserID      int64    `json:"user_id"`
	Permissions []string `json:"permissions"`
}

func (d RevokePermissionsDTO) Validate() error {
	if d.UserID == 0 {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type GrantResultsResponse struct {
	Results []GrantResult `json:"results"`
}

type EvaluateResponse struct {
	Permission string   `json:"permission"`
	TargetID   *int64   `json:"target_id,omitempty"`
	Decision   int      `json:"decision"`
	Outcome    string   `json:"outcome"`
}
