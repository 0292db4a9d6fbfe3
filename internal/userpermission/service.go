package userpermission

import (
	"context"
	"log/slog"

	"github.com/scime/ecommerce/internal"
	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
	"github.com/scime/ecommerce/internal/core/events"
	"github.com/scime/ecommerce/internal/permission"
	"github.com/scime/ecommerce/internal/user"
)

// RepositoryAPI is the grant store contract. Not-found on point lookups is
// reported as (nil, nil); errors are store failures. FindByUserAndPermissionName
// must return grants in creation order, which Evaluate's global-first rule
// depends on.
type RepositoryAPI interface {
	InsertMany(grants []*permissionDatamodel.UserPermission) error
	UpdateOne(grant *permissionDatamodel.UserPermission) error
	DeleteMany(grants []*permissionDatamodel.UserPermission) error
	FindByUser(userID int64) ([]*permissionDatamodel.UserPermission, error)
	FindByUserAndPermission(userID, permissionID int64) (*permissionDatamodel.UserPermission, error)
	FindByUserAndPermissionName(userID int64, permissionName string) ([]*permissionDatamodel.UserPermission, error)
	PermissionNamesByUser(userID int64) ([]string, error)
}

type UserResolverAPI interface {
	GetByID(userID int64) (*user.User, error)
}

// PermissionResolverAPI resolves permission names leniently: unknown names
// come back as (nil, nil), not as an error.
type PermissionResolverAPI interface {
	GetByName(name string) (*permission.Permission, error)
}

type Service struct {
	repo        RepositoryAPI
	users       UserResolverAPI
	permissions PermissionResolverAPI
	eventBus    *events.EventBus
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, users UserResolverAPI, permissions PermissionResolverAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		users:       users,
		permissions: permissions,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Assign creates one grant per resolvable entry and inserts them in a single
// bulk write. Entries naming an unknown permission are reported as skipped,
// not failed: a typo in one entry must not abort the rest of the batch. An
// entry without a target fails the whole call before anything is inserted.
func (s *Service) Assign(dto AssignPermissionsDTO) ([]GrantResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(dto.UserID); err != nil {
		return nil, err
	}

	results := make([]GrantResult, 0, len(dto.Permissions))
	var toInsert []*permissionDatamodel.UserPermission
	var assigned []string

	for _, entry := range dto.Permissions {
		perm, err := s.permissions.GetByName(entry.Permission)
		if err != nil {
			return nil, err
		}
		if perm == nil {
			s.logger.Warn("skipping unknown permission in assign batch",
				"user_id", dto.UserID, "permission", entry.Permission)
			results = append(results, GrantResult{Permission: entry.Permission, Status: StatusSkippedUnknownPermission})
			continue
		}

		if entry.Target == nil {
			return nil, internal.NewMissingTargetError(entry.Permission)
		}

		grant := &permissionDatamodel.UserPermission{
			UserID:       dto.UserID,
			PermissionID: perm.ID,
			IsActive:     true,
			IsDenied:     false,
			TargetID:     entry.Target.TargetID(),
			GrantedBy:    dto.GrantedBy,
		}
		if entry.IsActive != nil {
			grant.IsActive = *entry.IsActive
		}
		if entry.IsDenied != nil {
			grant.IsDenied = *entry.IsDenied
		}

		toInsert = append(toInsert, grant)
		assigned = append(assigned, entry.Permission)
		results = append(results, GrantResult{Permission: entry.Permission, Status: StatusAssigned})
	}

	if len(toInsert) > 0 {
		if err := s.repo.InsertMany(toInsert); err != nil {
			s.logger.Error("bulk grant insert failed", "error", err, "user_id", dto.UserID)
			return nil, err
		}
	}

	s.logger.Info("permissions assigned", "user_id", dto.UserID, "count", len(toInsert))
	s.publish(events.NewGrantsAssignedEvent(dto.UserID, assigned, dto.GrantedBy))
	return results, nil
}

// SetInitial bulk-creates one active, non-denied, global grant per supplied
// permission, for bootstrap scenarios such as provisioning a superadmin.
func (s *Service) SetInitial(u *user.User, permissions []*permission.Permission) ([]*Grant, error) {
	if u == nil {
		return nil, internal.ErrUserNotFound
	}

	toInsert := make([]*permissionDatamodel.UserPermission, 0, len(permissions))
	names := make([]string, 0, len(permissions))
	for _, perm := range permissions {
		if perm == nil || perm.ID == 0 {
			return nil, internal.NewInvalidPermissionObjectError()
		}
		toInsert = append(toInsert, &permissionDatamodel.UserPermission{
			UserID:       u.ID,
			PermissionID: perm.ID,
			IsActive:     true,
			IsDenied:     false,
			TargetID:     nil,
		})
		names = append(names, perm.Name)
	}

	if err := s.repo.InsertMany(toInsert); err != nil {
		s.logger.Error("initial grant insert failed", "error", err, "user_id", u.ID)
		return nil, err
	}

	grants := make([]*Grant, 0, len(toInsert))
	for _, row := range toInsert {
		grants = append(grants, FromDataModel(row))
	}

	s.logger.Info("initial permissions set", "user_id", u.ID, "count", len(grants))
	s.publish(events.NewGrantsAssignedEvent(u.ID, names, nil))
	return grants, nil
}

// GrantsForUser returns every grant row for the user, active or not, denied
// or not. Administrative inspection only; enforcement goes through Evaluate.
func (s *Service) GrantsForUser(userID int64) ([]*Grant, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByUser(userID)
	if err != nil {
		s.logger.Error("failed to list grants", "error", err, "user_id", userID)
		return nil, err
	}

	grants := make([]*Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, FromDataModel(row))
	}
	return grants, nil
}

// PermissionNamesForUser returns the distinct permission names referenced by
// the user's grants regardless of active or denied state. Callers needing an
// enforcement answer must use Evaluate.
func (s *Service) PermissionNamesForUser(userID int64) ([]string, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	names, err := s.repo.PermissionNamesByUser(userID)
	if err != nil {
		s.logger.Error("failed to list permission names", "error", err, "user_id", userID)
		return nil, err
	}
	return names, nil
}

// Update modifies existing grants; it never creates one. IsActive and
// IsDenied apply partially, the target is mandatory on every entry. All
// entries are processed even when some have no matching grant; those are
// reported per entry and the call returns a GrantNotFound error naming them
// alongside the outcomes of the entries that did apply.
func (s *Service) Update(dto AssignPermissionsDTO) ([]GrantResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(dto.UserID); err != nil {
		return nil, err
	}

	results := make([]GrantResult, 0, len(dto.Permissions))
	var updated []string
	var missing []string

	for _, entry := range dto.Permissions {
		perm, err := s.permissions.GetByName(entry.Permission)
		if err != nil {
			return results, err
		}
		if perm == nil {
			s.logger.Warn("skipping unknown permission in update batch",
				"user_id", dto.UserID, "permission", entry.Permission)
			results = append(results, GrantResult{Permission: entry.Permission, Status: StatusSkippedUnknownPermission})
			continue
		}

		if entry.Target == nil {
			return results, internal.NewMissingTargetError(entry.Permission)
		}

		row, err := s.repo.FindByUserAndPermission(dto.UserID, perm.ID)
		if err != nil {
			return results, err
		}
		if row == nil {
			results = append(results, GrantResult{Permission: entry.Permission, Status: StatusGrantNotFound})
			missing = append(missing, entry.Permission)
			continue
		}

		if entry.IsActive != nil {
			row.IsActive = *entry.IsActive
		}
		if entry.IsDenied != nil {
			row.IsDenied = *entry.IsDenied
		}
		row.TargetID = entry.Target.TargetID()

		if err := s.repo.UpdateOne(row); err != nil {
			s.logger.Error("grant update failed", "error", err,
				"user_id", dto.UserID, "permission", entry.Permission)
			return results, err
		}

		updated = append(updated, entry.Permission)
		results = append(results, GrantResult{Permission: entry.Permission, Status: StatusUpdated})
	}

	s.logger.Info("permissions updated", "user_id", dto.UserID,
		"updated", len(updated), "missing", len(missing))
	if len(updated) > 0 {
		s.publish(events.NewGrantsUpdatedEvent(dto.UserID, updated, dto.GrantedBy))
	}

	if len(missing) > 0 {
		return results, internal.NewGrantNotFoundError(missing...)
	}
	return results, nil
}

// Revoke deletes the grants for the named permissions in one bulk delete.
// Unknown permission names and permissions with no grant are both skipped
// without error.
func (s *Service) Revoke(dto RevokePermissionsDTO) ([]GrantResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(dto.UserID); err != nil {
		return nil, err
	}

	results := make([]GrantResult, 0, len(dto.Permissions))
	var toDelete []*permissionDatamodel.UserPermission
	var revoked []string

	for _, name := range dto.Permissions {
		perm, err := s.permissions.GetByName(name)
		if err != nil {
			return nil, err
		}
		if perm == nil {
			results = append(results, GrantResult{Permission: name, Status: StatusSkippedUnknownPermission})
			continue
		}

		row, err := s.repo.FindByUserAndPermission(dto.UserID, perm.ID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			results = append(results, GrantResult{Permission: name, Status: StatusGrantNotFound})
			continue
		}

		toDelete = append(toDelete, row)
		revoked = append(revoked, name)
		results = append(results, GrantResult{Permission: name, Status: StatusRevoked})
	}

	if len(toDelete) > 0 {
		if err := s.repo.DeleteMany(toDelete); err != nil {
			s.logger.Error("bulk grant delete failed", "error", err, "user_id", dto.UserID)
			return nil, err
		}
	}

	s.logger.Info("permissions revoked", "user_id", dto.UserID, "count", len(toDelete))
	if len(revoked) > 0 {
		s.publish(events.NewGrantsRevokedEvent(dto.UserID, revoked, nil))
	}
	return results, nil
}

// Evaluate is the decision function for "can this user exercise this
// permission against this target". Inactive grants are invisible. The first
// active global grant decides immediately, so a global rule is never
// overridden by a narrower one; otherwise the first active grant whose
// target matches decides. With no applicable grant the result is
// Indeterminate and the caller applies its own default policy.
func (s *Service) Evaluate(userID int64, permissionName string, targetID *int64) (Decision, error) {
	rows, err := s.repo.FindByUserAndPermissionName(userID, permissionName)
	if err != nil {
		s.logger.Error("grant lookup failed", "error", err,
			"user_id", userID, "permission", permissionName)
		return Indeterminate, err
	}

	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		if row.TargetID == nil {
			return FromDataModel(row).Decide(), nil
		}
		if targetID != nil && *row.TargetID == *targetID {
			return FromDataModel(row).Decide(), nil
		}
	}

	return Indeterminate, nil
}

func (s *Service) publish(event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish grant event", "event_type", event.EventType(), "error", err)
	}
}
