package permission

import (
	"log/slog"

	"github.com/scime/ecommerce/internal"
	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
)

type RepositoryAPI interface {
	GetAll() ([]*permissionDatamodel.Permission, error)
	GetByID(id int64) (*permissionDatamodel.Permission, error)
	GetByName(name string) (*permissionDatamodel.Permission, error)
	Create(p *permissionDatamodel.Permission) error
	Update(p *permissionDatamodel.Permission) error
	Delete(id int64) error
	Reconcile(toCreate []*permissionDatamodel.Permission, toDelete []*permissionDatamodel.Permission) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Sync reconciles the stored permission rows against the canonical catalog.
// Names missing from storage are created, stored names missing from the
// catalog are deleted. Rows present on both sides are left untouched, so a
// second run against an unchanged catalog is a no-op.
func (s *Service) Sync() error {
	return s.SyncWith(Catalog())
}

// SyncWith reconciles against an explicit canonical set.
func (s *Service) SyncWith(canonical map[string]Definition) error {
	existing, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load permissions for sync", "error", err)
		return err
	}

	existingByName := make(map[string]*permissionDatamodel.Permission, len(existing))
	for _, p := range existing {
		existingByName[p.Name] = p
	}

	var toCreate []*permissionDatamodel.Permission
	for name, def := range canonical {
		if _, ok := existingByName[name]; ok {
			continue
		}
		toCreate = append(toCreate, &permissionDatamodel.Permission{
			Name:           name,
			Description:    def.Description,
			DefaultGranted: def.DefaultGranted,
		})
	}

	var toDelete []*permissionDatamodel.Permission
	for _, p := range existing {
		if _, ok := canonical[p.Name]; !ok {
			toDelete = append(toDelete, p)
		}
	}

	if len(toCreate) == 0 && len(toDelete) == 0 {
		s.logger.Info("permission catalog already in sync", "count", len(existing))
		return nil
	}

	if err := s.repo.Reconcile(toCreate, toDelete); err != nil {
		s.logger.Error("permission sync failed", "error", err,
			"to_create", len(toCreate), "to_delete", len(toDelete))
		return err
	}

	s.logger.Info("permission catalog synced",
		"created", len(toCreate), "deleted", len(toDelete))
	return nil
}

func (s *Service) GetAll() ([]*Permission, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get permissions", "error", err)
		return nil, err
	}

	permissions := make([]*Permission, 0, len(rows))
	for _, row := range rows {
		permissions = append(permissions, FromDataModel(row))
	}
	return permissions, nil
}

// Names returns the permission names only, for lightweight existence checks.
func (s *Service) Names() ([]string, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get permission names", "error", err)
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// GetByID returns nil without error when no permission has the id.
func (s *Service) GetByID(id int64) (*Permission, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission by id", "error", err, "permission_id", id)
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// GetByName returns nil without error when the name is unknown.
func (s *Service) GetByName(name string) (*Permission, error) {
	row, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to get permission by name", "error", err, "name", name)
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreatePermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check for existing permission", "error", err, "name", dto.Name)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewDuplicatePermissionError(dto.Name)
	}

	row := &permissionDatamodel.Permission{
		Name:           dto.Name,
		Description:    dto.Description,
		DefaultGranted: dto.DefaultGranted,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create permission", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("permission created", "permission_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdatePermissionDTO) (*Permission, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission for update", "error", err, "permission_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrPermissionNotFound
	}

	if dto.Name != nil {
		// renaming to a name held by a different permission is a conflict,
		// renaming to the current name is not
		existing, err := s.repo.GetByName(*dto.Name)
		if err != nil {
			s.logger.Error("failed to check rename collision", "error", err, "name", *dto.Name)
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, internal.NewDuplicatePermissionError(*dto.Name)
		}
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.DefaultGranted != nil {
		row.DefaultGranted = *dto.DefaultGranted
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update permission", "error", err, "permission_id", id)
		return nil, err
	}

	s.logger.Info("permission updated", "permission_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Delete(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission for delete", "error", err, "permission_id", id)
		return err
	}
	if row == nil {
		return internal.ErrPermissionNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete permission", "error", err, "permission_id", id)
		return err
	}

	s.logger.Info("permission deleted", "permission_id", id, "name", row.Name)
	return nil
}
