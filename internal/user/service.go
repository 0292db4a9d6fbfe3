package user

import (
	"log/slog"

	"github.com/scime/ecommerce/internal"
	userDatamodel "github.com/scime/ecommerce/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByUsername(username string) (*userDatamodel.User, error)
	GetActivePaginated(page, limit int) ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
}

// PermissionLister supplies the distinct permission names a user's grants
// reference. Satisfied by the grant store.
type PermissionLister interface {
	PermissionNamesByUser(userID int64) ([]string, error)
}

type Service struct {
	repo        RepositoryAPI
	permissions PermissionLister
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, permissions PermissionLister, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		permissions: permissions,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	row, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	u := FromDataModel(row)
	if s.permissions != nil {
		names, err := s.permissions.PermissionNamesByUser(userID)
		if err != nil {
			s.logger.Error("failed to load user permissions", "error", err, "user_id", userID)
			return nil, err
		}
		u.Permissions = names
	}
	return u, nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	row, err := s.repo.GetByEmail(email)
	if err != nil {
		s.logger.Error("failed to get user by email", "error", err)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByUsername(username string) (*User, error) {
	row, err := s.repo.GetByUsername(username)
	if err != nil {
		s.logger.Error("failed to get user by username", "error", err, "username", username)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

// ActiveUsers lists active users one page at a time, ordered by id.
func (s *Service) ActiveUsers(page, limit int) ([]*User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := s.repo.GetActivePaginated(page, limit)
	if err != nil {
		s.logger.Error("failed to list active users", "error", err, "page", page)
		return nil, err
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, internal.NewConflictError("user with that email already exists", internal.ErrCodeDuplicateUser)
	}
	if existing, err := s.repo.GetByUsername(dto.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, internal.NewConflictError("user with that username already exists", internal.ErrCodeDuplicateUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "username", row.Username)
	return FromDataModel(row), nil
}

func (s *Service) Update(userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Email != nil {
		row.Email = *dto.Email
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", userID)
	return FromDataModel(row), nil
}

// SetActive activates or deactivates a user. Inactive users can no longer
// authenticate; their grant rows are untouched.
func (s *Service) SetActive(userID int64, active bool) (*User, error) {
	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	row.IsActive = active
	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to change user active state", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("user active state changed", "user_id", userID, "is_active", active)
	return FromDataModel(row), nil
}
