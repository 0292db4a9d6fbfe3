package group

import (
	"log/slog"

	"github.com/scime/ecommerce/internal"
	groupDatamodel "github.com/scime/ecommerce/internal/core/datamodel/group"
	userDatamodel "github.com/scime/ecommerce/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetAll() ([]*groupDatamodel.Group, error)
	GetByID(id int64) (*groupDatamodel.Group, error)
	GetByName(name string) (*groupDatamodel.Group, error)
	Create(group *groupDatamodel.Group) error
	Update(group *groupDatamodel.Group) error
	Delete(id int64) error
	Members(groupID int64) ([]*groupDatamodel.GroupMember, error)
	FindMember(groupID, userID int64) (*groupDatamodel.GroupMember, error)
	AddMember(member *groupDatamodel.GroupMember) error
	RemoveMember(groupID, userID int64) error
}

type UserResolverAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserResolverAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserResolverAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func (s *Service) GetAllGroups() ([]GroupResponse, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get groups from repository", "error", err)
		return nil, err
	}

	var responses []GroupResponse
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}

func (s *Service) GetByID(id int64) (*Group, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get group", "error", err, "group_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrGroupNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateGroupDTO) (*Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("group with that name already exists", internal.ErrCodeDuplicateGroup)
	}

	row := &groupDatamodel.Group{Name: dto.Name, Description: dto.Description}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create group", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("group created", "group_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateGroupDTO) (*Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrGroupNotFound
	}

	if dto.Name != nil && *dto.Name != row.Name {
		existing, err := s.repo.GetByName(*dto.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, internal.NewConflictError("group with that name already exists", internal.ErrCodeDuplicateGroup)
		}
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update group", "error", err, "group_id", id)
		return nil, err
	}

	s.logger.Info("group updated", "group_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return internal.ErrGroupNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete group", "error", err, "group_id", id)
		return err
	}

	s.logger.Info("group deleted", "group_id", id, "name", row.Name)
	return nil
}

func (s *Service) Members(groupID int64) ([]*Member, error) {
	if _, err := s.GetByID(groupID); err != nil {
		return nil, err
	}

	rows, err := s.repo.Members(groupID)
	if err != nil {
		s.logger.Error("failed to list group members", "error", err, "group_id", groupID)
		return nil, err
	}

	members := make([]*Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, MemberFromDataModel(row))
	}
	return members, nil
}

func (s *Service) AddMember(groupID int64, dto AddMemberDTO) (*Member, error) {
	if _, err := s.GetByID(groupID); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(dto.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}

	existing, err := s.repo.FindMember(groupID, dto.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return MemberFromDataModel(existing), nil
	}

	row := &groupDatamodel.GroupMember{
		GroupID: groupID,
		UserID:  dto.UserID,
		AddedBy: dto.AddedBy,
	}
	if err := s.repo.AddMember(row); err != nil {
		s.logger.Error("failed to add group member", "error", err, "group_id", groupID, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("group member added", "group_id", groupID, "user_id", dto.UserID)
	return MemberFromDataModel(row), nil
}

func (s *Service) RemoveMember(groupID, userID int64) error {
	if _, err := s.GetByID(groupID); err != nil {
		return err
	}

	existing, err := s.repo.FindMember(groupID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.repo.RemoveMember(groupID, userID); err != nil {
		s.logger.Error("failed to remove group member", "error", err, "group_id", groupID, "user_id", userID)
		return err
	}

	s.logger.Info("group member removed", "group_id", groupID, "user_id", userID)
	return nil
}
