package group_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	groupDatamodel "github.com/scime/ecommerce/internal/core/datamodel/group"
	userDatamodel "github.com/scime/ecommerce/internal/core/datamodel/user"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/group"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGroupService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Group Service Suite")
}

type MockRepository struct {
	groups       map[int64]*groupDatamodel.Group
	members      []*groupDatamodel.GroupMember
	nextID       int64
	nextMemberID int64
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		groups:       make(map[int64]*groupDatamodel.Group),
		nextID:       1,
		nextMemberID: 1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) GetAll() ([]*groupDatamodel.Group, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*groupDatamodel.Group, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, g)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id int64) (*groupDatamodel.Group, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.groups[id], nil
}

func (m *MockRepository) GetByName(name string) (*groupDatamodel.Group, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, g := range m.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(g *groupDatamodel.Group) error {
	if m.shouldFail {
		return m.failError
	}
	g.ID = m.nextID
	m.nextID++
	m.groups[g.ID] = g
	return nil
}

func (m *MockRepository) Update(g *groupDatamodel.Group) error {
	if m.shouldFail {
		return m.failError
	}
	m.groups[g.ID] = g
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.groups, id)
	var kept []*groupDatamodel.GroupMember
	for _, gm := range m.members {
		if gm.GroupID != id {
			kept = append(kept, gm)
		}
	}
	m.members = kept
	return nil
}

func (m *MockRepository) Members(groupID int64) ([]*groupDatamodel.GroupMember, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*groupDatamodel.GroupMember
	for _, gm := range m.members {
		if gm.GroupID == groupID {
			out = append(out, gm)
		}
	}
	return out, nil
}

func (m *MockRepository) FindMember(groupID, userID int64) (*groupDatamodel.GroupMember, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, gm := range m.members {
		if gm.GroupID == groupID && gm.UserID == userID {
			return gm, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) AddMember(gm *groupDatamodel.GroupMember) error {
	if m.shouldFail {
		return m.failError
	}
	gm.ID = m.nextMemberID
	m.nextMemberID++
	m.members = append(m.members, gm)
	return nil
}

func (m *MockRepository) RemoveMember(groupID, userID int64) error {
	if m.shouldFail {
		return m.failError
	}
	var kept []*groupDatamodel.GroupMember
	for _, gm := range m.members {
		if gm.GroupID != groupID || gm.UserID != userID {
			kept = append(kept, gm)
		}
	}
	m.members = kept
	return nil
}

type MockUserResolver struct {
	users map[int64]*userDatamodel.User
}

func (m *MockUserResolver) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

var _ = Describe("Group Service", func() {
	var (
		repo    *MockRepository
		users   *MockUserResolver
		service *group.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		users = &MockUserResolver{users: map[int64]*userDatamodel.User{
			7: {ID: 7, Username: "buyer", Email: "buyer@example.com"},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = group.NewService(repo, users, logger)
	})

	Describe("Create", func() {
		It("should create a group", func() {
			g, err := service.Create(group.CreateGroupDTO{
				Name:        "moderators",
				Description: "Store moderators",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.ID).NotTo(BeZero())
			Expect(g.Name).To(Equal("moderators"))
		})

		It("should reject a duplicate name", func() {
			_, err := service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateGroup))
		})

		It("should reject an empty name", func() {
			_, err := service.Create(group.CreateGroupDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		var existing *group.Group

		BeforeEach(func() {
			var err error
			existing, err = service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should apply partial updates", func() {
			g, err := service.Update(existing.ID, group.UpdateGroupDTO{
				Description: strPtr("changed"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Name).To(Equal("moderators"))
			Expect(g.Description).To(Equal("changed"))
		})

		It("should reject renaming onto another group", func() {
			_, err := service.Create(group.CreateGroupDTO{Name: "admins"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(existing.ID, group.UpdateGroupDTO{Name: strPtr("admins")})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateGroup))
		})

		It("should fail for a missing group", func() {
			_, err := service.Update(12345, group.UpdateGroupDTO{Name: strPtr("renamed")})
			Expect(err).To(MatchError(internal.ErrGroupNotFound))
		})
	})

	Describe("Delete", func() {
		It("should delete the group", func() {
			g, err := service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(g.ID)).To(Succeed())

			_, err = service.GetByID(g.ID)
			Expect(err).To(MatchError(internal.ErrGroupNotFound))
		})

		It("should fail for a missing group", func() {
			Expect(service.Delete(12345)).To(MatchError(internal.ErrGroupNotFound))
		})
	})

	Describe("AddMember", func() {
		var g *group.Group

		BeforeEach(func() {
			var err error
			g, err = service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should add a member and record who added them", func() {
			member, err := service.AddMember(g.ID, group.AddMemberDTO{
				UserID:  7,
				AddedBy: int64Ptr(99),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(member.UserID).To(Equal(int64(7)))
			Expect(member.AddedBy).To(Equal(int64Ptr(99)))
		})

		It("should be idempotent for an existing member", func() {
			first, err := service.AddMember(g.ID, group.AddMemberDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())

			second, err := service.AddMember(g.ID, group.AddMemberDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))

			members, err := service.Members(g.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(1))
		})

		It("should fail for an unknown user", func() {
			_, err := service.AddMember(g.ID, group.AddMemberDTO{UserID: 12345})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})

		It("should fail for a missing group", func() {
			_, err := service.AddMember(12345, group.AddMemberDTO{UserID: 7})
			Expect(err).To(MatchError(internal.ErrGroupNotFound))
		})
	})

	Describe("RemoveMember", func() {
		var g *group.Group

		BeforeEach(func() {
			var err error
			g, err = service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AddMember(g.ID, group.AddMemberDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should remove the member", func() {
			Expect(service.RemoveMember(g.ID, 7)).To(Succeed())

			members, err := service.Members(g.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(BeEmpty())
		})

		It("should succeed silently when the user is not a member", func() {
			Expect(service.RemoveMember(g.ID, 999)).To(Succeed())
		})
	})

	Describe("Members", func() {
		It("should fail for a missing group", func() {
			_, err := service.Members(12345)
			Expect(err).To(MatchError(internal.ErrGroupNotFound))
		})

		It("should propagate store failures", func() {
			g, err := service.Create(group.CreateGroupDTO{Name: "moderators"})
			Expect(err).NotTo(HaveOccurred())

			repo.SetShouldFail(true, errors.New("database error"))
			_, err = service.Members(g.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
