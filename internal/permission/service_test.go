package permission_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/permission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPermissionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Service Suite")
}

type MockRepository struct {
	permissions map[int64]*permissionDatamodel.Permission
	nextID      int64
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		permissions: make(map[int64]*permissionDatamodel.Permission),
		nextID:      1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) GetAll() ([]*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*permissionDatamodel.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id int64) (*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.permissions[id], nil
}

func (m *MockRepository) GetByName(name string) (*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, p := range m.permissions {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(p *permissionDatamodel.Permission) error {
	if m.shouldFail {
		return m.failError
	}
	p.ID = m.nextID
	m.nextID++
	m.permissions[p.ID] = p
	return nil
}

func (m *MockRepository) Update(p *permissionDatamodel.Permission) error {
	if m.shouldFail {
		return m.failError
	}
	m.permissions[p.ID] = p
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.permissions, id)
	return nil
}

func (m *MockRepository) Reconcile(toCreate, toDelete []*permissionDatamodel.Permission) error {
	if m.shouldFail {
		return m.failError
	}
	for _, p := range toDelete {
		delete(m.permissions, p.ID)
	}
	for _, p := range toCreate {
		p.ID = m.nextID
		m.nextID++
		m.permissions[p.ID] = p
	}
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var _ = Describe("Permission Service", func() {
	var (
		repo    *MockRepository
		service *permission.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = permission.NewService(repo, logger)
	})

	Describe("SyncWith", func() {
		canonical := map[string]permission.Definition{
			"edit_product":   {Description: "Edit a product"},
			"view_products":  {Description: "View product list", DefaultGranted: true},
			"delete_product": {Description: "Delete a product"},
		}

		It("should create every catalog entry on an empty store", func() {
			Expect(service.SyncWith(canonical)).To(Succeed())

			names, err := service.Names()
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(ConsistOf("edit_product", "view_products", "delete_product"))
		})

		It("should carry the catalog's default_granted flag", func() {
			Expect(service.SyncWith(canonical)).To(Succeed())

			p, err := service.GetByName("view_products")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.DefaultGranted).To(BeTrue())

			p, err = service.GetByName("edit_product")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.DefaultGranted).To(BeFalse())
		})

		It("should be a no-op when the store already matches", func() {
			Expect(service.SyncWith(canonical)).To(Succeed())

			before, err := service.GetAll()
			Expect(err).NotTo(HaveOccurred())

			Expect(service.SyncWith(canonical)).To(Succeed())

			after, err := service.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(ConsistOf(before))
		})

		It("should delete stored names missing from the catalog", func() {
			_, err := service.Create(permission.CreatePermissionDTO{Name: "stale_permission"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.SyncWith(canonical)).To(Succeed())

			p, err := service.GetByName("stale_permission")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})

		It("should leave existing rows untouched", func() {
			Expect(service.SyncWith(canonical)).To(Succeed())

			p, err := service.GetByName("edit_product")
			Expect(err).NotTo(HaveOccurred())

			// the same name with a changed description is not rewritten
			changed := map[string]permission.Definition{
				"edit_product": {Description: "something else"},
			}
			Expect(service.SyncWith(changed)).To(Succeed())

			again, err := service.GetByName("edit_product")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ID).To(Equal(p.ID))
			Expect(again.Description).To(Equal("Edit a product"))
		})

		It("should propagate store failures", func() {
			repo.SetShouldFail(true, errors.New("database error"))
			err := service.SyncWith(canonical)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database error"))
		})
	})

	Describe("Sync", func() {
		It("should install the built-in catalog", func() {
			Expect(service.Sync()).To(Succeed())

			names, err := service.Names()
			Expect(err).NotTo(HaveOccurred())
			Expect(len(names)).To(Equal(len(permission.Catalog())))
			Expect(names).To(ContainElement("manage_user_permissions"))
		})
	})

	Describe("Create", func() {
		It("should create a permission", func() {
			p, err := service.Create(permission.CreatePermissionDTO{
				Name:        "publish_product",
				Description: "Publish a product listing",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).NotTo(BeZero())
			Expect(p.Name).To(Equal("publish_product"))
		})

		It("should reject a duplicate name", func() {
			_, err := service.Create(permission.CreatePermissionDTO{Name: "publish_product"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(permission.CreatePermissionDTO{Name: "publish_product"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicatePermission))
		})

		It("should reject a name that is not snake_case", func() {
			_, err := service.Create(permission.CreatePermissionDTO{Name: "Publish Product"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an empty name", func() {
			_, err := service.Create(permission.CreatePermissionDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		var existing *permission.Permission

		BeforeEach(func() {
			var err error
			existing, err = service.Create(permission.CreatePermissionDTO{
				Name:        "publish_product",
				Description: "Publish a product listing",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should apply partial updates", func() {
			p, err := service.Update(existing.ID, permission.UpdatePermissionDTO{
				Description:    strPtr("changed"),
				DefaultGranted: boolPtr(true),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("publish_product"))
			Expect(p.Description).To(Equal("changed"))
			Expect(p.DefaultGranted).To(BeTrue())
		})

		It("should allow renaming to an unused name", func() {
			p, err := service.Update(existing.ID, permission.UpdatePermissionDTO{
				Name: strPtr("unpublish_product"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("unpublish_product"))
		})

		It("should allow renaming to the current name", func() {
			_, err := service.Update(existing.ID, permission.UpdatePermissionDTO{
				Name: strPtr("publish_product"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject renaming onto another permission", func() {
			other, err := service.Create(permission.CreatePermissionDTO{Name: "unpublish_product"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(other.ID, permission.UpdatePermissionDTO{
				Name: strPtr("publish_product"),
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicatePermission))
		})

		It("should fail for a missing permission", func() {
			_, err := service.Update(12345, permission.UpdatePermissionDTO{
				Description: strPtr("changed"),
			})
			Expect(err).To(MatchError(internal.ErrPermissionNotFound))
		})
	})

	Describe("Delete", func() {
		It("should delete an existing permission", func() {
			p, err := service.Create(permission.CreatePermissionDTO{Name: "publish_product"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(p.ID)).To(Succeed())

			got, err := service.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should fail for a missing permission", func() {
			err := service.Delete(12345)
			Expect(err).To(MatchError(internal.ErrPermissionNotFound))
		})
	})

	Describe("GetByName", func() {
		It("should return nil without error for an unknown name", func() {
			p, err := service.GetByName("no_such_permission")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})
	})
})
