package postgres_test

import (
	"testing"

	permissionDatamodel "github.com/scime/ecommerce/internal/core/datamodel/permission"
	"github.com/scime/ecommerce/internal/userpermission"
	"github.com/scime/ecommerce/internal/userpermission/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGrantRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grant Repository Suite")
}

func int64Ptr(v int64) *int64 { return &v }

var _ = Describe("Grant Repository", func() {
	var (
		db   *gorm.DB
		repo userpermission.RepositoryAPI

		editProduct   *permissionDatamodel.Permission
		deleteProduct *permissionDatamodel.Permission
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&permissionDatamodel.Permission{}, &permissionDatamodel.UserPermission{})
		Expect(err).NotTo(HaveOccurred())

		editProduct = &permissionDatamodel.Permission{Name: "edit_product"}
		deleteProduct = &permissionDatamodel.Permission{Name: "delete_product"}
		Expect(db.Create(editProduct).Error).To(Succeed())
		Expect(db.Create(deleteProduct).Error).To(Succeed())

		repo = postgres.NewGrantRepository(db)
	})

	Describe("InsertMany", func() {
		It("should insert a batch and assign ids", func() {
			grants := []*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
				{UserID: 1, PermissionID: deleteProduct.ID, IsActive: true, TargetID: int64Ptr(42)},
			}
			Expect(repo.InsertMany(grants)).To(Succeed())
			Expect(grants[0].ID).NotTo(BeZero())
			Expect(grants[1].ID).NotTo(BeZero())
		})

		It("should accept an empty batch", func() {
			Expect(repo.InsertMany(nil)).To(Succeed())
		})

		It("should reject a duplicate scope", func() {
			first := []*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(42)},
			}
			Expect(repo.InsertMany(first)).To(Succeed())

			dup := []*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(42)},
			}
			Expect(repo.InsertMany(dup)).NotTo(Succeed())
		})
	})

	Describe("FindByUser", func() {
		It("should return the user's grants in creation order", func() {
			Expect(repo.InsertMany([]*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
			})).To(Succeed())
			Expect(repo.InsertMany([]*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: deleteProduct.ID, IsActive: true, TargetID: int64Ptr(5)},
				{UserID: 2, PermissionID: editProduct.ID, IsActive: true},
			})).To(Succeed())

			grants, err := repo.FindByUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(2))
			Expect(grants[0].PermissionID).To(Equal(editProduct.ID))
			Expect(grants[1].PermissionID).To(Equal(deleteProduct.ID))
		})

		It("should return an empty slice for a user with no grants", func() {
			grants, err := repo.FindByUser(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(BeEmpty())
		})
	})

	Describe("FindByUserAndPermission", func() {
		It("should return the earliest matching grant", func() {
			Expect(repo.InsertMany([]*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(1)},
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(2)},
			})).To(Succeed())

			grant, err := repo.FindByUserAndPermission(1, editProduct.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grant).NotTo(BeNil())
			Expect(grant.TargetID).To(Equal(int64Ptr(1)))
		})

		It("should return nil without error when no grant exists", func() {
			grant, err := repo.FindByUserAndPermission(1, editProduct.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grant).To(BeNil())
		})
	})

	Describe("FindByUserAndPermissionName", func() {
		It("should join on the permission name and keep creation order", func() {
			Expect(repo.InsertMany([]*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(7)},
				{UserID: 1, PermissionID: deleteProduct.ID, IsActive: true},
			})).To(Succeed())

			grants, err := repo.FindByUserAndPermissionName(1, "edit_product")
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(2))
			Expect(grants[0].TargetID).To(BeNil())
			Expect(grants[1].TargetID).To(Equal(int64Ptr(7)))
		})

		It("should return nothing for an unknown name", func() {
			grants, err := repo.FindByUserAndPermissionName(1, "no_such_permission")
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(BeEmpty())
		})
	})

	Describe("UpdateOne", func() {
		It("should persist flag and target changes", func() {
			grants := []*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
			}
			Expect(repo.InsertMany(grants)).To(Succeed())

			grants[0].IsDenied = true
			grants[0].TargetID = int64Ptr(9)
			Expect(repo.UpdateOne(grants[0])).To(Succeed())

			got, err := repo.FindByUserAndPermission(1, editProduct.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsDenied).To(BeTrue())
			Expect(got.TargetID).To(Equal(int64Ptr(9)))
		})
	})

	Describe("DeleteMany", func() {
		It("should delete only the given grants", func() {
			grants := []*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
				{UserID: 1, PermissionID: deleteProduct.ID, IsActive: true},
			}
			Expect(repo.InsertMany(grants)).To(Succeed())

			Expect(repo.DeleteMany(grants[:1])).To(Succeed())

			remaining, err := repo.FindByUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].PermissionID).To(Equal(deleteProduct.ID))
		})

		It("should accept an empty batch", func() {
			Expect(repo.DeleteMany(nil)).To(Succeed())
		})
	})

	Describe("PermissionNamesByUser", func() {
		It("should return distinct names", func() {
			Expect(repo.InsertMany([]*permissionDatamodel.UserPermission{
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true},
				{UserID: 1, PermissionID: editProduct.ID, IsActive: true, TargetID: int64Ptr(3)},
				{UserID: 1, PermissionID: deleteProduct.ID, IsActive: true},
			})).To(Succeed())

			names, err := repo.PermissionNamesByUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"delete_product", "edit_product"}))
		})

		It("should return nothing for a user with no grants", func() {
			names, err := repo.PermissionNamesByUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})
	})
})
