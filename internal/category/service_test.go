package category_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/category"
	categoryDatamodel "github.com/scime/ecommerce/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

type MockRepository struct {
	categories map[int64]*categoryDatamodel.Category
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[int64]*categoryDatamodel.Category),
		nextID:     1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) GetAll() ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*categoryDatamodel.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id int64) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.categories[id], nil
}

func (m *MockRepository) GetByName(name string) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(c *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	c.ID = m.nextID
	m.nextID++
	m.categories[c.ID] = c
	return nil
}

func (m *MockRepository) Update(c *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	if c, ok := m.categories[id]; ok {
		c.IsActive = false
	}
	return nil
}

func strPtr(s string) *string { return &s }

var _ = Describe("Category Service", func() {
	var (
		repo    *MockRepository
		service *category.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(repo, logger)
	})

	Describe("Create", func() {
		It("should create an active category", func() {
			c, err := service.Create(category.CreateCategoryDTO{
				Name:        "electronics",
				Description: "Gadgets and devices",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).NotTo(BeZero())
			Expect(c.IsActiveCategory()).To(BeTrue())
		})

		It("should reject a duplicate name", func() {
			_, err := service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateCategory))
		})

		It("should reject an empty name", func() {
			_, err := service.Create(category.CreateCategoryDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetAllCategories", func() {
		It("should return only active categories", func() {
			c1, err := service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(category.CreateCategoryDTO{Name: "clothing"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(c1.ID)).To(Succeed())

			responses, err := service.GetAllCategories()
			Expect(err).NotTo(HaveOccurred())
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Name).To(Equal("clothing"))
		})

		It("should propagate store failures", func() {
			repo.SetShouldFail(true, errors.New("database error"))
			_, err := service.GetAllCategories()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should apply partial updates", func() {
			c, err := service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).NotTo(HaveOccurred())

			got, err := service.Update(c.ID, category.UpdateCategoryDTO{
				Description: strPtr("Gadgets"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("electronics"))
			Expect(got.Description).To(Equal("Gadgets"))
		})

		It("should fail for a missing category", func() {
			_, err := service.Update(12345, category.UpdateCategoryDTO{Name: strPtr("renamed")})
			Expect(err).To(MatchError(internal.ErrCategoryNotFound))
		})
	})

	Describe("Delete", func() {
		It("should deactivate instead of removing", func() {
			c, err := service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(c.ID)).To(Succeed())

			got, err := service.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsActiveCategory()).To(BeFalse())
		})

		It("should fail for a missing category", func() {
			Expect(service.Delete(12345)).To(MatchError(internal.ErrCategoryNotFound))
		})
	})

	Describe("IsValidCategory", func() {
		It("should be true only for an existing active category", func() {
			c, err := service.Create(category.CreateCategoryDTO{Name: "electronics"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.IsValidCategory(c.ID)).To(BeTrue())
			Expect(service.IsValidCategory(12345)).To(BeFalse())

			Expect(service.Delete(c.ID)).To(Succeed())
			Expect(service.IsValidCategory(c.ID)).To(BeFalse())
		})
	})
})
