package middleware_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/scime/ecommerce/internal/auth"
	"github.com/scime/ecommerce/internal/permission"
	"github.com/scime/ecommerce/internal/transport/middleware"
	"github.com/scime/ecommerce/internal/userpermission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPermissionGuard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Guard Suite")
}

type decisionKey struct {
	userID int64
	name   string
}

type MockEvaluator struct {
	decisions   map[decisionKey]userpermission.Decision
	lastTarget  *int64
	shouldFail  bool
	failError   error
}

func NewMockEvaluator() *MockEvaluator {
	return &MockEvaluator{decisions: make(map[decisionKey]userpermission.Decision)}
}

func (m *MockEvaluator) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockEvaluator) SetDecision(userID int64, name string, d userpermission.Decision) {
	m.decisions[decisionKey{userID, name}] = d
}

func (m *MockEvaluator) Evaluate(userID int64, permissionName string, targetID *int64) (userpermission.Decision, error) {
	if m.shouldFail {
		return userpermission.Indeterminate, m.failError
	}
	m.lastTarget = targetID
	return m.decisions[decisionKey{userID, permissionName}], nil
}

type MockCatalog struct {
	permissions map[string]*permission.Permission
}

func (m *MockCatalog) GetByName(name string) (*permission.Permission, error) {
	return m.permissions[name], nil
}

var _ = Describe("Permission Guard", func() {
	var (
		evaluator *MockEvaluator
		catalog   *MockCatalog
		guard     *middleware.PermissionGuard
		principal *auth.User
	)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(handler http.Handler, target string, withUser bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if withUser {
			req = req.WithContext(auth.ContextWithUser(req.Context(), principal))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		evaluator = NewMockEvaluator()
		catalog = &MockCatalog{permissions: map[string]*permission.Permission{
			"view_products": {ID: 1, Name: "view_products", DefaultGranted: true},
			"edit_product":  {ID: 2, Name: "edit_product"},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard = middleware.NewPermissionGuard(evaluator, catalog, logger)
		principal = &auth.User{ID: 7, Email: "buyer@example.com"}
	})

	Describe("Require", func() {
		It("should pass on an allow decision", func() {
			evaluator.SetDecision(7, "edit_product", userpermission.Allow)
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1", true)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should forbid on an explicit deny", func() {
			evaluator.SetDecision(7, "edit_product", userpermission.Deny)
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1", true)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should deny an indeterminate check by default", func() {
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1", true)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should grant an indeterminate check when the permission defaults open", func() {
			rec := serve(guard.Require("view_products")(okHandler), "/products", true)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should deny an explicit deny even when the permission defaults open", func() {
			evaluator.SetDecision(7, "view_products", userpermission.Deny)
			rec := serve(guard.Require("view_products")(okHandler), "/products", true)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should reject a request without a principal", func() {
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1", false)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should scope the check to the target query parameter", func() {
			evaluator.SetDecision(7, "edit_product", userpermission.Allow)
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1?target=42", true)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(evaluator.lastTarget).NotTo(BeNil())
			Expect(*evaluator.lastTarget).To(Equal(int64(42)))
		})

		It("should fail closed on evaluator errors", func() {
			evaluator.SetShouldFail(true, errors.New("database error"))
			rec := serve(guard.Require("edit_product")(okHandler), "/products/1", true)
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("RequireAny", func() {
		It("should pass when any permission allows", func() {
			evaluator.SetDecision(7, "edit_product", userpermission.Allow)
			rec := serve(guard.RequireAny("delete_product", "edit_product")(okHandler), "/admin", true)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should forbid when all checks come back empty", func() {
			rec := serve(guard.RequireAny("delete_product", "edit_product")(okHandler), "/admin", true)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should fall back to a default-granted permission", func() {
			rec := serve(guard.RequireAny("edit_product", "view_products")(okHandler), "/admin", true)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
