package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/scime/ecommerce/internal/auth"
	"github.com/scime/ecommerce/internal/permission"
	"github.com/scime/ecommerce/internal/userpermission"
)

// EvaluatorAPI decides whether a user holds a permission, optionally scoped
// to a target object.
type EvaluatorAPI interface {
	Evaluate(userID int64, permissionName string, targetID *int64) (userpermission.Decision, error)
}

// CatalogAPI resolves registered permissions so indeterminate checks can
// fall back to the permission's default.
type CatalogAPI interface {
	GetByName(name string) (*permission.Permission, error)
}

type PermissionGuard struct {
	evaluator EvaluatorAPI
	catalog   CatalogAPI
	logger    *slog.Logger
}

func NewPermissionGuard(evaluator EvaluatorAPI, catalog CatalogAPI, logger *slog.Logger) *PermissionGuard {
	return &PermissionGuard{
		evaluator: evaluator,
		catalog:   catalog,
		logger:    logger,
	}
}

// Require guards a route with a global permission check. An explicit deny
// always wins; when no grant applies the permission's default decides.
func (g *PermissionGuard) Require(permissionName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			targetID := targetFromQuery(r)

			decision, err := g.evaluator.Evaluate(user.ID, permissionName, targetID)
			if err != nil {
				g.logger.ErrorContext(r.Context(), "permission check failed",
					"error", err, "user_id", user.ID, "permission", permissionName)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			switch decision {
			case userpermission.Allow:
				next.ServeHTTP(w, r)
			case userpermission.Deny:
				g.logger.WarnContext(r.Context(), "access denied: permission explicitly denied",
					"user_id", user.ID, "permission", permissionName)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			default:
				if g.defaultGranted(permissionName) {
					next.ServeHTTP(w, r)
					return
				}
				g.logger.WarnContext(r.Context(), "access denied: no applicable grant",
					"user_id", user.ID, "permission", permissionName)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			}
		})
	}
}

// RequireAny passes when any one of the named permissions resolves to Allow,
// or when none resolves and at least one is granted by default.
func (g *PermissionGuard) RequireAny(permissionNames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			anyDefault := false
			for _, name := range permissionNames {
				decision, err := g.evaluator.Evaluate(user.ID, name, nil)
				if err != nil {
					g.logger.ErrorContext(r.Context(), "permission check failed",
						"error", err, "user_id", user.ID, "permission", name)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				switch decision {
				case userpermission.Allow:
					next.ServeHTTP(w, r)
					return
				case userpermission.Indeterminate:
					if g.defaultGranted(name) {
						anyDefault = true
					}
				}
			}

			if anyDefault {
				next.ServeHTTP(w, r)
				return
			}

			g.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", user.ID, "required_any", permissionNames)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}

func (g *PermissionGuard) defaultGranted(permissionName string) bool {
	p, err := g.catalog.GetByName(permissionName)
	if err != nil || p == nil {
		return false
	}
	return p.DefaultGranted
}

func targetFromQuery(r *http.Request) *int64 {
	raw := r.URL.Query().Get("target")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
