package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/scime/ecommerce/internal/auth"
	"github.com/scime/ecommerce/internal/category"
	"github.com/scime/ecommerce/internal/group"
	"github.com/scime/ecommerce/internal/permission"
	"github.com/scime/ecommerce/internal/product"
	"github.com/scime/ecommerce/internal/transport/middleware"
	"github.com/scime/ecommerce/internal/transport/swagger"
	"github.com/scime/ecommerce/internal/user"
	"github.com/scime/ecommerce/internal/userpermission"
)

type Handlers struct {
	Auth           *auth.Handler
	User           *user.Handler
	Permission     *permission.Handler
	UserPermission *userpermission.Handler
	Category       *category.Handler
	Product        *product.Handler
	Group          *group.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, guard *middleware.PermissionGuard, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Catalog browsing stays public; the matching permissions are
		// granted by default anyway.
		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
			r.Get("/categories/{id}", h.Category.GetCategory)
		}
		if h.Product != nil {
			r.Get("/products", h.Product.ListProducts)
			r.Get("/products/{id}", h.Product.GetProduct)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)

				pr.Route("/users", func(ur chi.Router) {
					ur.With(guard.Require("view_users")).Get("/", h.User.ListUsers)
					ur.With(guard.Require("view_user_details")).Get("/{id}", h.User.GetUser)
					ur.With(guard.Require("create_user")).Post("/", h.User.CreateUser)
					ur.With(guard.Require("edit_user")).Patch("/{id}", h.User.UpdateUser)
					ur.With(guard.Require("activate_deactivate_user")).Patch("/{id}/activate", h.User.ActivateUser)
					ur.With(guard.Require("activate_deactivate_user")).Patch("/{id}/deactivate", h.User.DeactivateUser)

					if h.UserPermission != nil {
						ur.Route("/{id}/permissions", func(gr chi.Router) {
							gr.With(guard.Require("manage_user_permissions")).Post("/", h.UserPermission.AssignPermissions)
							gr.With(guard.Require("manage_user_permissions")).Patch("/", h.UserPermission.UpdatePermissions)
							gr.With(guard.Require("manage_user_permissions")).Delete("/", h.UserPermission.RevokePermissions)
							gr.With(guard.Require("manage_user_permissions")).Get("/", h.UserPermission.ListGrants)
							gr.With(guard.Require("manage_user_permissions")).Get("/names", h.UserPermission.ListPermissionNames)
							gr.Get("/{permission}/check", h.UserPermission.CheckPermission)
						})
					}
				})
			}

			if h.Permission != nil {
				pr.Route("/permissions", func(sr chi.Router) {
					sr.With(guard.Require("view_permissions")).Get("/", h.Permission.ListPermissions)
					sr.With(guard.Require("view_permissions")).Get("/names", h.Permission.ListPermissionNames)
					sr.With(guard.Require("view_permissions")).Get("/{id}", h.Permission.GetPermission)
					sr.With(guard.Require("create_permission")).Post("/", h.Permission.CreatePermission)
					sr.With(guard.Require("edit_permission")).Patch("/{id}", h.Permission.UpdatePermission)
					sr.With(guard.Require("delete_permission")).Delete("/{id}", h.Permission.DeletePermission)
					sr.With(guard.RequireAny("manage_system_settings", "access_admin_dashboard")).Post("/sync", h.Permission.SyncPermissions)
				})
			}

			if h.Category != nil {
				pr.Route("/categories", func(sr chi.Router) {
					sr.With(guard.Require("create_category")).Post("/", h.Category.CreateCategory)
					sr.With(guard.Require("edit_category")).Patch("/{id}", h.Category.UpdateCategory)
					sr.With(guard.Require("delete_category")).Delete("/{id}", h.Category.DeleteCategory)
				})
			}

			if h.Product != nil {
				pr.Route("/products", func(sr chi.Router) {
					sr.With(guard.Require("create_product")).Post("/", h.Product.CreateProduct)
					sr.With(guard.Require("edit_product")).Patch("/{id}", h.Product.UpdateProduct)
					sr.With(guard.Require("delete_product")).Delete("/{id}", h.Product.DeleteProduct)
				})
			}

			if h.Group != nil {
				pr.Route("/groups", func(sr chi.Router) {
					sr.With(guard.Require("view_groups")).Get("/", h.Group.GetGroups)
					sr.With(guard.Require("view_group_details")).Get("/{id}", h.Group.GetGroup)
					sr.With(guard.Require("create_group")).Post("/", h.Group.CreateGroup)
					sr.With(guard.Require("edit_group")).Patch("/{id}", h.Group.UpdateGroup)
					sr.With(guard.Require("delete_group")).Delete("/{id}", h.Group.DeleteGroup)
					sr.With(guard.Require("manage_group_members")).Get("/{id}/members", h.Group.GetMembers)
					sr.With(guard.Require("manage_group_members")).Post("/{id}/members", h.Group.AddMember)
					sr.With(guard.Require("manage_group_members")).Delete("/{id}/members/{userID}", h.Group.RemoveMember)
				})
			}
		})
	})
}
