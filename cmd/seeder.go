package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/category"
	categoryPostgres "github.com/scime/ecommerce/internal/category/postgres"
	"github.com/scime/ecommerce/internal/core/events"
	"github.com/scime/ecommerce/internal/permission"
	permissionPostgres "github.com/scime/ecommerce/internal/permission/postgres"
	"github.com/scime/ecommerce/internal/user"
	userPostgres "github.com/scime/ecommerce/internal/user/postgres"
	"github.com/scime/ecommerce/internal/userpermission"
	userpermissionPostgres "github.com/scime/ecommerce/internal/userpermission/postgres"
	"github.com/scime/ecommerce/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	superadminEmail    = "admin@store.local"
	superadminUsername = "superadmin"
	superadminPassword = "changeme-admin"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the permission catalog and a superadmin",
	Long:  `Reconcile the permission registry against the canonical catalog, create the superadmin user with global grants, and seed starter categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)
		lg := logger.LoggerWrapper()

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM user_permissions").Error; err != nil {
				log.Fatalf("failed to clear grants: %v", err)
			}
			fmt.Println("Cleared existing grants")
		}

		grantRepo := userpermissionPostgres.NewGrantRepository(db)
		permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(db), lg)
		userService := user.NewService(userPostgres.NewUserRepository(db), grantRepo, cfg.Security.BCryptCost, lg)
		grantService := userpermission.NewService(grantRepo, userService, permissionService, events.NewEventBus(lg), lg)
		categoryService := category.NewService(categoryPostgres.NewCategoryRepository(db), lg)

		// bring the registry in line with the canonical catalog
		if err := permissionService.Sync(); err != nil {
			log.Fatalf("failed to sync permission catalog: %v", err)
		}
		fmt.Println("Permission catalog synced")

		admin, err := userService.GetByEmail(superadminEmail)
		if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
			log.Fatalf("failed to look up superadmin: %v", err)
		}
		if admin == nil {
			admin, err = userService.Create(user.CreateUserDTO{
				Username: superadminUsername,
				Email:    superadminEmail,
				Name:     "Superadmin",
				Password: superadminPassword,
			})
			if err != nil {
				log.Fatalf("failed to create superadmin: %v", err)
			}
			fmt.Println("Seeded superadmin user:", superadminEmail)
		} else {
			fmt.Println("superadmin already exists; will ensure grants")
		}

		allPermissions, err := permissionService.GetAll()
		if err != nil {
			log.Fatalf("failed to list permissions: %v", err)
		}

		existingNames, err := grantService.PermissionNamesForUser(admin.ID)
		if err != nil {
			log.Fatalf("failed to list superadmin grants: %v", err)
		}
		held := make(map[string]bool, len(existingNames))
		for _, name := range existingNames {
			held[name] = true
		}

		var missing []*permission.Permission
		for _, p := range allPermissions {
			if !held[p.Name] {
				missing = append(missing, p)
			}
		}

		if len(missing) > 0 {
			if _, err := grantService.SetInitial(admin, missing); err != nil {
				log.Fatalf("failed to grant permissions to superadmin: %v", err)
			}
		}
		fmt.Printf("Superadmin holds all %d permissions\n", len(allPermissions))

		seedCategories(categoryService)

		fmt.Println("Seeding complete")
	},
}

func seedCategories(svc *category.Service) {
	starter := []category.CreateCategoryDTO{
		{Name: "electronics", Description: "phones, laptops and accessories"},
		{Name: "clothing", Description: "apparel and footwear"},
		{Name: "home", Description: "furniture and household goods"},
		{Name: "books", Description: "print and digital books"},
	}

	for _, dto := range starter {
		if _, err := svc.Create(dto); err != nil {
			// already seeded on a previous run
			continue
		}
		fmt.Printf("Seeded category: %s\n", dto.Name)
	}
}
