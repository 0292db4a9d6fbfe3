package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/auth"
	authPostgres "github.com/scime/ecommerce/internal/auth/postgres"
	"github.com/scime/ecommerce/internal/category"
	categoryPostgres "github.com/scime/ecommerce/internal/category/postgres"
	"github.com/scime/ecommerce/internal/core/events"
	"github.com/scime/ecommerce/internal/group"
	groupPostgres "github.com/scime/ecommerce/internal/group/postgres"
	"github.com/scime/ecommerce/internal/permission"
	permissionPostgres "github.com/scime/ecommerce/internal/permission/postgres"
	"github.com/scime/ecommerce/internal/product"
	productPostgres "github.com/scime/ecommerce/internal/product/postgres"
	"github.com/scime/ecommerce/internal/transport"
	"github.com/scime/ecommerce/internal/transport/middleware"
	"github.com/scime/ecommerce/internal/transport/rest"
	"github.com/scime/ecommerce/internal/transport/swagger"
	"github.com/scime/ecommerce/internal/user"
	userPostgres "github.com/scime/ecommerce/internal/user/postgres"
	"github.com/scime/ecommerce/internal/userpermission"
	userpermissionPostgres "github.com/scime/ecommerce/internal/userpermission/postgres"
	"github.com/scime/ecommerce/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	lg := deps.Logger

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec validation failed, swagger UI may be broken", "error", err)
	}

	eventBus := events.NewEventBus(lg)
	registerGrantAuditLog(eventBus, lg)

	baseHandler := transport.NewBaseHandler(lg)

	grantRepo := userpermissionPostgres.NewGrantRepository(deps.GormDB)
	permissionRepo := permissionPostgres.NewPermissionRepository(deps.GormDB)
	userRepo := userPostgres.NewUserRepository(deps.GormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(deps.GormDB)
	productRepo := productPostgres.NewProductRepository(deps.GormDB)
	groupRepo := groupPostgres.NewGroupRepository(deps.GormDB)
	authRepo := authPostgres.NewRepository(deps.GormDB)

	permissionService := permission.NewService(permissionRepo, lg)
	userService := user.NewService(userRepo, grantRepo, deps.Config.Security.BCryptCost, lg)
	grantService := userpermission.NewService(grantRepo, userService, permissionService, eventBus, lg)
	categoryService := category.NewService(categoryRepo, lg)
	productService := product.NewService(productRepo, categoryService, lg)
	groupService := group.NewService(groupRepo, userRepo, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, deps.Config.Security.BCryptCost)

	guard := middleware.NewPermissionGuard(grantService, permissionService, lg)

	handlers := rest.Handlers{
		Auth:           auth.NewHandler(authService),
		User:           user.NewHandler(baseHandler, userService),
		Permission:     permission.NewHandler(baseHandler, permissionService),
		UserPermission: userpermission.NewHandler(baseHandler, grantService),
		Category:       category.NewHandler(baseHandler, categoryService),
		Product:        product.NewHandler(baseHandler, productService),
		Group:          group.NewHandler(baseHandler, groupService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, guard, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
