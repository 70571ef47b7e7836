package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursedesk/internal/app/controllers"
	appMigrations "github.com/yigit/coursedesk/internal/app/migrations"
	appRepos "github.com/yigit/coursedesk/internal/app/repositories"
	"github.com/yigit/coursedesk/internal/app/repositories/mongostore"
	"github.com/yigit/coursedesk/internal/app/repositories/sqlitestore"
	appRoutes "github.com/yigit/coursedesk/internal/app/routes"
	appServices "github.com/yigit/coursedesk/internal/app/services"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	appMiddleware "github.com/yigit/coursedesk/internal/middleware"
	pkgAuth "github.com/yigit/coursedesk/internal/pkg/auth"
	"github.com/yigit/coursedesk/internal/pkg/groupprovider"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/seed"
)

// configPathEnv overrides the default config file location
const configPathEnv = "CONFIG_PATH"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	CourseController  *appControllers.CourseController
	StudentController *appControllers.StudentController
	GroupController   *appControllers.GroupController
	HealthController  *appControllers.HealthController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	LoginLimiter      *appMiddleware.RateLimiter
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Provider          *groupprovider.Client
	Logger            zerolog.Logger
}

// Close releases resources owned by the dependencies (not the database)
func (d *Dependencies) Close() {
	if d.Services != nil && d.Services.GroupService != nil {
		d.Services.GroupService.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects the configured entity store, prepares its schema and
// returns the matching repository set.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (db.Database, *appRepos.Repositories, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database).Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		return database, appRepos.NewRepositories(database.Pool), nil

	case config.DriverMongo:
		database, err := db.NewMongoDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to mongo")
			return nil, nil, err
		}

		if err := mongostore.EnsureIndexes(ctx, database.Database); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}

		return database, mongostore.NewRepositories(database.Database), nil

	case config.DriverSQLite:
		database, err := db.NewSQLiteDBFromConfig(cfg)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Database.SQLitePath).Msg("Failed to open sqlite store")
			return nil, nil, err
		}

		return database, sqlitestore.NewRepositories(database.DB), nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// BuildDependencies initializes services, controllers and middleware over a
// repository set, and seeds the admin account.
func BuildDependencies(ctx context.Context, cfg *config.Config, database db.Database, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	if err := seed.CreateDefaultData(ctx, repos.UserRepository, cfg, lgr); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Provider = groupprovider.NewClient(groupprovider.Config{
		BaseURL: cfg.Provider.BaseURL,
		Session: cfg.Provider.Session,
		APIKey:  cfg.Provider.APIKey,
		Timeout: helpers.ParseDuration(cfg.Provider.Timeout, 0),
	}, nil)

	services, err := appServices.NewServices(
		repos,
		deps.Provider,
		deps.JWTService,
		helpers.ParseDuration(cfg.Provider.GroupsCacheTTL, time.Minute),
		lgr,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	deps.Services = services

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.LoginLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)

	deps.AuthController = appControllers.NewAuthController(services.AuthService, lgr)
	deps.CourseController = appControllers.NewCourseController(services.CourseService)
	deps.StudentController = appControllers.NewStudentController(services.StudentService)
	deps.GroupController = appControllers.NewGroupController(services.GroupService)
	deps.HealthController = appControllers.NewHealthController(database, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.StudentController,
		deps.GroupController,
		deps.HealthController,
		deps.AuthMiddleware,
		deps.LoginLimiter,
	)

	return router
}
