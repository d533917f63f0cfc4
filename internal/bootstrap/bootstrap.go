package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/alumnihub/internal/app/auth"
	appControllers "github.com/yigit/alumnihub/internal/app/controllers"
	appMigrations "github.com/yigit/alumnihub/internal/app/migrations"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	appRepos "github.com/yigit/alumnihub/internal/app/repositories"
	appRoutes "github.com/yigit/alumnihub/internal/app/routes"
	appServices "github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/db"
	appMiddleware "github.com/yigit/alumnihub/internal/middleware"
	pkgAuth "github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
	"github.com/yigit/alumnihub/internal/seed"
	"github.com/yigit/alumnihub/internal/web"
)

const (
	maxResumeSize      = 16 << 20
	maxMultipartMemory = 8 << 20
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB             *db.DB
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Mailer         *email.EmailServiceImpl
	FileStorage    *filestorage.LocalStorage
	Hub            *websocket.Hub
	Services       *appServices.Services
	AuthzService   *appAuth.AuthorizationService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	WSHandler      *websocket.Handler
	Web            *web.Handler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Str("mode", cfg.Server.Mode).Msg("Logger configured")
	if cfg.Auth.GeneratedSecret {
		lgr.Warn().Msg("SECRET_KEY is not set; using a random key, sessions will not survive a restart")
	}
	return cfg, lgr, nil
}

// OpenDatabase establishes the database connection.
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.DB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Str("dialect", string(database.Dialect)).Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the embedded migrations that have not run yet.
func RunMigrations(ctx context.Context, database *db.DB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database).Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Strs("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SeedAdmin creates the configured default admin account when it is missing.
func SeedAdmin(ctx context.Context, cfg *config.Config, database *db.DB, lgr zerolog.Logger) (bool, error) {
	return seed.EnsureAdmin(ctx, appRepos.NewUserRepository(database), seed.AdminAccount{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, lgr)
}

// SetupDatabase opens the database, migrates it and seeds the default admin.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.DB, error) {
	database, err := OpenDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if _, err := SeedAdmin(ctx, cfg, database, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.DB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{DB: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath,
		filestorage.WithMaxSize(maxResumeSize),
		filestorage.WithAllowedExtensions(".pdf", ".doc", ".docx"),
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.Auth.SecretKey,
		AccessTokenExp:  helpers.ParseDuration(cfg.Auth.AccessTokenExpiration, 12*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.Auth.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.Auth.Issuer,
	})

	deps.Mailer = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)
	if !deps.Mailer.Configured() {
		lgr.Warn().Msg("SMTP is not configured; notification emails will be skipped")
	}

	deps.Hub = websocket.NewHub(lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:    deps.Repos,
		JWT:      deps.JWTService,
		Mailer:   deps.Mailer,
		Notifier: deps.Hub,
		Storage:  deps.FileStorage,
		Logger:   lgr,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository, deps.Repos.JobRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository, cfg.Auth.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.Services.Auth, lgr),
		User:     appControllers.NewUserController(deps.Services.User, lgr),
		Donation: appControllers.NewDonationController(deps.Services.Donation, lgr),
		Job:      appControllers.NewJobController(deps.Services.Job, lgr),
		Event:    appControllers.NewEventController(deps.Services.Event, lgr),
		Story:    appControllers.NewStoryController(deps.Services.Story, lgr),
		Admin:    appControllers.NewAdminController(deps.Services.Admin, lgr),
	}

	deps.Web, err = web.New(web.Options{
		Services:     deps.Services,
		Authz:        deps.AuthzService,
		AuthMW:       deps.AuthMiddleware,
		Storage:      deps.FileStorage,
		SessionTTL:   deps.JWTService.AccessTokenTTL(),
		CookieSecure: cfg.Auth.CookieSecure,
		Logger:       lgr,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to parse page templates")
		return nil, fmt.Errorf("failed to initialize web pages: %w", err)
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.SecurityHeaders())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.WSHandler, func(c *gin.Context) error {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		return deps.DB.PingContext(ctx)
	})

	deps.Web.Register(router)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
			return
		}
		deps.Web.NotFound(c)
	})

	return router
}
