package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jhonnyduque/designfolio/docs" // Import generated swagger docs
	appControllers "github.com/jhonnyduque/designfolio/internal/app/controllers"
	appMigrations "github.com/jhonnyduque/designfolio/internal/app/migrations"
	appRepos "github.com/jhonnyduque/designfolio/internal/app/repositories"
	appRoutes "github.com/jhonnyduque/designfolio/internal/app/routes"
	appServices "github.com/jhonnyduque/designfolio/internal/app/services"
	"github.com/jhonnyduque/designfolio/internal/config"
	"github.com/jhonnyduque/designfolio/internal/db"
	appMiddleware "github.com/jhonnyduque/designfolio/internal/middleware"
	pkgAuth "github.com/jhonnyduque/designfolio/internal/pkg/auth"
	"github.com/jhonnyduque/designfolio/internal/pkg/helpers"
	"github.com/jhonnyduque/designfolio/internal/pkg/logger"
	"github.com/jhonnyduque/designfolio/internal/pkg/oauth"
	"github.com/jhonnyduque/designfolio/internal/pkg/storage"
	"github.com/jhonnyduque/designfolio/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	JWTService *pkgAuth.JWTService
	Storage    storage.Storage
	Google     *oauth.GoogleAuthenticator

	Presenter           *appServices.Presenter
	InviteService       *appServices.InviteService
	AuthService         *appServices.AuthService
	ProfileService      *appServices.ProfileService
	WorkService         *appServices.WorkService
	FeedService         *appServices.FeedService
	CommentService      *appServices.CommentService
	LikeService         *appServices.LikeService
	ModerationService   *appServices.ModerationService
	NotificationService *appServices.NotificationService

	AuthController         *appControllers.AuthController
	InviteController       *appControllers.InviteController
	ProfileController      *appControllers.ProfileController
	WorkController         *appControllers.WorkController
	FeedController         *appControllers.FeedController
	CommentController      *appControllers.CommentController
	ModerationController   *appControllers.ModerationController
	NotificationController *appControllers.NotificationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed the founder account and initial invites (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Storage = storage.NewS3Storage(storage.S3Config{
		Region:         cfg.Storage.Region,
		Endpoint:       cfg.Storage.Endpoint,
		PublicEndpoint: cfg.Storage.PublicEndpoint,
		AccessKey:      cfg.Storage.AccessKey,
		SecretKey:      cfg.Storage.SecretKey,
		SSLDisabled:    cfg.Storage.SSLDisabled,
	})

	// Google sign-in is optional; without credentials the endpoints
	// simply report it as unavailable.
	var google appServices.GoogleExchanger
	if cfg.OAuth.GoogleClientID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		authenticator, err := oauth.NewGoogleAuthenticator(ctx, oauth.GoogleConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		})
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize Google OAuth")
			return nil, fmt.Errorf("failed to initialize Google OAuth: %w", err)
		}
		deps.Google = authenticator
		google = authenticator
	} else {
		lgr.Warn().Msg("Google OAuth not configured, sign-in with Google disabled")
	}

	runTx := func(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
		return db.WithTransaction(ctx, dbPool, fn)
	}

	deps.Presenter = appServices.NewPresenter(deps.Repos.ProfileRepository, deps.Repos.LikeRepository, lgr)
	deps.InviteService = appServices.NewInviteService(deps.Repos.InviteRepository, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ProfileRepository,
		deps.Repos.TokenRepository,
		deps.Repos.PasswordResetRepository,
		deps.InviteService,
		deps.JWTService,
		google,
		lgr,
	)

	deps.ProfileService = appServices.NewProfileService(
		deps.Repos.ProfileRepository,
		deps.Storage,
		cfg.Storage.AvatarsBucket,
		lgr,
	)

	deps.WorkService = appServices.NewWorkService(
		deps.Repos.WorkRepository,
		deps.Repos.ProfileRepository,
		deps.Storage,
		cfg.Storage.WorksBucket,
		lgr,
	)

	deps.FeedService = appServices.NewFeedService(deps.Repos.FeedRepository, deps.Presenter, lgr)

	deps.CommentService = appServices.NewCommentService(
		deps.Repos.CommentRepository,
		deps.Repos.WorkRepository,
		deps.Repos.NotificationRepository,
		runTx,
		lgr,
	)

	deps.LikeService = appServices.NewLikeService(
		deps.Repos.LikeRepository,
		deps.Repos.WorkRepository,
		deps.Repos.NotificationRepository,
		runTx,
		lgr,
	)

	deps.ModerationService = appServices.NewModerationService(
		deps.Repos.ModerationRepository,
		deps.Repos.WorkRepository,
		deps.Repos.NotificationRepository,
		runTx,
		lgr,
	)

	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.ProfileRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.InviteController = appControllers.NewInviteController(deps.InviteService, lgr)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService, deps.WorkService, deps.Presenter, lgr)
	deps.WorkController = appControllers.NewWorkController(deps.WorkService, deps.LikeService, deps.Presenter, lgr)
	deps.FeedController = appControllers.NewFeedController(deps.FeedService, lgr)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, deps.Presenter, lgr)
	deps.ModerationController = appControllers.NewModerationController(deps.ModerationService, deps.Presenter, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.InviteController,
		deps.ProfileController,
		deps.WorkController,
		deps.FeedController,
		deps.CommentController,
		deps.ModerationController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
