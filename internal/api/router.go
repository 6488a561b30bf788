package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightfold/portal-api/internal/api/handler"
	"github.com/brightfold/portal-api/internal/api/middleware"
	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
	"github.com/brightfold/portal-api/internal/core/service"
	mongostore "github.com/brightfold/portal-api/internal/infrastructure/db/mongo"
	redisstore "github.com/brightfold/portal-api/internal/infrastructure/db/redis"
)

// Config carries the settings the router needs beyond its collaborators.
type Config struct {
	AdminPassphrase string
	JWTSecret       string
	SessionTTL      time.Duration
	AssetDir        string
	AssetBaseURL    string
}

// NewRouter builds the Echo instance with every route subtree mounted
// behind its guard.
func NewRouter(db *mongo.Database, rdb *redis.Client, feed ports.ChangeFeed, notifier ports.Notifier, objects ports.ObjectStorage, cfg Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Repositories ---
	clientRepo := mongostore.NewClientRepository(db)
	projectRepo := mongostore.NewProjectRepository(db)
	updateRepo := mongostore.NewUpdateRepository(db)
	assetRepo := mongostore.NewAssetRepository(db)
	accountRepo := mongostore.NewAccountRepository(db)
	profileRepo := mongostore.NewProfileRepository(db)
	roleRepo := mongostore.NewRoleRepository(db)
	sessions := redisstore.NewSessionStore(rdb)

	// --- Identity providers ---
	adminAuth := service.NewAdminAuth(cfg.AdminPassphrase, sessions, cfg.SessionTTL, log)
	clientAuth := service.NewClientAuth(clientRepo, sessions, cfg.SessionTTL, log)
	devAuth := service.NewDeveloperAuth(accountRepo, profileRepo, roleRepo, cfg.JWTSecret, cfg.SessionTTL, log)

	// --- Services ---
	clientSvc := service.NewClientService(clientRepo, log)
	projectSvc := service.NewProjectService(projectRepo, feed, notifier, log)
	updateSvc := service.NewUpdateService(updateRepo, projectRepo, feed, notifier, log)
	assetSvc := service.NewAssetService(assetRepo, projectRepo, objects, log)

	// --- Handlers ---
	adminAuthHandler := handler.NewAdminAuthHandler(adminAuth)
	clientAuthHandler := handler.NewClientAuthHandler(clientAuth)
	devAuthHandler := handler.NewDeveloperAuthHandler(devAuth)
	clientHandler := handler.NewClientHandler(clientSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	updateHandler := handler.NewUpdateHandler(updateSvc)
	assetHandler := handler.NewAssetHandler(assetSvc)
	streamHandler := handler.NewStreamHandler(feed, updateRepo, log)

	// --- Guards, evaluated on every request into their subtree ---
	adminGuard := middleware.Guard(adminAuth, domain.ActorAdmin, "admin", middleware.AdminLoginPath)
	clientGuard := middleware.Guard(clientAuth, domain.ActorClient, "client", middleware.ClientLoginPath)
	devGuard := middleware.Guard(devAuth, domain.ActorDeveloper, "developer", middleware.DeveloperLoginPath)
	proGuard := middleware.ProGuard(clientAuth)

	// --- Auth surfaces (unguarded) ---
	e.POST("/admin/login", adminAuthHandler.Login)
	e.POST("/client/login", clientAuthHandler.Login)
	e.POST("/dev/signup", devAuthHandler.SignUp)
	e.POST("/dev/login", devAuthHandler.SignIn)

	// --- Admin subtree ---
	admin := e.Group("/admin", adminGuard)
	admin.POST("/logout", adminAuthHandler.Logout)
	admin.GET("/clients", clientHandler.List)
	admin.POST("/clients", clientHandler.Create)
	admin.PATCH("/clients/:id", clientHandler.Update)
	admin.DELETE("/clients/:id", clientHandler.Delete)
	admin.GET("/projects", projectHandler.List)
	admin.GET("/projects/:id", projectHandler.Get)
	admin.POST("/projects", projectHandler.Create)
	admin.PATCH("/projects/:id", projectHandler.Update)
	admin.DELETE("/projects/:id", projectHandler.Delete)
	admin.GET("/projects/:id/updates", updateHandler.ListByProject)
	admin.POST("/projects/:id/updates", updateHandler.Post)
	admin.DELETE("/updates/:id", updateHandler.Delete)
	admin.POST("/projects/:id/assets", assetHandler.Upload)
	admin.DELETE("/assets/:id", assetHandler.Delete)

	// --- Client subtree ---
	client := e.Group("/client", clientGuard)
	client.POST("/logout", clientAuthHandler.Logout)
	client.GET("/projects", projectHandler.List)
	client.GET("/projects/:id", projectHandler.Get)
	client.GET("/projects/:id/updates", updateHandler.ListByProject)
	client.GET("/updates", updateHandler.List)
	client.GET("/assets", assetHandler.List)

	// --- Pro subtree: two-stage guard, insufficient tier redirects to
	// the standard dashboard rather than to login ---
	pro := e.Group("/pro", proGuard)
	pro.GET("/updates", updateHandler.List)
	pro.GET("/stream/updates", streamHandler.ProjectUpdates)

	// --- Developer subtree ---
	dev := e.Group("/dev", devGuard)
	dev.POST("/logout", devAuthHandler.SignOut)
	dev.GET("/projects", projectHandler.List)
	dev.GET("/projects/:id", projectHandler.Get)
	dev.GET("/projects/:id/updates", updateHandler.ListByProject)
	dev.POST("/projects/:id/updates", updateHandler.Post)

	// --- Stored assets ---
	e.Static(cfg.AssetBaseURL, cfg.AssetDir)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)

	return e
}
