package main

import (
	"log"
	"net/http"

	"github.com/Brettk80/new2025/internal/config"
	"github.com/Brettk80/new2025/internal/database"
	"github.com/Brettk80/new2025/internal/handlers"
	"github.com/Brettk80/new2025/internal/logger"
	"github.com/Brettk80/new2025/internal/metrics"
	"github.com/Brettk80/new2025/internal/middleware"
	"github.com/Brettk80/new2025/internal/notify"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const notificationCapacity = 200

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Init()
	feed := notify.NewFeed(zlog.Named("notify"), notificationCapacity)

	// Missing credentials fall back to a placeholder project
	supabaseClient, err := supabase.NewClient(cfg, zlog.Named("supabase"), feed)
	if err != nil {
		zlog.Fatal("failed to initialize Supabase client", zap.Error(err))
	}

	if cfg.DatabaseURL == "" {
		zlog.Warn("DATABASE_URL not set, migrations will be skipped")
	} else {
		runMigrations(cfg.DatabaseURL, zlog)
	}

	profiles := services.NewProfileService(zlog.Named("profiles"))
	documents := services.NewDocumentService(cfg.SupabaseStorageBucket, zlog.Named("documents"))
	recipients := services.NewRecipientService()
	broadcasts := services.NewBroadcastService(recipients, zlog.Named("broadcasts"))

	authHandler := handlers.NewAuthHandler(supabaseClient, profiles, cfg.OAuthRedirectURL)
	profileHandler := handlers.NewProfileHandler(supabaseClient, profiles)
	documentsHandler := handlers.NewDocumentsHandler(supabaseClient, profiles, documents)
	recipientsHandler := handlers.NewRecipientsHandler(supabaseClient, profiles, recipients)
	broadcastsHandler := handlers.NewBroadcastsHandler(supabaseClient, profiles, broadcasts, zlog.Named("events"))
	notificationsHandler := handlers.NewNotificationsHandler(feed)

	// Setup router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	router.GET("/health", handlers.HealthHandler(supabaseClient))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth entry points (no JWT yet)
	public := router.Group("/api/v1/auth")
	public.POST("/signup", authHandler.SignUp)
	public.POST("/signin", authHandler.SignIn)
	public.GET("/oauth/:provider", authHandler.OAuth)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/auth/signout", authHandler.SignOut)
	api.GET("/me", profileHandler.Me)
	api.PATCH("/me", profileHandler.Update)

	// Documents
	api.GET("/documents", documentsHandler.List)
	api.POST("/documents", documentsHandler.Upload)
	api.GET("/documents/:id/download", documentsHandler.Download)
	api.DELETE("/documents/:id", documentsHandler.Delete)

	// Address book and block list
	api.GET("/recipients", recipientsHandler.List)
	api.POST("/recipients", recipientsHandler.Create)
	api.DELETE("/recipients/:id", recipientsHandler.Delete)
	api.GET("/block-list", recipientsHandler.ListBlocked)
	api.POST("/block-list", recipientsHandler.Block)
	api.DELETE("/block-list/:id", recipientsHandler.Unblock)

	// Broadcasts
	api.GET("/broadcasts", broadcastsHandler.List)
	api.POST("/broadcasts", broadcastsHandler.Create)
	api.GET("/broadcasts/:id", broadcastsHandler.Get)
	api.GET("/broadcasts/:id/deliveries", broadcastsHandler.Deliveries)
	api.GET("/broadcasts/:id/events", broadcastsHandler.Events)
	api.POST("/broadcasts/:id/cancel", broadcastsHandler.Cancel)

	api.GET("/notifications", notificationsHandler.Recent)

	zlog.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Bool("placeholder_supabase", supabaseClient.IsPlaceholder()),
	)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

// runMigrations applies pending migrations. Failures are logged and the
// server keeps starting, since the platform may already have the schema.
func runMigrations(dbURL string, zlog *zap.Logger) {
	migrator, err := database.NewMigrator(dbURL, zlog.Named("migrations"))
	if err != nil {
		zlog.Warn("failed to initialize migrator", zap.Error(err))
		return
	}
	defer migrator.Close()

	if err := migrator.Run(); err != nil {
		zlog.Warn("migration failed", zap.Error(err))
		return
	}
	zlog.Info("migrations completed")
}
