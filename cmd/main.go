package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"inbox-service/internal/handler"
	"inbox-service/internal/middleware"
	"inbox-service/internal/store"
	"inbox-service/pkg/config"
	"inbox-service/pkg/jwtutil"
	"inbox-service/pkg/logger"
	"inbox-service/pkg/session"
	"inbox-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting inbox service...", zap.String("environment", cfg.Server.Env))

	// Open the store; its lifecycle is owned here, not by a package global
	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer st.Close()
	log.Info("Database connection established")

	// Initialize token codecs
	session.Initialize(cfg)
	jwtutil.Initialize(&cfg.JWT)
	log.Info("Token codecs initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	h := handler.New(st, cfg.Secrets)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no API key required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Keyed API surface - every route under /api/:key is gated by the API
	// key; a mismatch answers 404
	api := e.Group("/api/:key")
	api.Use(middleware.APIKeyMiddleware(cfg.Secrets.APIKey))
	api.Use(middleware.IdentityMiddleware)

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.Me)
	authGroup.POST("/token", h.IssueToken)

	// Admin provisioning - requires an admin identity
	admin := api.Group("/admin")
	admin.POST("/bootstrap", h.Bootstrap)

	adminOnly := api.Group("/admin", middleware.RequireAdmin)
	adminOnly.GET("/tenants", h.ListTenants)
	adminOnly.POST("/tenants", h.CreateTenant)
	adminOnly.GET("/domains", h.ListDomains)
	adminOnly.POST("/domains", h.CreateDomain)
	adminOnly.GET("/users", h.ListUsers)
	adminOnly.POST("/users", h.UpsertUser)
	adminOnly.GET("/guestLinks", h.ListGuestLinks)
	adminOnly.POST("/guestLinks", h.CreateGuestLink)
	adminOnly.GET("/emails", h.AdminEmails)

	// Mailbox lookup for logged-in identities
	api.POST("/mail/emailList", h.EmailList)

	// Guest link redemption - the token is the sole capability
	api.POST("/guest/:token/emailList", h.GuestEmailList)

	// Inbound ingestion by the external mail-receiving collaborator
	api.POST("/inbound/receive", h.InboundReceive)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
