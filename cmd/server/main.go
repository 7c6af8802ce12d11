package main

import (
	"log"
	"net/http"

	_ "pathguider/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pathguider/internal/auth"
	"pathguider/internal/cache"
	"pathguider/internal/config"
	"pathguider/internal/db"
	"pathguider/internal/handler"
	"pathguider/internal/mailer"
	"pathguider/internal/model"
	"pathguider/internal/repository"
	"pathguider/internal/router"
	"pathguider/internal/service"
)

// @title PathGuider Portal API
// @version 1.0
// @description Student pathway placement portal with email-verified accounts, TOTP second factor, role-gated dashboards, placements and appeals.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.TotpFactor{},
		&model.VerificationToken{},
		&model.Placement{},
		&model.Appeal{},
		&model.AppealDecision{},
		&model.UploadedFile{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	tokenRepo := repository.NewVerificationTokenRepository(gormDB)
	factorRepo := repository.NewTotpFactorRepository(gormDB)
	placementRepo := repository.NewPlacementRepository(gormDB)
	appealRepo := repository.NewAppealRepository(gormDB)
	uploadRepo := repository.NewUploadedFileRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	totpProvider := auth.NewTOTPProvider(cfg.TOTPIssuer)
	mail := mailer.New(cfg)

	// Initialize services
	authService := service.NewAuthService(profileRepo, tokenRepo, factorRepo, jwtService, tokenStore, totpProvider, mail, cfg.PublicBaseURL)
	profileService := service.NewProfileService(profileRepo, cacheClient, cfg)
	placementService := service.NewPlacementService(placementRepo, uploadRepo)
	appealService := service.NewAppealService(appealRepo, placementRepo, mail, cfg.AppealLimit)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	placementHandler := handler.NewPlacementHandler(placementService)
	appealHandler := handler.NewAppealHandler(appealService)

	// Register routes
	router.Register(
		e,
		jwtService,
		tokenStore,
		profileService,
		authHandler,
		profileHandler,
		placementHandler,
		appealHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
