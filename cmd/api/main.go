package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	_ "github.com/lib/pq"

	"gatherly/config"
	authadapter "gatherly/internal/adapters/auth"
	emailadapter "gatherly/internal/adapters/email"
	httpdelivery "gatherly/internal/delivery/http"
	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/monitoring"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

// @title Gatherly API
// @version 1.0
// @description Event management backend: events, categories, and RSVPs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromEmail,
		FromName:    cfg.Mailer.FromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.Mailer.SESRegion,
			AccessKeyID:     cfg.Mailer.SESAccessKey,
			SecretAccessKey: cfg.Mailer.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "error", err)
		os.Exit(1)
	}

	hasher := authadapter.NewBcryptHasher(authadapter.DefaultBcryptCost)
	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, emailService, logger)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	eventService := services.NewEventService(eventRepo, categoryRepo, rsvpRepo, userRepo, emailService, logger, cfg.ContextTimeout)
	rsvpService := services.NewRSVPService(eventRepo, rsvpRepo)

	mux := httpdelivery.NewRouter(
		controllers.NewAuthController(logger, authService),
		controllers.NewUserController(logger, userService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewEventController(logger, eventService, rsvpService),
		controllers.NewRSVPController(logger, rsvpService),
		tokenVerifier,
	)

	var handler http.Handler = mux
	handler = monitoring.Middleware(mux, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)

	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
