package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/api"
	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/config"
	"github.com/dmordi/habari-blog-be/internal/database"
	"github.com/dmordi/habari-blog-be/internal/logger"
	"github.com/dmordi/habari-blog-be/internal/mail"
	"github.com/dmordi/habari-blog-be/internal/rate"
	"github.com/dmordi/habari-blog-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the token codec and mail delivery
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL, cfg.ResetTTL)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg)
	}

	// Set up services
	userService := services.NewUserService(db)
	postService := services.NewPostService(db)
	categoryService := services.NewCategoryService(db)
	commentService := services.NewCommentService(db)
	subscriptionService := services.NewSubscriptionService(db)
	contactService := services.NewContactService(db)
	habariService := services.NewHabariService(db)

	// Set up router
	router := api.NewRouter(cfg, tokens, mailer, rate.NewMemory(),
		userService, postService, categoryService, commentService,
		subscriptionService, contactService, habariService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
