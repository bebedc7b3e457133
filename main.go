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

	"github.com/kliksy/kliksy-be/internal/api"
	"github.com/kliksy/kliksy-be/internal/auth"
	"github.com/kliksy/kliksy-be/internal/config"
	"github.com/kliksy/kliksy-be/internal/database"
	"github.com/kliksy/kliksy-be/internal/janitor"
	"github.com/kliksy/kliksy-be/internal/logger"
	"github.com/kliksy/kliksy-be/internal/services"
	"github.com/kliksy/kliksy-be/internal/storage"
	"github.com/kliksy/kliksy-be/internal/ws"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up object store
	store, err := storage.NewMinio(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object store client")
	}

	// Set up feed hub
	hub := ws.NewHub()
	go hub.Run()

	// Set up services
	pages := services.PagePolicy{
		DefaultSize: cfg.Pagination.PageSize,
		MaxSize:     cfg.Pagination.MaxPageSize,
	}
	userService := services.NewUserService(db)
	memeService := services.NewMemeService(db, store, hub, pages, cfg.Storage.MaxFileBytes)
	activityService := services.NewActivityService(db)

	// Set up and start the orphaned-object janitor
	jan := janitor.New(db, store, cfg.Janitor)
	if err := jan.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start janitor")
	}

	// Set up router
	tokens := auth.New(cfg.Auth.Secret)
	router := api.NewRouter(tokens, hub, userService, memeService, activityService)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	jan.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
