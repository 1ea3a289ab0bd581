package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"flipquest/config"
	"flipquest/internal/api"
	"flipquest/internal/catalog"
	"flipquest/internal/database"
	"flipquest/internal/geocoding"
	"flipquest/internal/models"
	"flipquest/internal/progression"
	"flipquest/internal/queue"
	"flipquest/internal/session"
	"flipquest/internal/submission"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Server.LogLevel).Warn("Unknown log level, using info")
	}

	// Initialize database
	db, err := database.NewDatabase(database.InMemory, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Load the property catalog
	properties, err := catalog.LoadFile(cfg.Game.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load property catalog")
	}
	if cfg.Geocoding.FillMissing {
		geocoder := geocoding.NewGeocoder(logger, cfg.Geocoding.BaseURL)
		filled, err := geocoder.FillMissing(context.Background(), properties)
		if err != nil {
			logger.WithError(err).Error("Failed to geocode catalog")
		}
		logger.WithField("filled", filled).Info("Geocoded properties without coordinates")
	}
	if err := db.ReplaceCatalog(properties); err != nil {
		logger.WithError(err).Fatal("Failed to store property catalog")
	}
	cat, err := catalog.New(db, catalog.NewRand(cfg.Game.RandomSeed), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize catalog")
	}

	// Achievement notifications
	inbox := queue.NewInbox()
	notifications := queue.NewAchievementQueue(cfg.Game.NotificationBuffer, logger)
	notifications.Subscribe(inbox.Handle)
	notifications.Subscribe(func(unlocked []models.Achievement) error {
		for _, a := range unlocked {
			logger.WithFields(logrus.Fields{
				"achievement": a.ID,
				"points":      a.Points,
			}).Info("Achievement unlocked")
		}
		return nil
	})
	notifications.Start()
	defer notifications.Close()

	// Results delivery
	var submitter submission.Submitter
	if cfg.UseSendGrid() {
		logger.Info("Sending results through SendGrid")
		submitter = submission.NewRetryingSubmitter(
			submission.NewSendGridSubmitter(
				cfg.Submission.SendGridAPIKey,
				cfg.Submission.FromName,
				cfg.Submission.FromEmail,
				logger,
			),
			cfg.Submission.MaxRetries,
			cfg.Submission.RetryDelay,
			logger,
		)
	} else {
		logger.WithField("delay", cfg.Submission.Delay).Info("No SendGrid key, simulating result delivery")
		submitter = submission.NewDelaySubmitter(cfg.Submission.Delay, logger)
	}

	game := session.NewManager(
		session.New(cat, progression.NewPlayer(nil), logger),
		submitter,
		db,
		notifications,
		logger,
	)

	// Initialize handler
	handler := api.NewHandler(game, cat, inbox, logger)
	handler.SetSubmitTimeout(cfg.Submission.Timeout)

	router := api.NewRouter(cfg.Server.CORSAllowedOrigins)
	api.SetupRoutes(router, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
