package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/reachout-dev/reachout/internal/bodygen"
	"github.com/reachout-dev/reachout/internal/config"
	"github.com/reachout-dev/reachout/internal/domain"
	"github.com/reachout-dev/reachout/internal/handler"
	"github.com/reachout-dev/reachout/internal/jwt"
	"github.com/reachout-dev/reachout/internal/logger"
	"github.com/reachout-dev/reachout/internal/mailer"
	"github.com/reachout-dev/reachout/internal/router"
	"github.com/reachout-dev/reachout/internal/service"
	"github.com/reachout-dev/reachout/internal/storage/csvfile"
	"github.com/reachout-dev/reachout/internal/storage/pg"
)

func main() {
	// .env is optional, local development convenience only
	_ = godotenv.Load()

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "configs", "path to folder with configs")
	flag.Parse()
	cfg := config.MustLoad(configFolder)

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	storage, err := pg.New(cfg.Pg())
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	// Accounts and configurations always live in postgres; the csv store
	// only replaces recruiter persistence for single-user setups.
	var recruiterStore service.RecruiterStorage = storage
	if cfg.Public.RecruiterStore == "csv" {
		recruiterStore, err = csvfile.New(cfg.Public.CSVPath)
		if err != nil {
			slog.Error("failed to open recruiter csv store", "path", cfg.Public.CSVPath, "error", err)
			os.Exit(1)
		}
		slog.Info("using csv recruiter store", "path", cfg.Public.CSVPath)
	}

	jwtService := jwt.New(cfg.JwtAccessKey(), cfg.JwtRefreshKey(), cfg.Public.JwtAccessTTL, cfg.Public.JwtRefreshTTL)

	aiClient := bodygen.NewAIClient(cfg.Public.AI.Endpoint, cfg.Public.AI.Model, time.Duration(cfg.Public.AI.Timeout)*time.Second)
	bodies := bodygen.New(aiClient)

	smtpTimeout := time.Duration(cfg.Public.SMTPTimeout) * time.Second
	transports := func(configuration domain.Configuration) (service.Transport, error) {
		return mailer.New(configuration, smtpTimeout)
	}

	auth := service.NewAuth(storage, storage, jwtService)
	configurations := service.NewConfigurations(storage)
	recruiters := service.NewRecruiters(recruiterStore)
	dispatcher := service.NewDispatcher(storage, storage, recruiterStore, transports, bodies)

	h := handler.New(auth, configurations, recruiters, dispatcher).WithPinger(storage)
	r := router.New(h, jwtService)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = fmt.Sprintf("%d", cfg.Public.HTTPPort)
	}

	server := &http.Server{
		Addr:        ":" + httpPort,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// batch sends wait on the SMTP rate gate, so writes may take minutes
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	slog.Info("server started", "port", httpPort)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
