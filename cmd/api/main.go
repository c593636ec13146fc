package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/growtheory/reportcard/internal/application"
	appanalysis "github.com/growtheory/reportcard/internal/application/analysis"
	appsignals "github.com/growtheory/reportcard/internal/application/signals"
	"github.com/growtheory/reportcard/internal/config"
	"github.com/growtheory/reportcard/internal/domain/company"
	"github.com/growtheory/reportcard/internal/domain/faults"
	aiclient "github.com/growtheory/reportcard/internal/infra/ai/openai"
	mysqlp "github.com/growtheory/reportcard/internal/infra/db/mysql"
	postgresp "github.com/growtheory/reportcard/internal/infra/db/postgres"
	"github.com/growtheory/reportcard/internal/infra/httpserver"
	"github.com/growtheory/reportcard/internal/infra/providers/alphavantage"
	"github.com/growtheory/reportcard/internal/infra/providers/fred"
	"github.com/growtheory/reportcard/internal/infra/providers/newsapi"
	minioStore "github.com/growtheory/reportcard/internal/infra/storage"
	"github.com/growtheory/reportcard/internal/middleware"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	var (
		db        *sql.DB
		repo      company.Repository
		faultRepo faults.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect error")
		}
		repo = mysqlp.NewReportRepository(db)
		faultRepo = mysqlp.NewFaultRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect error")
		}
		repo = postgresp.NewReportRepository(db)
		faultRepo = postgresp.NewFaultRepository(db)
	default:
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("unsupported database driver")
	}
	defer db.Close()

	// Transcript archive is optional; an analysis still works without it.
	var transcripts company.TranscriptStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio init error")
		}
		transcripts = store
	}

	generator := aiclient.NewClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
	)

	// Each provider is wired only when its key is configured; the signals
	// service degrades per source.
	signalsSvc := &appsignals.Service{Log: log}
	if cfg.Providers.AlphaVantageKey != "" {
		signalsSvc.Market = alphavantage.New(cfg.Providers.AlphaVantageKey)
	}
	if cfg.Providers.NewsAPIKey != "" {
		signalsSvc.News = newsapi.New(cfg.Providers.NewsAPIKey)
	}
	if cfg.Providers.FREDKey != "" {
		signalsSvc.Economy = fred.New(cfg.Providers.FREDKey)
	}

	svc := &appanalysis.Service{
		Repo:        repo,
		Generator:   generator,
		Signals:     signalsSvc,
		Transcripts: transcripts,
		Faults:      faultRepo,
		Clock:       application.SystemClock{},
		Freshness:   time.Duration(cfg.Cache.TTLHours) * time.Hour,
		HitDelay:    time.Duration(cfg.Cache.HitDelaySeconds) * time.Second,
		Log:         log,
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log: log,
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
		APIKeys:      cfg.Auth.APIKeys,
		RateCapacity: cfg.RateLimit.Capacity,
		RateRefill:   cfg.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
