package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/common/database"
	"github.com/pulsedesk/complaints/pkg/common/httpclient"
	"github.com/pulsedesk/complaints/pkg/common/kafka"
	"github.com/pulsedesk/complaints/pkg/common/logger"
	"github.com/pulsedesk/complaints/pkg/common/middleware"
	"github.com/pulsedesk/complaints/pkg/complaints"
	"github.com/pulsedesk/complaints/pkg/enrichment"
	"github.com/pulsedesk/complaints/pkg/observability/metrics"
	"gorm.io/gorm"
)

func main() {
	// Missing .env is fine in containerised deployments.
	_ = godotenv.Load()

	logger.Init()
	metrics.Init()
	cfg := config.Load()

	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	repo := complaints.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate complaints tables")
	}

	rdb := database.ConnectRedis(cfg)
	defer database.CloseRedis(rdb)

	labels, err := enrichment.LoadLabels(cfg.CategoryLabelsPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default category labels")
	}

	sentimentClient := enrichment.NewSentimentClient(cfg, httpclient.New(cfg.SentimentAPITimeout))
	categoryClient := enrichment.NewCategoryClient(cfg, labels, httpclient.New(cfg.OpenAITimeout))
	geoClient := enrichment.NewGeoClient(cfg, httpclient.New(cfg.GeoAPITimeout), rdb)
	orchestrator := enrichment.NewOrchestrator(sentimentClient, categoryClient, geoClient)

	var events complaints.EventPublisher
	if cfg.KafkaComplaintTopic != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaComplaintTopic)
		defer producer.Close()
		events = producer
	}

	svc := complaints.NewService(repo, orchestrator, events, cfg)
	handler := complaints.NewHTTPHandler(svc, cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.ClientIP)

	// Liveness depends on the store only, never on enrichment APIs.
	router.HandleFunc("/health", healthCheck(db)).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	handler.Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Complaints Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Complaints Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Complaints Service stopped")
}

func healthCheck(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logger.Log.WithError(err).Error("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}
}
