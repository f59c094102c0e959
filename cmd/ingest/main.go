package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	appingest "main/internal/application/service/ingest"
	"main/internal/config"
	"main/internal/infrastructure/broker"
	"main/internal/infrastructure/graph"

	"github.com/sirupsen/logrus"
)

// The ingest runner consumes price and news updates from RabbitMQ fanout
// exchanges and writes them into the market graph in batches. It is the
// streaming half of the ingestion side; cmd/seed handles bulk loads.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Fatal("RABBITMQ_URL is required")
	}

	graphRepo, err := graph.NewRepository(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		logger.Fatalf("failed to init graph repo: %v", err)
	}
	defer func() {
		if closeErr := graphRepo.Close(context.Background()); closeErr != nil {
			logger.Errorf("close graph repo: %v", closeErr)
		}
	}()

	service := appingest.NewService(graphRepo)
	if err := service.EnsureSchema(ctx); err != nil {
		logger.Fatalf("failed to ensure schema: %v", err)
	}

	consumer, err := broker.NewConsumer(cfg.RabbitMQ, service, logger)
	if err != nil {
		logger.Fatalf("failed to create consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		logger.Fatalf("failed to start consumer: %v", err)
	}

	<-ctx.Done()
	logger.Info("shutting down ingest")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := consumer.Close(shutdownCtx); err != nil {
		logger.Errorf("consumer close error: %v", err)
	}
	logger.Info("ingest stopped")
}
