package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/notifier"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/transition"
)

func main() {
	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx)
	if err != nil {
		log.Fatal("database init error", zap.Error(err))
	}

	shipmentRepo := postgresql.NewShipmentRepo(database)
	historyRepo := postgresql.NewHistoryRepo(database)
	ledgerRepo := postgresql.NewLedgerRepo(database)
	contactRepo := postgresql.NewContactRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	userRepo := postgresql.NewUserRepo(database)

	stg := storage.NewPostgresStorage(database, shipmentRepo, historyRepo, ledgerRepo, contactRepo, outboxRepo)

	if adminUsername := os.Getenv("ADMIN_USERNAME"); adminUsername != "" {
		if err := userRepo.EnsureUser(ctx, adminUsername, os.Getenv("ADMIN_PASSWORD"), "admin"); err != nil {
			log.Fatal("failed to seed admin user", zap.Error(err))
		}
		log.Info("admin user ensured", zap.String("username", adminUsername))
	}

	shipmentCache := cache.NewShipmentCache(stg)
	if err := shipmentCache.LoadInitialData(ctx); err != nil {
		log.Warn("failed to warm shipment cache", zap.Error(err))
	}

	var sender notifier.Sender
	if gatewayURL := os.Getenv("WHATSAPP_GATEWAY_URL"); gatewayURL != "" {
		sender = notifier.NewGatewaySender(gatewayURL, os.Getenv("WHATSAPP_GATEWAY_KEY"))
	} else {
		sender = notifier.NewConsoleSender()
	}

	dispatcher := notifier.NewDispatcher(stg, stg, sender, log)
	guard := transition.NewGuard(stg, dispatcher, shipmentCache, log)

	var producer kafka.Producer
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer = kafka.NewWriterProducer(brokers)
	} else {
		producer = kafka.NewConsoleProducer()
	}

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    50,
		MaxAttempts:  5,
	}, log)

	audit := server.NewAuditPipeline(2, 5, 500*time.Millisecond, stg, log)
	srv := server.New(stg, guard, userRepo, shipmentCache, audit, log)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "9000"
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return srv.Run(groupCtx, port)
	})

	group.Go(func() error {
		publisher.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		publisher.Shutdown()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal("service stopped with error", zap.Error(err))
	}

	log.Info("service gracefully stopped")
}
