package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/config"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/consumer"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/db"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/messaging"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/publisher"
)

func main() {
	cfg, err := config.LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		obs.InitLogger("info")
		obs.Logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
	if err != nil {
		obs.Logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		obs.Logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitMQHost, cfg.RabbitMQPort, cfg.RabbitMQUser, cfg.RabbitMQPassword)
	if err != nil {
		obs.Logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	if err := rabbitMQ.DeclareQueue(publisher.NotificationsQueue); err != nil {
		obs.Logger.Error("failed to declare queue", "error", err)
		os.Exit(1)
	}
	messages, err := rabbitMQ.Consume(publisher.NotificationsQueue)
	if err != nil {
		obs.Logger.Error("failed to consume", "error", err)
		os.Exit(1)
	}

	worker := consumer.NewNotificationConsumer(db.NewNotificationRepository(database))
	obs.Logger.Info("notification worker started", "queue", publisher.NotificationsQueue)
	worker.ProcessNotifications(ctx, messages)
	obs.Logger.Info("notification worker stopped")
}
