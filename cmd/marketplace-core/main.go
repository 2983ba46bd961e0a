package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/cache"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/config"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/db"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/discovery"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/favorites"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/handlers"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/inventory"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/memstore"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/messaging"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/orders"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/publisher"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/ratings"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

// recordStore is everything the service reads and writes, backed by
// PostgreSQL or by memory.
type recordStore struct {
	products  db.ProductStore
	catalog   handlers.ProductWriter
	orders    interface {
		orders.OrderWriter
		handlers.OrderReader
	}
	reviews interface {
		handlers.ReviewWriter
		ratings.ReviewSource
	}
	sellers       ratings.Catalog
	favorites     favorites.Store
	notifications publisher.NotificationWriter
}

// favoritesStore joins the favorites table with the product existence check.
type favoritesStore struct {
	*db.FavoritesRepository
	*db.ProductRepository
}

func fatal(msg string, err error) {
	obs.Logger.Error(msg, "error", err)
	os.Exit(1)
}

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

	policy := retry.Policy{MaxRetries: cfg.ReadRetryMax, Initial: cfg.ReadRetryInitial}

	var store recordStore
	checks := make(map[string]handlers.Checker)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := memstore.New()
		store = recordStore{
			products:      mem,
			catalog:       mem,
			orders:        mem,
			reviews:       mem,
			sellers:       mem,
			favorites:     mem,
			notifications: mem,
		}
	case config.DriverPostgres:
		// Connect to PostgreSQL
		database, err := db.NewPostgresDB(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
		if err != nil {
			fatal("failed to connect to database", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			fatal("failed to migrate database", err)
		}
		checks["postgres"] = database

		productRepo := db.NewProductRepository(database)
		store = recordStore{
			products:      productRepo,
			catalog:       productRepo,
			orders:        db.NewOrderRepository(database),
			reviews:       db.NewReviewRepository(database),
			sellers:       productRepo,
			favorites:     favoritesStore{db.NewFavoritesRepository(database), productRepo},
			notifications: db.NewNotificationRepository(database),
		}
	default:
		fatal("unknown store driver", errors.New(cfg.StoreDriver))
	}

	// Redis backs the product cache and, optionally, the pending favorites log.
	// Memory mode runs without it unless the pending log asks for it.
	var redisCache *cache.RedisCache
	if cfg.StoreDriver == config.DriverPostgres || cfg.PendingLogDriver == config.DriverRedis {
		redisCache, err = cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
		if err != nil {
			fatal("failed to connect to Redis", err)
		}
		defer redisCache.Close()
		checks["redis"] = redisCache
	}

	products := store.products
	if redisCache != nil {
		products = db.NewCachedProductRepository(store.products, redisCache)
	}

	var newPending favorites.PendingLogFactory
	if cfg.PendingLogDriver == config.DriverRedis {
		newPending = func(userID string) favorites.PendingLog {
			return cache.NewRedisPendingLog(redisCache.Client(), userID)
		}
	}

	var (
		notifier  orders.Notifier
		orderOpts = []orders.Option{orders.WithReadRetry(policy), orders.WithNotifyTimeout(cfg.NotifyTimeout)}
	)
	if cfg.StoreDriver == config.DriverPostgres {
		// Connect to RabbitMQ
		rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitMQHost, cfg.RabbitMQPort, cfg.RabbitMQUser, cfg.RabbitMQPassword)
		if err != nil {
			fatal("failed to connect to RabbitMQ", err)
		}
		defer rabbitMQ.Close()
		checks["rabbitmq"] = rabbitMQ

		notificationPublisher, err := publisher.NewNotificationPublisher(rabbitMQ)
		if err != nil {
			fatal("failed to create notification publisher", err)
		}
		orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
		if err != nil {
			fatal("failed to create order publisher", err)
		}
		notifier = notificationPublisher
		orderOpts = append(orderOpts, orders.WithPublisher(orderPublisher))
	} else {
		notifier = publisher.NewStoreNotifier(store.notifications)
	}

	// The coordinator reads the authoritative product row; reservations go
	// through the cached repository so the cache entry is dropped.
	ledger := inventory.NewLedger(products)
	coordinator := orders.NewCoordinator(store.products, ledger, store.orders, notifier, orderOpts...)
	sessions := favorites.NewSessions(store.favorites, notifier, newPending, policy)

	handler := handlers.NewMarketHandler(handlers.Deps{
		ServiceName: cfg.ServiceName,
		Checks:      checks,
		Products:    products,
		Catalog:     store.catalog,
		Orders:      store.orders,
		Reviews:     store.reviews,
		Placer:      coordinator,
		Favorites:   sessions,
		Ratings:     ratings.NewAggregator(store.reviews, store.sellers, policy),
	})

	// Register with Consul when an agent is reachable
	var consul *discovery.ConsulClient
	if c, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort); err != nil {
		obs.Logger.Warn("consul unavailable, skipping registration", "error", err)
	} else if err := c.Register(discovery.ServiceConfig{
		Name: cfg.ServiceName,
		ID:   cfg.ServiceID,
		Port: cfg.ServicePort,
		Tags: []string{"api", "marketplace"},
		Meta: map[string]string{"store": cfg.StoreDriver, "pending_log": cfg.PendingLogDriver},
	}); err != nil {
		obs.Logger.Warn("service registration failed", "error", err)
	} else {
		consul = c
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handlers.NewRouter(handler)}
	go func() {
		obs.Logger.Info("marketplace core starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "pending_log", cfg.PendingLogDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("http server failed", err)
		}
	}()

	<-ctx.Done()
	obs.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if consul != nil {
		if err := consul.Deregister(cfg.ServiceID); err != nil {
			obs.Logger.Warn("deregistration failed", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("http shutdown", "error", err)
	}
	if failed := sessions.FlushAll(shutdownCtx); failed > 0 {
		obs.Logger.Error("some favorites sessions were not flushed", "failed", failed)
	}
	// Each pending announcement ends within the notify timeout.
	coordinator.Wait()
}
