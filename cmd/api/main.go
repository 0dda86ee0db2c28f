package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/catalog"
	"bookstore-backend/internal/config"
	"bookstore-backend/internal/httpx"
	kafkax "bookstore-backend/internal/kafka"
	"bookstore-backend/internal/mongox"
	"bookstore-backend/internal/orders"
	"bookstore-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := mongox.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	connectCancel()
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, logger)
	prod.Start(ctx)

	// Stores & services
	orderStore := orders.NewStore(db)
	if err := orderStore.EnsureIndexes(ctx); err != nil {
		logger.Fatal("order indexes", zap.Error(err))
	}
	bookStore := catalog.NewStore(db)

	authSvc := auth.NewService(
		auth.NewCustomerStore(db),
		auth.NewSessionStore(rdb, cfg.SessionTTL),
		logger,
	)
	catalogSvc := catalog.NewService(bookStore, catalog.NewRedisCache(rdb), logger)
	orderSvc := orders.NewService(orderStore, bookStore, prod, cfg.ServiceName, logger)

	// HTTP
	router := httpx.NewRouter(logger, httpx.SessionMiddleware(authSvc))
	(&httpx.AuthHandler{Auth: authSvc, SessionTTL: cfg.SessionTTL, Log: logger}).Register(router)
	(&httpx.BooksHandler{Catalog: catalogSvc, Log: logger}).Register(router)
	(&httpx.OrdersHandler{Service: orderSvc, Log: logger}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	cancel()          // stop producer loop, flush pending events
	prod.WaitClosed() // drain
}
