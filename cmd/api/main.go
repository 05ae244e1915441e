package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-courier/cmd/api/router/v1"
	"go-courier/internal/infrastructure/auth"
	cacheadapter "go-courier/internal/infrastructure/cache/adapter"
	"go-courier/internal/infrastructure/config"
	"go-courier/internal/infrastructure/database"
	"go-courier/internal/infrastructure/httpx"
	"go-courier/internal/infrastructure/logger"
	qadapter "go-courier/internal/infrastructure/queue/adapter"
	qport "go-courier/internal/infrastructure/queue/port"
	"go-courier/internal/infrastructure/realtime"
	chatadapter "go-courier/internal/pkg/chat/persistence/repository/adapter"
	chatrepo "go-courier/internal/pkg/chat/persistence/repository/port"
	"go-courier/internal/pkg/delivery"
	socket "go-courier/internal/pkg/delivery/presentation/controller"
	"go-courier/internal/pkg/notification/application/task"
	notificationusecase "go-courier/internal/pkg/notification/application/usecase"
	notificationadapter "go-courier/internal/pkg/notification/persistence/repository/adapter"
	notificationrepo "go-courier/internal/pkg/notification/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const metricsNamespace = "courier"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authenticator, err := auth.NewJWTAuthenticator(auth.JWTConfig{
		Secret:        cfg.Auth.Secret,
		Issuer:        cfg.Auth.Issuer,
		SigningMethod: cfg.Auth.SigningMethod,
	})
	if err != nil {
		return err
	}

	// Storage
	var (
		chats         chatrepo.ChatRepository
		notifications notificationrepo.NotificationRepository
		pool          *pgxpool.Pool
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err = database.Connect(connectCtx, cfg.DB.URL, database.WithMaxConns(cfg.DB.MaxConns))
		cancel()
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := database.EnsureSchema(ctx, pool); err != nil {
				return err
			}
		}
		chats = chatadapter.NewPgChatRepository(pool)
		notifications = notificationadapter.NewPgNotificationRepository(pool)
	default:
		log.Warn("Using in-memory storage; data is lost on restart")
		chats = chatadapter.NewMemoryChatRepository()
		notifications = notificationadapter.NewMemoryNotificationRepository()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := httpx.NewMetrics(metricsNamespace, reg)

	// Realtime
	registry := realtime.NewRegistry(log, realtime.NewMetrics(metricsNamespace, reg))
	notifier := delivery.NewNotifier(registry, log)

	// Redis: pair cache and the notification queue
	var queue qport.Client
	var worker *qadapter.AsynqServer
	if cfg.Redis.URL != "" {
		cache, err := cacheadapter.NewRedisCache(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()
		chats = chatadapter.NewCachedChatRepository(chats, cache, cfg.Redis.PairTTL, log)

		if cfg.Queue.Enabled {
			client, err := qadapter.NewAsynqClient(cfg.Redis.URL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()
			queue = client

			worker, err = qadapter.NewAsynqServer(cfg.Redis.URL, qadapter.ServerOptions{
				Concurrency: cfg.Queue.Concurrency,
				Queues:      cfg.Queue.Queues,
			}, log)
			if err != nil {
				return err
			}
			task.RegisterCreateNotificationTask(worker, notificationusecase.NewCreateNotificationUseCase(notifications, notifier), log)
		}
	}

	socketCtl := socket.NewSocketController(registry, authenticator, notifier, socket.SocketOptions{
		Connection: realtime.ConnectionOptions{
			SendBuffer: cfg.Realtime.SendBuffer,
			WriteWait:  cfg.Realtime.WriteWait,
		},
		PongWait:       cfg.Realtime.PongWait,
		ReadLimit:      cfg.Realtime.ReadLimit,
		CloseDisplaced: cfg.Realtime.CloseDisplaced,
		Presence:       cfg.Realtime.Presence,
		InboundRate:    cfg.Realtime.InboundRate,
		InboundBurst:   cfg.Realtime.InboundBurst,
		CheckOrigin:    originChecker(cfg.HTTP.CORSOriginList()),
	}, log)

	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(log), httpMetrics.Middleware(), gin.Recovery())

	r.GET("/", welcome)
	r.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "connections": registry.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1.RegisterRoutes(r, v1.Deps{
		Auth:          authenticator,
		Chats:         chats,
		Notifications: notifications,
		Notifier:      notifier,
		Socket:        socketCtl,
		Queue:         queue,
		ServiceToken:  cfg.Auth.ServiceToken,
		Timeout:       cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           corsHandler(cfg.HTTP.CORSOriginList())(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", zap.String("address", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if worker != nil {
		go func() {
			if err := worker.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		log.Error("Component failed, shutting down", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	if worker != nil {
		_ = worker.Stop(shutdownCtx)
	}
	// hijacked sockets are not closed by srv.Shutdown
	registry.Shutdown(websocket.CloseGoingAway, "server shutdown")

	log.Info("Server stopped")
	return nil
}

func welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Courier API",
		"status":  "OK",
		"version": "v1",
	})
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", httpx.RequestIDHeader, auth.ServiceTokenHeader},
		ExposedHeaders:   []string{httpx.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// originChecker admits socket upgrades from the configured origins. An empty
// list admits everything.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
