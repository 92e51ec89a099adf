package newsroom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsroom/internal/cache"
	"github.com/magabrotheeeer/newsroom/internal/config"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/health"
	"github.com/magabrotheeeer/newsroom/internal/lib/jwt"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/metrics"
	"github.com/magabrotheeeer/newsroom/internal/migrations"
	"github.com/magabrotheeeer/newsroom/internal/paymentprovider"
	"github.com/magabrotheeeer/newsroom/internal/rabbitmq"
	articleservice "github.com/magabrotheeeer/newsroom/internal/services/article"
	authservice "github.com/magabrotheeeer/newsroom/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/newsroom/internal/services/payment"
	subservice "github.com/magabrotheeeer/newsroom/internal/services/subscription"
	"github.com/magabrotheeeer/newsroom/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает хранилище, применяет миграции и собирает сервисы.
// Redis и RabbitMQ необязательны: без них сервис работает без кеша и без событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.newsroom.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}
	checks := map[string]health.Pinger{"postgres": db}

	var articleCache articleservice.Cache
	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis unavailable, article cache disabled", sl.Err(err))
	} else {
		app.cache = redisCache
		articleCache = redisCache
		checks["redis"] = redisCache
	}

	var articleEvents articleservice.EventPublisher
	var subEvents subservice.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.conn = conn
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.EventQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.ch = ch
		publisher := rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange)
		articleEvents = publisher
		subEvents = publisher
	} else {
		logger.Info("rabbitmq url is empty, domain events are not published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, logger)
	subscriptionService := subservice.NewSubscriptionService(db, subEvents, logger, subservice.WithMetrics(m))
	articleService := articleservice.NewArticleService(articleservice.Deps{
		Repo:         db,
		Cache:        articleCache,
		CacheTTL:     cfg.RedisConnection.CacheTTL,
		Entitlements: subscriptionService,
		Events:       articleEvents,
		Metrics:      m,
		Log:          logger,
	})
	paymentService := paymentservice.NewPaymentService(paymentprovider.NewClient(cfg.PaymentProvider), logger)

	router := NewRouter(logger, Services{
		Auth:         authService,
		Articles:     articleService,
		Subscription: subscriptionService,
		Payment:      paymentService,
	}, RouterOptions{
		RateLimit: cfg.RateLimit,
		Metrics:   m,
		Gatherer:  registry,
		Health:    checks,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
