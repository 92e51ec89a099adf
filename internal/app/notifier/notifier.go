// Package notifier собирает воркер уведомлений: читает очереди доменных
// событий и рассылает письма.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/newsroom/internal/config"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/lib/smtp"
	"github.com/magabrotheeeer/newsroom/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/newsroom/internal/services/notifier"
)

const workersPerQueue = 4

// App — воркер уведомлений.
type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	notifier *notifierservice.NotifierService
	logger   *slog.Logger
}

// New подключается к RabbitMQ и объявляет очереди событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.notifier.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is required"))
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.EventQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(workersPerQueue*len(rabbitmq.EventQueues()), 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:     conn,
		ch:       ch,
		notifier: notifierservice.NewNotifierService(transport, logger),
		logger:   logger,
	}, nil
}

// Run обрабатывает очереди до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]rabbitmq.Handler{
		rabbitmq.RoutingArticleModerated:     a.notifier.ArticleModerated,
		rabbitmq.RoutingSubscriptionPurchase: a.notifier.SubscriptionPurchased,
	}

	var waits []<-chan struct{}
	for _, q := range rabbitmq.EventQueues() {
		done, err := rabbitmq.Consume(ctx, a.ch, q.QueueName, workersPerQueue, a.logger, handlers[q.RoutingKey])
		if err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
		a.logger.Info("consuming", slog.String("queue", q.QueueName))
		waits = append(waits, done)
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")
	for _, done := range waits {
		<-done
	}
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
