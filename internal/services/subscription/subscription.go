// Package subscription реализует движок подписки: покупку плана и
// ленивую проверку срока действия.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/metrics"
	"github.com/magabrotheeeer/newsroom/internal/models"
	"github.com/magabrotheeeer/newsroom/internal/rabbitmq"
)

// UserRepository определяет методы хранилища, нужные движку подписки.
type UserRepository interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	// SetPremiumValid перезаписывает срок подписки.
	SetPremiumValid(ctx context.Context, email string, until time.Time) (*models.User, error)
	// ClearExpiredPremium сбрасывает срок, только если он не позже now.
	ClearExpiredPremium(ctx context.Context, email string, now time.Time) (bool, error)
}

// EventPublisher отправляет доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// SubscriptionService переводит купленный план в срок действия подписки.
type SubscriptionService struct {
	users   UserRepository
	events  EventPublisher
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// Option настраивает SubscriptionService.
type Option func(*SubscriptionService)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *SubscriptionService) { s.now = now }
}

// WithMetrics включает счётчики покупок и сбросов.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SubscriptionService) { s.metrics = m }
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// events может быть nil, тогда события не публикуются.
func NewSubscriptionService(users UserRepository, events EventPublisher, log *slog.Logger, opts ...Option) *SubscriptionService {
	s := &SubscriptionService{
		users:  users,
		events: events,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Purchase выставляет срок подписки now+длительность плана. Срок не
// складывается с текущим: новая покупка всегда отсчитывается от now.
func (s *SubscriptionService) Purchase(ctx context.Context, caller models.Identity, email string, plan models.Plan) (*models.Entitlement, error) {
	const op = "subscription.Purchase"

	duration, ok := plan.Duration()
	if !ok {
		return nil, fmt.Errorf("%s: unknown plan %q: %w", op, plan, models.ErrInvalidArgument)
	}
	if caller.Email != email && !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	now := s.now().UTC()
	user, err := s.users.SetPremiumValid(ctx, email, now.Add(duration))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.metrics != nil {
		s.metrics.Purchases.WithLabelValues(string(plan)).Inc()
	}
	s.log.Info("plan purchased",
		slog.String("email", email),
		slog.String("plan", string(plan)),
		slog.Time("premium_valid", *user.PremiumValid),
	)
	s.publish(ctx, rabbitmq.RoutingSubscriptionPurchase, models.SubscriptionPurchased{
		Email:        email,
		Plan:         plan,
		PremiumValid: *user.PremiumValid,
		At:           now,
	})

	return &models.Entitlement{
		Email:        email,
		State:        models.StateActive,
		PremiumValid: user.PremiumValid,
	}, nil
}

// GetEntitlementStatus сообщает текущее состояние подписки. Истёкший срок
// сбрасывается в хранилище при чтении.
func (s *SubscriptionService) GetEntitlementStatus(ctx context.Context, email string) (*models.Entitlement, error) {
	const op = "subscription.GetEntitlementStatus"

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	if user.PremiumValid == nil {
		return &models.Entitlement{Email: email, State: models.StateFree}, nil
	}
	if user.PremiumValid.After(now) {
		return &models.Entitlement{Email: email, State: models.StateActive, PremiumValid: user.PremiumValid}, nil
	}

	cleared, err := s.users.ClearExpiredPremium(ctx, email, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !cleared {
		// Срок успели перезаписать покупкой между чтением и сбросом.
		user, err = s.users.GetUser(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if user.PremiumValid != nil && user.PremiumValid.After(now) {
			return &models.Entitlement{Email: email, State: models.StateActive, PremiumValid: user.PremiumValid}, nil
		}
	}

	if s.metrics != nil {
		s.metrics.LazyExpirations.Inc()
	}
	s.log.Debug("expired entitlement cleared", slog.String("email", email))
	return &models.Entitlement{Email: email, State: models.StateFree, Expired: true}, nil
}

func (s *SubscriptionService) publish(ctx context.Context, key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
