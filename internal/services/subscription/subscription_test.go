package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsroom/internal/metrics"
	"github.com/magabrotheeeer/newsroom/internal/models"
	"github.com/magabrotheeeer/newsroom/internal/rabbitmq"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUser(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) SetPremiumValid(ctx context.Context, email string, until time.Time) (*models.User, error) {
	args := m.Called(ctx, email, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ClearExpiredPremium(ctx context.Context, email string, now time.Time) (bool, error) {
	args := m.Called(ctx, email, now)
	return args.Bool(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func userWith(email string, until *time.Time) *models.User {
	return &models.User{Email: email, Role: models.RoleUser, PremiumValid: until}
}

func TestSubscriptionService_Purchase(t *testing.T) {
	self := models.Identity{Email: "a@x.com", Role: models.RoleUser}

	tests := []struct {
		name       string
		caller     models.Identity
		plan       models.Plan
		wantUntil  time.Time
		setupMocks func(r *UserRepoMock, p *PublisherMock, until time.Time)
		wantErr    error
	}{
		{
			name:      "30-day plan resets expiry to now plus 30 days",
			caller:    self,
			plan:      models.PlanMonth,
			wantUntil: now.Add(30 * 24 * time.Hour),
			setupMocks: func(r *UserRepoMock, p *PublisherMock, until time.Time) {
				r.On("SetPremiumValid", mock.Anything, "a@x.com", until).Return(userWith("a@x.com", &until), nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingSubscriptionPurchase, mock.MatchedBy(func(e models.SubscriptionPurchased) bool {
					return e.Email == "a@x.com" && e.Plan == models.PlanMonth && e.PremiumValid.Equal(until)
				})).Return(nil).Once()
			},
		},
		{
			name:      "trial plan",
			caller:    self,
			plan:      models.PlanTrial,
			wantUntil: now.Add(time.Minute),
			setupMocks: func(r *UserRepoMock, p *PublisherMock, until time.Time) {
				r.On("SetPremiumValid", mock.Anything, "a@x.com", until).Return(userWith("a@x.com", &until), nil).Once()
				p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:      "admin buys for someone else",
			caller:    models.Identity{Email: "boss@x.com", Role: models.RoleAdmin},
			plan:      models.PlanYear,
			wantUntil: now.Add(365 * 24 * time.Hour),
			setupMocks: func(r *UserRepoMock, p *PublisherMock, until time.Time) {
				r.On("SetPremiumValid", mock.Anything, "a@x.com", until).Return(userWith("a@x.com", &until), nil).Once()
				p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:      "publish failure does not fail purchase",
			caller:    self,
			plan:      models.PlanMonth,
			wantUntil: now.Add(30 * 24 * time.Hour),
			setupMocks: func(r *UserRepoMock, p *PublisherMock, until time.Time) {
				r.On("SetPremiumValid", mock.Anything, "a@x.com", until).Return(userWith("a@x.com", &until), nil).Once()
				p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
		{
			name:       "unknown plan",
			caller:     self,
			plan:       models.Plan("7-day"),
			setupMocks: func(_ *UserRepoMock, _ *PublisherMock, _ time.Time) {},
			wantErr:    models.ErrInvalidArgument,
		},
		{
			name:       "buying for another user",
			caller:     models.Identity{Email: "b@x.com", Role: models.RoleUser},
			plan:       models.PlanMonth,
			setupMocks: func(_ *UserRepoMock, _ *PublisherMock, _ time.Time) {},
			wantErr:    models.ErrForbidden,
		},
		{
			name:      "user missing",
			caller:    self,
			plan:      models.PlanMonth,
			wantUntil: now.Add(30 * 24 * time.Hour),
			setupMocks: func(r *UserRepoMock, _ *PublisherMock, until time.Time) {
				r.On("SetPremiumValid", mock.Anything, "a@x.com", until).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			pub := new(PublisherMock)
			tt.setupMocks(repo, pub, tt.wantUntil)
			m := metrics.New(prometheus.NewRegistry())
			svc := NewSubscriptionService(repo, pub, newNoopLogger(), WithClock(clock), WithMetrics(m))

			got, err := svc.Purchase(context.Background(), tt.caller, "a@x.com", tt.plan)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Equal(t, float64(0), testutil.ToFloat64(m.Purchases.WithLabelValues(string(tt.plan))))
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.StateActive, got.State)
				require.NotNil(t, got.PremiumValid)
				assert.True(t, tt.wantUntil.Equal(*got.PremiumValid))
				assert.Equal(t, float64(1), testutil.ToFloat64(m.Purchases.WithLabelValues(string(tt.plan))))
			}
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_PurchaseDoesNotStack(t *testing.T) {
	existing := now.Add(10 * 24 * time.Hour)
	want := now.Add(30 * 24 * time.Hour)

	repo := new(UserRepoMock)
	repo.On("SetPremiumValid", mock.Anything, "a@x.com", want).Return(userWith("a@x.com", &want), nil).Once()
	svc := NewSubscriptionService(repo, nil, newNoopLogger(), WithClock(clock))

	got, err := svc.Purchase(context.Background(), models.Identity{Email: "a@x.com"}, "a@x.com", models.PlanMonth)
	require.NoError(t, err)
	assert.True(t, want.Equal(*got.PremiumValid))
	assert.False(t, existing.Add(30*24*time.Hour).Equal(*got.PremiumValid))
	repo.AssertExpectations(t)
}

func TestSubscriptionService_GetEntitlementStatus(t *testing.T) {
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		setupMocks  func(r *UserRepoMock)
		wantState   models.EntitlementState
		wantExpired bool
		wantValid   *time.Time
		wantErr     error
	}{
		{
			name: "never subscribed",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", nil), nil).Once()
			},
			wantState: models.StateFree,
		},
		{
			name: "active entitlement left unchanged",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &future), nil).Once()
			},
			wantState: models.StateActive,
			wantValid: &future,
		},
		{
			name: "expired entitlement is cleared",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &past), nil).Once()
				r.On("ClearExpiredPremium", mock.Anything, "a@x.com", now).Return(true, nil).Once()
			},
			wantState:   models.StateFree,
			wantExpired: true,
		},
		{
			name: "expiry exactly now counts as expired",
			setupMocks: func(r *UserRepoMock) {
				exact := now
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &exact), nil).Once()
				r.On("ClearExpiredPremium", mock.Anything, "a@x.com", now).Return(true, nil).Once()
			},
			wantState:   models.StateFree,
			wantExpired: true,
		},
		{
			name: "purchase raced the clear",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &past), nil).Once()
				r.On("ClearExpiredPremium", mock.Anything, "a@x.com", now).Return(false, nil).Once()
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &future), nil).Once()
			},
			wantState: models.StateActive,
			wantValid: &future,
		},
		{
			name: "user missing",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "clear fails",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "a@x.com").Return(userWith("a@x.com", &past), nil).Once()
				r.On("ClearExpiredPremium", mock.Anything, "a@x.com", now).Return(false, models.ErrUnavailable).Once()
			},
			wantErr: models.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			m := metrics.New(prometheus.NewRegistry())
			svc := NewSubscriptionService(repo, nil, newNoopLogger(), WithClock(clock), WithMetrics(m))

			got, err := svc.GetEntitlementStatus(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertExpectations(t)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantExpired, got.Expired)
			if tt.wantValid != nil {
				require.NotNil(t, got.PremiumValid)
				assert.True(t, tt.wantValid.Equal(*got.PremiumValid))
			} else {
				assert.Nil(t, got.PremiumValid)
			}
			if tt.wantExpired {
				assert.Equal(t, float64(1), testutil.ToFloat64(m.LazyExpirations))
			}
			repo.AssertExpectations(t)
		})
	}
}
