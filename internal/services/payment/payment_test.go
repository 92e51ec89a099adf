package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsroom/internal/models"
	"github.com/magabrotheeeer/newsroom/internal/paymentprovider"
)

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*paymentprovider.PaymentIntentResponse, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.PaymentIntentResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPaymentService_CreatePaymentIntent(t *testing.T) {
	payer := models.Identity{Email: "a@x.com"}

	tests := []struct {
		name       string
		price      string
		setupMocks func(p *ProviderMock)
		wantSecret string
		wantErr    error
	}{
		{
			name:  "success",
			price: "9.99",
			setupMocks: func(p *ProviderMock) {
				p.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(d decimal.Decimal) bool {
					return d.Equal(decimal.RequireFromString("9.99"))
				})).Return(&paymentprovider.PaymentIntentResponse{ID: "pi_1", ClientSecret: "secret_1"}, nil).Once()
			},
			wantSecret: "secret_1",
		},
		{name: "zero price", price: "0", setupMocks: func(_ *ProviderMock) {}, wantErr: models.ErrValidation},
		{name: "negative price", price: "-5", setupMocks: func(_ *ProviderMock) {}, wantErr: models.ErrValidation},
		{name: "sub-cent price", price: "0.001", setupMocks: func(_ *ProviderMock) {}, wantErr: models.ErrValidation},
		{
			name:  "provider down",
			price: "5",
			setupMocks: func(p *ProviderMock) {
				p.On("CreatePaymentIntent", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
			},
			wantErr: models.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(ProviderMock)
			tt.setupMocks(provider)
			svc := NewPaymentService(provider, newNoopLogger())

			got, err := svc.CreatePaymentIntent(context.Background(), payer,
				models.DummyPaymentIntent{Price: decimal.RequireFromString(tt.price)})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSecret, got.ClientSecret)
			}
			provider.AssertExpectations(t)
		})
	}
}
