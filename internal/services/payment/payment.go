// Package payment создаёт намерения оплаты у внешнего провайдера.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
	"github.com/magabrotheeeer/newsroom/internal/paymentprovider"
)

// Provider описывает платёжного провайдера.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*paymentprovider.PaymentIntentResponse, error)
}

// PaymentService передаёт сумму провайдеру и возвращает client secret.
type PaymentService struct {
	provider Provider
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(provider Provider, log *slog.Logger) *PaymentService {
	return &PaymentService{provider: provider, log: log}
}

// CreatePaymentIntent проверяет цену и создаёт намерение оплаты.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, payer models.Identity, req models.DummyPaymentIntent) (*models.PaymentIntent, error) {
	const op = "payment.CreatePaymentIntent"

	if _, err := paymentprovider.MinorUnits(req.Price); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, req.Price)
	if err != nil {
		s.log.Error("payment provider failed", sl.Op(op), slog.String("email", payer.Email), sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
	}

	s.log.Info("payment intent created",
		slog.String("email", payer.Email),
		slog.String("intent_id", intent.ID),
		slog.String("price", req.Price.String()),
	)
	return &models.PaymentIntent{ClientSecret: intent.ClientSecret}, nil
}
