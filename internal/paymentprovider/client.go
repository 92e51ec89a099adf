// Package paymentprovider реализует клиент платёжного провайдера (Stripe-совместимый API PaymentIntents).
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/newsroom/internal/config"
)

// ErrProvider возвращается, когда провайдер отклонил запрос.
var ErrProvider = errors.New("payment provider error")

// Client ходит в API провайдера.
type Client struct {
	secretKey  string
	apiURL     string
	currency   string
	httpClient *http.Client
}

// NewClient создаёт клиента по секции конфигурации.
func NewClient(cfg config.PaymentProvider) *Client {
	return &Client{
		secretKey:  cfg.SecretKey,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		currency:   cfg.Currency,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// MinorUnits переводит сумму в минимальные единицы валюты (центы).
func MinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", amount)
	}
	cents := amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", amount)
	}
	return cents.IntPart(), nil
}

// CreatePaymentIntent создаёт намерение оплаты и возвращает client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntentResponse, error) {
	const op = "paymentprovider.CreatePaymentIntent"

	minor, err := MinorUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minor, 10))
	form.Set("currency", c.currency)
	form.Add("payment_method_types[]", "card")

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr errorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%s: %w: %s: %s", op, ErrProvider, resp.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%s: %w: %s", op, ErrProvider, resp.Status)
	}

	var intent PaymentIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("%s: %w: empty client secret", op, ErrProvider)
	}
	return &intent, nil
}

func (c *Client) timeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return 10 * time.Second
}
