package models

import "github.com/shopspring/decimal"

// DummyPaymentIntent принимает цену, за которую пользователь оформляет подписку.
// Цена приходит числом или строкой, например 9.99 или "9.99".
type DummyPaymentIntent struct {
	Price decimal.Decimal `json:"price"`
}

// PaymentIntent — ответ платёжного провайдера для клиентского checkout.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}
