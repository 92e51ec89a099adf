package models

import "time"

// Plan — код тарифного плана, который покупает пользователь.
type Plan string

// Известные тарифные планы.
const (
	PlanTrial Plan = "trial"
	PlanMonth Plan = "30-day"
	PlanYear  Plan = "365-day"
)

var planDurations = map[Plan]time.Duration{
	PlanTrial: time.Minute,
	PlanMonth: 30 * 24 * time.Hour,
	PlanYear:  365 * 24 * time.Hour,
}

// Duration возвращает длительность плана и false, если код плана неизвестен.
func (p Plan) Duration() (time.Duration, bool) {
	d, ok := planDurations[p]
	return d, ok
}

// EntitlementState — состояние подписки пользователя.
type EntitlementState string

// Состояния подписки.
const (
	StateFree   EntitlementState = "FREE"
	StateActive EntitlementState = "ACTIVE"
)

// Entitlement описывает результат покупки или запроса статуса подписки.
type Entitlement struct {
	Email        string           `json:"email"`
	State        EntitlementState `json:"state"`
	PremiumValid *time.Time       `json:"premiumValid"`
	// Expired выставляется, когда при чтении истёкшая подписка была сброшена.
	Expired bool `json:"expired,omitempty"`
}

// DummyPurchase принимает запрос на покупку плана.
type DummyPurchase struct {
	Email string `json:"email" validate:"required,email"`
	Plan  string `json:"plan" validate:"required"`
}
