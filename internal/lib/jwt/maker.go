// Package jwt реализует выпуск и проверку подписанных bearer-токенов.
//
// Maker подписывает утверждение о личности (email, имя, роль) секретом сервера
// и выставляет срок жизни токена; ParseToken проверяет подпись и срок.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и проверки bearer-токенов.
type Maker interface {
	// GenerateToken подписывает утверждение о личности.
	GenerateToken(claim IdentityClaim) (string, error)
	// ParseToken проверяет токен и возвращает подписанное утверждение.
	ParseToken(tokenStr string) (*IdentityClaim, error)
}

// MakerImpl реализует Maker на HMAC-SHA256 с общим секретом.
type MakerImpl struct {
	secretKey string           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена.
	now       func() time.Time // Источник текущего времени.
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) *MakerImpl {
	m := &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
