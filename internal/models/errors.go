package models

import "errors"

// Ошибки доменного уровня. Слои выше сравнивают их через errors.Is,
// а HTTP-слой отображает каждую в отдельный статус ответа.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation error")
	ErrUnavailable       = errors.New("service unavailable")
	ErrPremiumRequired   = errors.New("premium subscription required")
)
