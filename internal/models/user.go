// Package models содержит доменные структуры сервиса: пользователей,
// статьи, издателей и тарифные планы подписки.
package models

import "time"

// Роли пользователя.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет читателя или автора платформы. Ключ записи — email.
type User struct {
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Photo        string     `json:"photo"`
	Role         string     `json:"role"`
	PremiumValid *time.Time `json:"premiumValid"` // nil — подписки нет или она истекла
}

// IsAdmin сообщает, обладает ли пользователь повышенными правами.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DummyUser принимает данные пользователя из JSON-запроса.
type DummyUser struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo" validate:"omitempty,url"`
}

// DummyClaim принимает утверждение о личности для выпуска токена.
type DummyClaim struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

// Identity — проверенная личность, извлечённая из bearer-токена.
type Identity struct {
	Email string
	Name  string
	Role  string
}

// IsAdmin сообщает, принадлежит ли личность администратору.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
