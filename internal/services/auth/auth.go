// Package auth содержит логику выпуска токенов и управления пользователями.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/newsroom/internal/lib/jwt"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя; для существующего email возвращает прежнюю запись.
	CreateUser(ctx context.Context, user models.User) (*models.User, bool, error)
	// GetUser возвращает пользователя по email.
	GetUser(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error)
	SetRole(ctx context.Context, email, role string) (*models.User, error)
}

// AuthService выпускает и проверяет токены, ведёт учётные записи.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// IssueToken подписывает утверждение о личности. Роль берётся из записи
// пользователя; неизвестный пользователь получает роль user.
func (s *AuthService) IssueToken(ctx context.Context, claim models.DummyClaim) (string, error) {
	const op = "auth.IssueToken"

	email := strings.TrimSpace(claim.Email)
	if email == "" {
		return "", fmt.Errorf("%s: email is required: %w", op, models.ErrValidation)
	}

	identity := jwt.IdentityClaim{Email: email, Name: claim.Name, Role: models.RoleUser}
	user, err := s.users.GetUser(ctx, email)
	switch {
	case err == nil:
		identity.Role = user.Role
		if identity.Name == "" {
			identity.Name = user.Name
		}
	case errors.Is(err, models.ErrNotFound):
		s.log.Debug("issuing token for unknown user", slog.String("email", email))
	default:
		return "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(identity)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken проверяет токен и возвращает личность владельца.
func (s *AuthService) ValidateToken(token string) (models.Identity, error) {
	const op = "auth.ValidateToken"
	claim, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
	}
	if claim.Email == "" {
		return models.Identity{}, fmt.Errorf("%s: token has no subject: %w", op, models.ErrUnauthorized)
	}
	return models.Identity{Email: claim.Email, Name: claim.Name, Role: claim.Role}, nil
}

// CreateUser регистрирует пользователя при первом входе. Повторный вызов
// с тем же email возвращает существующую запись и created=false.
func (s *AuthService) CreateUser(ctx context.Context, req models.DummyUser) (*models.User, bool, error) {
	const op = "auth.CreateUser"
	user, created, err := s.users.CreateUser(ctx, models.User{
		Email: strings.TrimSpace(req.Email),
		Name:  req.Name,
		Photo: req.Photo,
		Role:  models.RoleUser,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if created {
		s.log.Info("user created", slog.String("email", user.Email))
	}
	return user, created, nil
}

// GetUser возвращает запись пользователя.
func (s *AuthService) GetUser(ctx context.Context, email string) (*models.User, error) {
	const op = "auth.GetUser"
	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет имя и фото. Менять можно только свой профиль,
// администратор может менять любой.
func (s *AuthService) UpdateProfile(ctx context.Context, caller models.Identity, req models.DummyUser) (*models.User, error) {
	const op = "auth.UpdateProfile"
	if caller.Email != req.Email && !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	user, err := s.users.UpdateProfile(ctx, req.Email, req.Name, req.Photo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// MakeAdmin повышает пользователя до администратора.
func (s *AuthService) MakeAdmin(ctx context.Context, caller models.Identity, email string) (*models.User, error) {
	const op = "auth.MakeAdmin"
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	user, err := s.users.SetRole(ctx, email, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user promoted to admin",
		slog.String("email", email),
		slog.String("by", caller.Email),
	)
	return user, nil
}

