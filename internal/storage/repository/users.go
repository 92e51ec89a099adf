package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

const userColumns = `email, name, photo, role, premium_valid`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u            models.User
		premiumValid sql.NullTime
	)
	if err := row.Scan(&u.Email, &u.Name, &u.Photo, &u.Role, &premiumValid); err != nil {
		return nil, err
	}
	if premiumValid.Valid {
		t := premiumValid.Time
		u.PremiumValid = &t
	}
	return &u, nil
}

// CreateUser сохраняет пользователя. Если email уже занят, возвращает
// существующую запись и created=false.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, bool, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, false, err
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	query := `INSERT INTO users (email, name, photo, role)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query, user.Email, user.Name, user.Photo, role))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, wrapErr(op, err)
	}

	existing, err := s.GetUser(ctx, user.Email)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return existing, false, nil
}

// GetUser возвращает пользователя по email.
func (s *Storage) GetUser(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// UpdateProfile меняет имя и фото пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET name = $2, photo = $3
			  WHERE email = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email, name, photo))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// SetRole выставляет роль пользователя.
func (s *Storage) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	const op = "storage.SetRole"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET role = $2 WHERE email = $1 RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email, role))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// SetPremiumValid перезаписывает срок действия подписки. Предыдущее значение не учитывается.
func (s *Storage) SetPremiumValid(ctx context.Context, email string, until time.Time) (*models.User, error) {
	const op = "storage.SetPremiumValid"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET premium_valid = $2 WHERE email = $1 RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email, until.UTC()))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// ClearExpiredPremium сбрасывает premium_valid, только если срок не позже now.
// Возвращает true, если запись была изменена. Параллельная покупка, успевшая
// записать новый срок, не затирается.
func (s *Storage) ClearExpiredPremium(ctx context.Context, email string, now time.Time) (bool, error) {
	const op = "storage.ClearExpiredPremium"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `UPDATE users SET premium_valid = NULL
			  WHERE email = $1 AND premium_valid IS NOT NULL AND premium_valid <= $2`
	result, err := s.DB.ExecContext(ctx, query, email, now.UTC())
	if err != nil {
		return false, wrapErr(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, wrapErr(op, err)
	}
	return n > 0, nil
}
