// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов,
// прав администратора и ограничения частоты запросов.
//
// JWTMiddleware проверяет заголовок Authorization вида "Bearer <token>" и в
// случае успеха кладёт в контекст запроса личность владельца токена.
// Любая ошибка проверки даёт 401 до вызова обработчика.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey — ключ личности в контексте.
const IdentityKey Key = "identity"

// ErrMalformedHeader возвращается для заголовка не вида "Bearer <token>".
var ErrMalformedHeader = errors.New("malformed authorization header")

// TokenValidator проверяет токен и возвращает личность владельца.
type TokenValidator interface {
	ValidateToken(token string) (models.Identity, error)
}

// WithIdentity кладёт личность в контекст.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom достаёт личность из контекста.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(models.Identity)
	return id, ok && id.Email != ""
}

// BearerToken разбирает заголовок Authorization. Заголовок должен состоять
// ровно из двух частей: схемы Bearer и токена.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// JWTMiddleware возвращает HTTP middleware, который требует валидный bearer-токен.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, log, true)
}

// OptionalJWTMiddleware пропускает запрос без заголовка Authorization, но
// отклоняет присланный и невалидный токен.
func OptionalJWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return authenticate(validator, log, false)
}

func authenticate(validator TokenValidator, log *slog.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			header := r.Header.Get("Authorization")
			if header == "" && !required {
				next.ServeHTTP(w, r)
				return
			}

			token, err := BearerToken(header)
			if err != nil {
				log.Warn("missing or malformed authorization header")
				response.RenderStatus(w, r, http.StatusUnauthorized, response.KindUnauthorized, "unauthorized access")
				return
			}

			identity, err := validator.ValidateToken(token)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				response.RenderStatus(w, r, http.StatusUnauthorized, response.KindUnauthorized, "unauthorized access")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin пропускает только администраторов. Ставится после JWTMiddleware.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				response.RenderStatus(w, r, http.StatusUnauthorized, response.KindUnauthorized, "unauthorized access")
				return
			}
			if !identity.IsAdmin() {
				log.Warn("admin route denied",
					slog.String("email", identity.Email),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				response.RenderStatus(w, r, http.StatusForbidden, response.KindForbidden, "forbidden access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
