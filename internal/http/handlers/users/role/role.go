// Package role реализует HTTP-обработчик выдачи роли администратора.
package role

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler назначает пользователю роль admin.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс повышения роли.
type Service interface {
	MakeAdmin(ctx context.Context, caller models.Identity, email string) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сделать пользователя администратором
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email пользователя"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{email}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.role"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		response.RenderError(w, r, models.ErrUnauthorized)
		return
	}

	email := chi.URLParam(r, "email")
	if email == "" {
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "email is required")
		return
	}

	user, err := h.service.MakeAdmin(r.Context(), identity, email)
	if err != nil {
		log.Error("failed to make admin", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("role granted", slog.String("email", user.Email), slog.String("by", identity.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
