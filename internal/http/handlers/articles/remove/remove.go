// Package remove реализует HTTP-обработчик удаления статьи.
//
// Удаление идемпотентно: для уже удалённой статьи возвращается deleted = 0.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler обрабатывает запросы на удаление статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления статьи.
type Service interface {
	Remove(ctx context.Context, editor models.Identity, id string) (int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить статью
// @Tags Articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID статьи"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /articles/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.remove"
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

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Warn("invalid article id", slog.String("id", id))
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "invalid article id")
		return
	}

	deleted, err := h.service.Remove(r.Context(), identity, id)
	if err != nil {
		log.Error("failed to remove article", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": deleted,
	}))
}
