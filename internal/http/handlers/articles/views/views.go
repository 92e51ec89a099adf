// Package views реализует HTTP-обработчик счётчика просмотров.
package views

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
)

// Handler увеличивает счётчик просмотров статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс учёта просмотров.
type Service interface {
	IncrementView(ctx context.Context, id string) (int64, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Засчитать просмотр
// @Tags Articles
// @Produce json
// @Param id path string true "ID статьи"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /articles/{id}/views [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.views"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Warn("invalid article id", slog.String("id", id))
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "invalid article id")
		return
	}

	views, err := h.service.IncrementView(r.Context(), id)
	if err != nil {
		log.Error("failed to increment views", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"views": views,
	}))
}
