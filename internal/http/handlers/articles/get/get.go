// Package get реализует HTTP-обработчик чтения статьи по идентификатору.
//
// Токен необязателен: анонимный читатель видит только одобренные
// непремиальные статьи, автор и администратор видят свои и любые статьи
// соответственно, премиальная статья требует активной подписки.
package get

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

// Handler обрабатывает запросы на чтение статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения статьи.
type Service interface {
	Get(ctx context.Context, id string, viewer *models.Identity) (*models.Article, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статья по ID
// @Tags Articles
// @Produce json
// @Param id path string true "ID статьи"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Нужна подписка"
// @Failure 404 {object} response.ErrorResponse
// @Router /articles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.get"
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

	var viewer *models.Identity
	if identity, ok := middlewarectx.IdentityFrom(r.Context()); ok {
		viewer = &identity
	}

	a, err := h.service.Get(r.Context(), id, viewer)
	if err != nil {
		log.Info("article not served", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": a,
	}))
}
