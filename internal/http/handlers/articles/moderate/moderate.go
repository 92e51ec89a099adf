// Package moderate реализует HTTP-обработчик решения модератора по статье.
//
// Решение принимается только для статьи в статусе pending; повторная
// модерация возвращает 409.
package moderate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Request — тело запроса модерации.
type Request struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Feedback string `json:"feedback"`
}

// Handler обрабатывает решения модератора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс модерации.
type Service interface {
	Moderate(ctx context.Context, id string, decision models.Moderation) (*models.Article, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Одобрить или отклонить статью
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID статьи"
// @Param request body Request true "Решение"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Отказ без отзыва"
// @Failure 409 {object} response.ErrorResponse "Статья уже прошла модерацию"
// @Router /admin/articles/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.moderate"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		response.RenderValidation(w, r, err)
		return
	}

	a, err := h.service.Moderate(r.Context(), id, models.Moderation{
		Status:   models.ArticleStatus(req.Status),
		Feedback: req.Feedback,
	})
	if err != nil {
		log.Error("failed to moderate article", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("article moderated", slog.String("id", id), slog.String("status", string(a.Status)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": a,
	}))
}
