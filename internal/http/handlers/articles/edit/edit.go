// Package edit реализует HTTP-обработчик правки статьи автором или администратором.
package edit

import (
	"context"
	"encoding/json"
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

// Handler обрабатывает запросы на правку статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс правки статьи.
type Service interface {
	Edit(ctx context.Context, editor models.Identity, id string, fields models.ArticleFields) (*models.Article, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Править статью
// @Description Передаются только изменяемые поля: title, image, publisher, tags, description.
// @Tags Articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID статьи"
// @Param request body models.ArticleFields true "Поля"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /articles/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.edit"
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

	var fields models.ArticleFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "invalid request body")
		return
	}

	a, err := h.service.Edit(r.Context(), identity, id, fields)
	if err != nil {
		log.Error("failed to edit article", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("article edited", slog.String("id", id), slog.String("by", identity.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": a,
	}))
}
