// Package mine реализует HTTP-обработчик списка статей текущего автора.
package mine

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler возвращает статьи автора во всех статусах.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки по автору.
type Service interface {
	ListByAuthor(ctx context.Context, email string) ([]*models.AuthorArticle, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои статьи
// @Tags Articles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /articles/mine [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.mine"
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

	res, err := h.service.ListByAuthor(r.Context(), identity.Email)
	if err != nil {
		log.Error("failed to list author articles", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"articles": res,
	}))
}
