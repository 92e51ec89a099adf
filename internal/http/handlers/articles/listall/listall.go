// Package listall реализует HTTP-обработчик модераторской выборки всех статей.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/pagination"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

const defaultPageSize = 20

// Handler отдаёт статьи в любом статусе.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки всех статей.
type Service interface {
	ListAll(ctx context.Context, page, pageSize int) (*models.ArticlePage, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все статьи для модерации
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы, с 1"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.listall"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page, err := pagination.Parse(q.Get("page"), q.Get("pageSize"), defaultPageSize)
	if err != nil {
		log.Warn("invalid pagination", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	res, err := h.service.ListAll(r.Context(), page.Number, page.Size)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
