// Package list реализует HTTP-обработчик публичной ленты одобренных статей.
//
// Номер страницы и её размер приходят в query-параметрах page и pageSize,
// необязательные publisher и tag сужают выборку.
package list

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

// DefaultPageSize используется, когда pageSize не передан.
const DefaultPageSize = 10

// Handler обрабатывает запросы ленты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки одобренных статей.
type Service interface {
	ListApproved(ctx context.Context, page, pageSize int, publisher, tag string) (*models.ArticlePage, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лента одобренных статей
// @Tags Articles
// @Produce json
// @Param page query int false "Номер страницы, с 1"
// @Param pageSize query int false "Размер страницы"
// @Param publisher query string false "Издатель"
// @Param tag query string false "Тег"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.articles.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page, err := pagination.Parse(q.Get("page"), q.Get("pageSize"), DefaultPageSize)
	if err != nil {
		log.Warn("invalid pagination", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	res, err := h.service.ListApproved(r.Context(), page.Number, page.Size, q.Get("publisher"), q.Get("tag"))
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Debug("articles listed", slog.Int("count", len(res.Articles)), slog.Int("total", res.TotalCount))
	render.JSON(w, r, response.StatusOKWithData(res))
}
