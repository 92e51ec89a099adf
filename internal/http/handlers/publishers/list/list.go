// Package list реализует HTTP-обработчик справочника издателей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler отдаёт список издателей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения справочника.
type Service interface {
	ListPublishers(ctx context.Context) ([]*models.Publisher, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Издатели
// @Tags Publishers
// @Produce json
// @Success 200 {object} response.Response
// @Router /publishers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.publishers.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListPublishers(r.Context())
	if err != nil {
		log.Error("failed to list publishers", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"publishers": res,
	}))
}
