// Package status реализует HTTP-обработчик запроса состояния подписки.
//
// Истёкшая подписка сбрасывается при чтении, и ответ сразу приходит FREE.
package status

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

// Handler отдаёт состояние подписки владельца токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения состояния подписки.
type Service interface {
	GetEntitlementStatus(ctx context.Context, email string) (*models.Entitlement, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние подписки
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
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

	ent, err := h.service.GetEntitlementStatus(r.Context(), identity.Email)
	if err != nil {
		log.Error("failed to get entitlement", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if ent.Expired {
		log.Info("expired subscription cleared", slog.String("email", ent.Email))
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entitlement": ent,
	}))
}
