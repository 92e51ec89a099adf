// Package intent реализует HTTP-обработчик создания намерения оплаты.
//
// Handler передаёт цену платёжному провайдеру и возвращает client secret,
// с которым клиент завершает оплату на своей стороне.
package intent

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler обрабатывает запросы на создание намерения оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс создания намерения оплаты.
type Service interface {
	CreatePaymentIntent(ctx context.Context, payer models.Identity, req models.DummyPaymentIntent) (*models.PaymentIntent, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать намерение оплаты
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyPaymentIntent true "Цена"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /payments/intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.intent"
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

	var req models.DummyPaymentIntent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.KindInvalidArgument, "invalid request body")
		return
	}

	res, err := h.service.CreatePaymentIntent(r.Context(), identity, req)
	if err != nil {
		log.Error("failed to create payment intent", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
