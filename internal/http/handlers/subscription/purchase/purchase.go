// Package purchase реализует HTTP-обработчик покупки тарифного плана.
//
// Покупка не суммируется с текущей подпиской: срок всегда отсчитывается
// от момента запроса.
package purchase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/http/response"
	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Handler обрабатывает покупку плана.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс покупки.
type Service interface {
	Purchase(ctx context.Context, caller models.Identity, email string, plan models.Plan) (*models.Entitlement, error)
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
// @Summary Купить подписку
// @Description Планы: trial, 30-day, 365-day.
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyPurchase true "Покупка"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестный план"
// @Failure 403 {object} response.ErrorResponse
// @Router /subscription/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"
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

	var req models.DummyPurchase
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

	ent, err := h.service.Purchase(r.Context(), identity, req.Email, models.Plan(req.Plan))
	if err != nil {
		log.Error("failed to purchase plan", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("plan purchased", slog.String("email", ent.Email), slog.String("plan", req.Plan))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entitlement": ent,
	}))
}
