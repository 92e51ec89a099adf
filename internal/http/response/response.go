// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешных ответов, ошибок
// доменного уровня и сообщений валидации.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Kind — машинно-читаемый вид ошибки.
// Поле Data — данные ответа (при успехе).
type Response struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Kind   string `json:"kind" example:"not_found"`
	Error  string `json:"error" example:"not found"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Виды ошибок в теле ответа.
const (
	KindUnauthorized      = "unauthorized"
	KindForbidden         = "forbidden"
	KindPremiumRequired   = "premium_required"
	KindNotFound          = "not_found"
	KindInvalidArgument   = "invalid_argument"
	KindInvalidTransition = "invalid_transition"
	KindValidation        = "validation"
	KindUnavailable       = "unavailable"
	KindRateLimited       = "rate_limited"
	KindInternal          = "internal"
)

type mapping struct {
	target error
	status int
	kind   string
}

var mappings = []mapping{
	{models.ErrUnauthorized, http.StatusUnauthorized, KindUnauthorized},
	{models.ErrPremiumRequired, http.StatusForbidden, KindPremiumRequired},
	{models.ErrForbidden, http.StatusForbidden, KindForbidden},
	{models.ErrNotFound, http.StatusNotFound, KindNotFound},
	{models.ErrInvalidArgument, http.StatusBadRequest, KindInvalidArgument},
	{models.ErrInvalidTransition, http.StatusConflict, KindInvalidTransition},
	{models.ErrValidation, http.StatusUnprocessableEntity, KindValidation},
	{models.ErrUnavailable, http.StatusServiceUnavailable, KindUnavailable},
}

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ErrorResponse с видом kind и сообщением msg.
func Error(kind, msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Kind:   kind,
		Error:  msg,
	}
}

// FromError подбирает HTTP-статус и тело ответа для доменной ошибки.
// Неизвестные ошибки отдаются как 500 без подробностей.
func FromError(err error) (int, ErrorResponse) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, Error(m.kind, m.target.Error())
		}
	}
	return http.StatusInternalServerError, Error(KindInternal, "internal error")
}

// RenderError пишет ответ с ошибкой err.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, body)
}

// RenderStatus пишет ошибку с явно заданными статусом и видом.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(kind, msg))
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(KindValidation, strings.Join(errsMsgs, ", "))
}

// RenderValidation пишет 422 для ошибки валидатора; другие ошибки
// валидатора (например, неверный тип аргумента) считаются внутренними.
func RenderValidation(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ValidationError(verrs))
		return
	}
	RenderError(w, r, err)
}
