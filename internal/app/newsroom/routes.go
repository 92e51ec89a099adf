// Package newsroom собирает HTTP-приложение: зависимости, маршруты и сервер.
package newsroom

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/newsroom/internal/config"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/edit"
	articleget "github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/get"
	articlelist "github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/list"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/listall"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/mine"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/moderate"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/premium"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/remove"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/submit"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/articles/views"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/health"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/payment/intent"
	publisherlist "github.com/magabrotheeeer/newsroom/internal/http/handlers/publishers/list"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/subscription/status"
	usercreate "github.com/magabrotheeeer/newsroom/internal/http/handlers/users/create"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/users/me"
	"github.com/magabrotheeeer/newsroom/internal/http/handlers/users/role"
	userupdate "github.com/magabrotheeeer/newsroom/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/metrics"
)

// AuthService — операции с токенами и пользователями.
type AuthService interface {
	middlewarectx.TokenValidator
	token.Service
	usercreate.Service
	me.Service
	userupdate.Service
	role.Service
}

// ArticleService — жизненный цикл статей, выборки и справочник издателей.
type ArticleService interface {
	articlelist.Service
	listall.Service
	articleget.Service
	views.Service
	mine.Service
	submit.Service
	edit.Service
	remove.Service
	moderate.Service
	premium.Service
	publisherlist.Service
}

// SubscriptionService — покупка и состояние подписки.
type SubscriptionService interface {
	purchase.Service
	status.Service
}

// Services — бизнес-логика, которую обслуживают маршруты.
type Services struct {
	Auth         AuthService
	Articles     ArticleService
	Subscription SubscriptionService
	Payment      intent.Service
}

// RouterOptions — инфраструктура вокруг маршрутов. Все поля необязательны.
type RouterOptions struct {
	RateLimit config.RateLimit
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Health    map[string]health.Pinger
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(logger *slog.Logger, svc Services, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	requireAuth := middlewarectx.JWTMiddleware(svc.Auth, logger)
	optionalAuth := middlewarectx.OptionalJWTMiddleware(svc.Auth, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/jwt", token.New(logger, svc.Auth).ServeHTTP)
		r.Post("/users", usercreate.New(logger, svc.Auth).ServeHTTP)
		r.Get("/publishers", publisherlist.New(logger, svc.Articles).ServeHTTP)
		r.Get("/articles", articlelist.New(logger, svc.Articles).ServeHTTP)
		r.With(optionalAuth).Get("/articles/{id}", articleget.New(logger, svc.Articles).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(logger, opts.RateLimit.RPS, opts.RateLimit.Burst)).
			Patch("/articles/{id}/views", views.New(logger, svc.Articles).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/users/me", me.New(logger, svc.Auth).ServeHTTP)
			r.Put("/users", userupdate.New(logger, svc.Auth).ServeHTTP)

			r.Get("/articles/mine", mine.New(logger, svc.Articles).ServeHTTP)
			r.Post("/articles", submit.New(logger, svc.Articles).ServeHTTP)
			r.Put("/articles/{id}", edit.New(logger, svc.Articles).ServeHTTP)
			r.Delete("/articles/{id}", remove.New(logger, svc.Articles).ServeHTTP)

			r.Post("/subscription/purchase", purchase.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/subscription/status", status.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/payments/intent", intent.New(logger, svc.Payment).ServeHTTP)
		})

		// Модерация
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, middlewarectx.RequireAdmin(logger))
			r.Get("/articles", listall.New(logger, svc.Articles).ServeHTTP)
			r.Put("/articles/{id}/status", moderate.New(logger, svc.Articles).ServeHTTP)
			r.Put("/articles/{id}/premium", premium.New(logger, svc.Articles).ServeHTTP)
			r.Put("/users/{email}/role", role.New(logger, svc.Auth).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, opts.Health).ServeHTTP)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
