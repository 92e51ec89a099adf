// Package article реализует жизненный цикл статьи (создание, модерация,
// редактирование, просмотры, удаление) и постраничные выборки.
package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/metrics"
	"github.com/magabrotheeeer/newsroom/internal/models"
	"github.com/magabrotheeeer/newsroom/internal/rabbitmq"
)

// Repository определяет методы хранилища статей.
type Repository interface {
	CreateArticle(ctx context.Context, a models.Article) (*models.Article, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, fields models.ArticleFields, lockApproved bool) (*models.Article, error)
	// ModerateArticle переводит статью из pending; иначе ErrInvalidTransition.
	ModerateArticle(ctx context.Context, id string, status models.ArticleStatus, feedback *string) (*models.Article, error)
	SetPremium(ctx context.Context, id string, premium bool) (*models.Article, error)
	// IncrementViews атомарно увеличивает счётчик на единицу.
	IncrementViews(ctx context.Context, id string) (int64, error)
	DeleteArticle(ctx context.Context, id string) (int, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	CountArticles(ctx context.Context, filter models.ArticleFilter) (int, error)
	ListByAuthor(ctx context.Context, email string) ([]*models.AuthorArticle, error)
	ListPublishers(ctx context.Context) ([]*models.Publisher, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Entitlements сообщает состояние подписки читателя.
type Entitlements interface {
	GetEntitlementStatus(ctx context.Context, email string) (*models.Entitlement, error)
}

// EventPublisher отправляет доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// ArticleService реализует бизнес-логику статей.
type ArticleService struct {
	repo         Repository
	cache        Cache
	cacheTTL     time.Duration
	entitlements Entitlements
	events       EventPublisher
	metrics      *metrics.Metrics
	log          *slog.Logger
	now          func() time.Time
}

// Deps — зависимости ArticleService. Cache, Events, Metrics и Now необязательны.
type Deps struct {
	Repo         Repository
	Cache        Cache
	CacheTTL     time.Duration
	Entitlements Entitlements
	Events       EventPublisher
	Metrics      *metrics.Metrics
	Log          *slog.Logger
	Now          func() time.Time
}

// DefaultCacheTTL ограничивает, насколько долго кеш может отставать от базы,
// если чтение с промахом записало старую копию после инвалидации.
const DefaultCacheTTL = 30 * time.Second

// NewArticleService создает новый экземпляр ArticleService.
func NewArticleService(d Deps) *ArticleService {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &ArticleService{
		repo:         d.Repo,
		cache:        d.Cache,
		cacheTTL:     ttl,
		entitlements: d.Entitlements,
		events:       d.Events,
		metrics:      d.Metrics,
		log:          d.Log,
		now:          now,
	}
}

func cacheKey(id string) string {
	return "article:" + id
}

// Submit создаёт статью от имени автора. Статья всегда начинает в статусе
// pending с нулём просмотров и без премиального флага.
func (s *ArticleService) Submit(ctx context.Context, author models.Identity, req models.DummyArticle) (*models.Article, error) {
	const op = "article.Submit"

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: title is required: %w", op, models.ErrValidation)
	}
	if strings.TrimSpace(author.Email) == "" {
		return nil, fmt.Errorf("%s: author identity is required: %w", op, models.ErrValidation)
	}

	created, err := s.repo.CreateArticle(ctx, models.Article{
		Title:       title,
		Image:       req.Image,
		Publisher:   req.Publisher,
		Tags:        normalizeTags(req.Tags),
		Description: req.Description,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		AuthorPhoto: req.AuthorPhoto,
		Status:      models.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.metrics != nil {
		s.metrics.ArticlesCreated.Inc()
	}
	s.log.Info("article submitted", slog.String("id", created.ID), slog.String("author", author.Email))
	return created, nil
}

// Get возвращает статью. Статья не в статусе approved видна только автору и
// администратору. Премиальная статья выдаётся администратору, автору или
// читателю с активной подпиской.
func (s *ArticleService) Get(ctx context.Context, id string, viewer *models.Identity) (*models.Article, error) {
	const op = "article.Get"

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	privileged := viewer != nil && (viewer.IsAdmin() || a.OwnedBy(viewer.Email))
	if a.Status != models.StatusApproved && !privileged {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if !a.IsPremium || privileged {
		return a, nil
	}
	if viewer == nil || s.entitlements == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPremiumRequired)
	}

	ent, err := s.entitlements.GetEntitlementStatus(ctx, viewer.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPremiumRequired)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ent.State != models.StateActive {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPremiumRequired)
	}
	return a, nil
}

// load читает статью через кеш. Ошибки кеша не прерывают запрос.
func (s *ArticleService) load(ctx context.Context, id string) (*models.Article, error) {
	key := cacheKey(id)
	if s.cache != nil {
		var cached models.Article
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read article from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	a, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, a, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache article", slog.String("key", key), sl.Err(err))
		}
	}
	return a, nil
}

func (s *ArticleService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate article cache", slog.String("id", id), sl.Err(err))
	}
}

// Moderate переводит статью pending → approved или pending → rejected.
// Отзыв сохраняется только при отклонении.
func (s *ArticleService) Moderate(ctx context.Context, id string, decision models.Moderation) (*models.Article, error) {
	const op = "article.Moderate"

	var feedback *string
	switch decision.Status {
	case models.StatusApproved:
	case models.StatusRejected:
		f := strings.TrimSpace(decision.Feedback)
		if f == "" {
			return nil, fmt.Errorf("%s: rejection requires feedback: %w", op, models.ErrValidation)
		}
		feedback = &f
	default:
		return nil, fmt.Errorf("%s: decision must be approved or rejected, got %q: %w",
			op, decision.Status, models.ErrInvalidArgument)
	}

	a, err := s.repo.ModerateArticle(ctx, id, decision.Status, feedback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)

	if s.metrics != nil {
		s.metrics.Moderations.WithLabelValues(string(a.Status)).Inc()
	}
	s.log.Info("article moderated", slog.String("id", id), slog.String("status", string(a.Status)))
	s.publish(ctx, rabbitmq.RoutingArticleModerated, models.ArticleModerated{
		ArticleID:   a.ID,
		AuthorEmail: a.AuthorEmail,
		Status:      a.Status,
		Feedback:    a.Feedback,
		At:          s.now().UTC(),
	})
	return a, nil
}

// Edit меняет заголовок, издателя, теги, картинку или описание. Править
// может автор, пока статья не одобрена, и администратор в любом статусе.
func (s *ArticleService) Edit(ctx context.Context, editor models.Identity, id string, fields models.ArticleFields) (*models.Article, error) {
	const op = "article.Edit"

	if fields.Empty() {
		return nil, fmt.Errorf("%s: nothing to update: %w", op, models.ErrValidation)
	}
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, fmt.Errorf("%s: title must not be empty: %w", op, models.ErrValidation)
		}
		fields.Title = &title
	}
	if fields.Tags != nil {
		tags := normalizeTags(*fields.Tags)
		fields.Tags = &tags
	}

	current, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !editor.IsAdmin() {
		if !current.OwnedBy(editor.Email) {
			return nil, fmt.Errorf("%s: not the author: %w", op, models.ErrForbidden)
		}
		if current.Status == models.StatusApproved {
			return nil, fmt.Errorf("%s: approved article is locked for the author: %w", op, models.ErrForbidden)
		}
	}

	updated, err := s.repo.UpdateArticle(ctx, id, fields, !editor.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// IncrementView увеличивает счётчик просмотров на единицу и возвращает новое значение.
func (s *ArticleService) IncrementView(ctx context.Context, id string) (int64, error) {
	const op = "article.IncrementView"

	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	if s.metrics != nil {
		s.metrics.ArticleViews.Inc()
	}
	return views, nil
}

// Remove удаляет статью. Удаление отсутствующей статьи не ошибка: возвращается 0.
func (s *ArticleService) Remove(ctx context.Context, editor models.Identity, id string) (int, error) {
	const op = "article.Remove"

	current, err := s.repo.GetArticle(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !editor.IsAdmin() && !current.OwnedBy(editor.Email) {
		return 0, fmt.Errorf("%s: not the author: %w", op, models.ErrForbidden)
	}

	deleted, err := s.repo.DeleteArticle(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	s.log.Info("article removed", slog.String("id", id), slog.String("by", editor.Email))
	return deleted, nil
}

// SetPremium выставляет флаг премиального доступа.
func (s *ArticleService) SetPremium(ctx context.Context, id string, premium bool) (*models.Article, error) {
	const op = "article.SetPremium"

	a, err := s.repo.SetPremium(ctx, id, premium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return a, nil
}

func (s *ArticleService) publish(ctx context.Context, key string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}

// normalizeTags убирает пустые и повторяющиеся теги, сохраняя порядок.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
