package article

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/newsroom/internal/lib/pagination"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// ListApproved возвращает страницу одобренных статей. totalCount считает
// только одобренные статьи с теми же фильтрами.
func (s *ArticleService) ListApproved(ctx context.Context, page, pageSize int, publisher, tag string) (*models.ArticlePage, error) {
	const op = "article.ListApproved"

	p, err := pagination.New(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	approved := models.StatusApproved
	filter := models.ArticleFilter{
		Status:    &approved,
		Publisher: publisher,
		Tag:       tag,
		Limit:     p.Limit(),
		Offset:    p.Offset(),
	}
	result, err := s.list(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAll возвращает страницу статей в любом статусе (для модератора).
func (s *ArticleService) ListAll(ctx context.Context, page, pageSize int) (*models.ArticlePage, error) {
	const op = "article.ListAll"

	p, err := pagination.New(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := s.list(ctx, models.ArticleFilter{Limit: p.Limit(), Offset: p.Offset()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *ArticleService) list(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	articles, err := s.repo.ListArticles(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountArticles(ctx, filter)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	return &models.ArticlePage{Articles: articles, TotalCount: count}, nil
}

// ListByAuthor возвращает все статьи автора в проекции {title, isPremium, status, feedback}.
func (s *ArticleService) ListByAuthor(ctx context.Context, email string) ([]*models.AuthorArticle, error) {
	const op = "article.ListByAuthor"

	items, err := s.repo.ListByAuthor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []*models.AuthorArticle{}
	}
	return items, nil
}

// ListPublishers возвращает справочник издателей.
func (s *ArticleService) ListPublishers(ctx context.Context) ([]*models.Publisher, error) {
	const op = "article.ListPublishers"

	publishers, err := s.repo.ListPublishers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return publishers, nil
}
