package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

const articleColumns = `id::text, title, image, publisher, tags, description, views,
	author_name, author_email, author_photo, created_at, status, is_premium, feedback`

func (s *Storage) scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	var (
		a        models.Article
		status   string
		feedback sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Image, &a.Publisher, s.types.SQLScanner(&a.Tags), &a.Description,
		&a.Views, &a.AuthorName, &a.AuthorEmail, &a.AuthorPhoto, &a.Date, &status, &a.IsPremium, &feedback); err != nil {
		return nil, err
	}
	a.Status = models.ArticleStatus(status)
	a.Date = a.Date.UTC()
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if feedback.Valid {
		f := feedback.String
		a.Feedback = &f
	}
	return &a, nil
}

// CreateArticle сохраняет новую статью. id и дата создания назначаются базой.
func (s *Storage) CreateArticle(ctx context.Context, a models.Article) (*models.Article, error) {
	const op = "storage.CreateArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	status := a.Status
	if status == "" {
		status = models.StatusPending
	}
	query := `INSERT INTO articles (title, image, publisher, tags, description,
			      author_name, author_email, author_photo, status, is_premium)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + articleColumns
	created, err := s.scanArticle(s.DB.QueryRowContext(ctx, query,
		a.Title, a.Image, a.Publisher, tags, a.Description,
		a.AuthorName, a.AuthorEmail, a.AuthorPhoto, string(status), a.IsPremium))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return created, nil
}

// GetArticle возвращает статью по id.
func (s *Storage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.GetArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	a, err := s.scanArticle(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return a, nil
}

// UpdateArticle меняет заданные поля статьи. Незаданные поля остаются прежними.
// При lockApproved одобренная статья не меняется: условие проверяется той же
// командой UPDATE, поэтому одобрение между чтением и записью не пропускается.
func (s *Storage) UpdateArticle(ctx context.Context, id string, fields models.ArticleFields, lockApproved bool) (*models.Article, error) {
	const op = "storage.UpdateArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var tags any
	if fields.Tags != nil {
		t := *fields.Tags
		if t == nil {
			t = []string{}
		}
		tags = t
	}
	query := `UPDATE articles SET
			      title = COALESCE($2, title),
			      image = COALESCE($3, image),
			      publisher = COALESCE($4, publisher),
			      tags = COALESCE($5::text[], tags),
			      description = COALESCE($6, description)
			  WHERE id = $1 AND (NOT $7 OR status <> 'approved')
			  RETURNING ` + articleColumns
	a, err := s.scanArticle(s.DB.QueryRowContext(ctx, query, id,
		nullString(fields.Title), nullString(fields.Image), nullString(fields.Publisher),
		tags, nullString(fields.Description), lockApproved))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr(op, err)
	}

	if _, err := s.GetArticle(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nil, fmt.Errorf("%s: approved article is locked: %w", op, models.ErrForbidden)
}

// ModerateArticle переводит статью из pending в status. Переход выполняется
// одной командой с условием status = 'pending', поэтому повторная модерация
// невозможна даже при гонке.
func (s *Storage) ModerateArticle(ctx context.Context, id string, status models.ArticleStatus, feedback *string) (*models.Article, error) {
	const op = "storage.ModerateArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE articles SET status = $2, feedback = $3
			  WHERE id = $1 AND status = 'pending'
			  RETURNING ` + articleColumns
	a, err := s.scanArticle(s.DB.QueryRowContext(ctx, query, id, string(status), nullString(feedback)))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr(op, err)
	}

	current, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nil, fmt.Errorf("%s: %w: article is %s", op, models.ErrInvalidTransition, current.Status)
}

// SetPremium выставляет флаг премиального доступа.
func (s *Storage) SetPremium(ctx context.Context, id string, premium bool) (*models.Article, error) {
	const op = "storage.SetPremium"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE articles SET is_premium = $2 WHERE id = $1 RETURNING ` + articleColumns
	a, err := s.scanArticle(s.DB.QueryRowContext(ctx, query, id, premium))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return a, nil
}

// IncrementViews атомарно увеличивает счётчик просмотров на 1 и возвращает новое значение.
func (s *Storage) IncrementViews(ctx context.Context, id string) (int64, error) {
	const op = "storage.IncrementViews"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var views int64
	query := `UPDATE articles SET views = views + 1 WHERE id = $1 RETURNING views`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&views); err != nil {
		return 0, wrapErr(op, err)
	}
	return views, nil
}

// DeleteArticle удаляет статью и возвращает количество удалённых строк.
func (s *Storage) DeleteArticle(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteArticle"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return int(rowsAffected), nil
}

const articleFilterClause = `WHERE ($1::text IS NULL OR status = $1::text)
			    AND ($2::text = '' OR publisher = $2::text)
			    AND ($3::text = '' OR $3::text = ANY(tags))`

func filterArgs(f models.ArticleFilter) []any {
	var status any
	if f.Status != nil {
		status = string(*f.Status)
	}
	return []any{status, f.Publisher, f.Tag}
}

// ListArticles возвращает страницу статей по фильтру, новые первыми.
func (s *Storage) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + articleColumns + ` FROM articles ` + articleFilterClause + `
			  ORDER BY created_at DESC, id
			  LIMIT $4 OFFSET $5`
	args := append(filterArgs(filter), filter.Limit, filter.Offset)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	result := make([]*models.Article, 0, filter.Limit)
	for rows.Next() {
		a, err := s.scanArticle(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// CountArticles считает статьи по тому же фильтру, что и ListArticles, без учёта пагинации.
func (s *Storage) CountArticles(ctx context.Context, filter models.ArticleFilter) (int, error) {
	const op = "storage.CountArticles"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM articles ` + articleFilterClause
	if err := s.DB.QueryRowContext(ctx, query, filterArgs(filter)...).Scan(&count); err != nil {
		return 0, wrapErr(op, err)
	}
	return count, nil
}

// ListByAuthor возвращает все статьи автора в любом статусе в урезанной проекции.
func (s *Storage) ListByAuthor(ctx context.Context, email string) ([]*models.AuthorArticle, error) {
	const op = "storage.ListByAuthor"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT title, is_premium, status, feedback
			  FROM articles
			  WHERE author_email = $1
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	result := []*models.AuthorArticle{}
	for rows.Next() {
		var (
			item     models.AuthorArticle
			status   string
			feedback sql.NullString
		)
		if err := rows.Scan(&item.Title, &item.IsPremium, &status, &feedback); err != nil {
			return nil, wrapErr(op, err)
		}
		item.Status = models.ArticleStatus(status)
		if feedback.Valid {
			f := feedback.String
			item.Feedback = &f
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
