package models

import "time"

// ArticleStatus — статус модерации статьи.
type ArticleStatus string

// Статусы модерации.
const (
	StatusPending  ArticleStatus = "pending"
	StatusApproved ArticleStatus = "approved"
	StatusRejected ArticleStatus = "rejected"
)

// Valid сообщает, является ли статус одним из известных.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Article — основная модель статьи.
type Article struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Image       string        `json:"image"`
	Publisher   string        `json:"publisher"`
	Tags        []string      `json:"tags"`
	Description string        `json:"description"`
	Views       int64         `json:"views"`
	AuthorName  string        `json:"author_name"`
	AuthorEmail string        `json:"author_email"`
	AuthorPhoto string        `json:"author_photo"`
	Date        time.Time     `json:"date"`
	Status      ArticleStatus `json:"status"`
	IsPremium   bool          `json:"isPremium"`
	Feedback    *string       `json:"feedback"`
}

// OwnedBy сообщает, является ли email автором статьи.
func (a *Article) OwnedBy(email string) bool {
	return a != nil && email != "" && a.AuthorEmail == email
}

// AuthorArticle — проекция статьи для списка «мои статьи».
type AuthorArticle struct {
	Title     string        `json:"title"`
	IsPremium bool          `json:"isPremium"`
	Status    ArticleStatus `json:"status"`
	Feedback  *string       `json:"feedback"`
}

// DummyArticle принимает данные статьи из JSON-запроса при создании.
type DummyArticle struct {
	Title       string   `json:"title" validate:"required"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Publisher   string   `json:"publisher"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	AuthorPhoto string   `json:"author_photo" validate:"omitempty,url"`
}

// ArticleFields — набор редактируемых полей. nil означает «не менять».
type ArticleFields struct {
	Title       *string   `json:"title"`
	Image       *string   `json:"image"`
	Publisher   *string   `json:"publisher"`
	Tags        *[]string `json:"tags"`
	Description *string   `json:"description"`
}

// Empty сообщает, что ни одно поле не задано.
func (f ArticleFields) Empty() bool {
	return f.Title == nil && f.Image == nil && f.Publisher == nil && f.Tags == nil && f.Description == nil
}

// Moderation — решение модератора по статье.
type Moderation struct {
	Status   ArticleStatus `json:"status" validate:"required"`
	Feedback string        `json:"feedback"`
}

// ArticlePage — страница статей и общее число подходящих записей.
type ArticlePage struct {
	Articles   []*Article `json:"articles"`
	TotalCount int        `json:"totalCount"`
}
