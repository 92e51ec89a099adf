// Package pagination переводит номер страницы, который присылает клиент,
// в limit/offset для слоя хранения.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

// MaxPageSize ограничивает размер одной страницы.
const MaxPageSize = 100

// Page — номер страницы (с единицы) и её размер.
type Page struct {
	Number int
	Size   int
}

// New проверяет параметры страницы. Номер и размер должны быть не меньше единицы.
func New(number, size int) (Page, error) {
	if number <= 0 {
		return Page{}, fmt.Errorf("page must be >= 1, got %d: %w", number, models.ErrInvalidArgument)
	}
	if size <= 0 {
		return Page{}, fmt.Errorf("pageSize must be >= 1, got %d: %w", size, models.ErrInvalidArgument)
	}
	if size > MaxPageSize {
		return Page{}, fmt.Errorf("pageSize must be <= %d, got %d: %w", MaxPageSize, size, models.ErrInvalidArgument)
	}
	return Page{Number: number, Size: size}, nil
}

// Parse разбирает строковые параметры запроса. Пустая строка заменяется значением по умолчанию.
func Parse(number, size string, defaultSize int) (Page, error) {
	n, err := atoiDefault(number, 1)
	if err != nil {
		return Page{}, fmt.Errorf("invalid page %q: %w", number, models.ErrInvalidArgument)
	}
	s, err := atoiDefault(size, defaultSize)
	if err != nil {
		return Page{}, fmt.Errorf("invalid pageSize %q: %w", size, models.ErrInvalidArgument)
	}
	return New(n, s)
}

// Offset возвращает смещение первой записи страницы.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit возвращает максимальное число записей на странице.
func (p Page) Limit() int {
	return p.Size
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
