package repository

import (
	"context"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

// ListPublishers возвращает справочник издателей по имени.
func (s *Storage) ListPublishers(ctx context.Context) ([]*models.Publisher, error) {
	const op = "storage.ListPublishers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id::text, name, logo FROM publishers ORDER BY name`)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	result := []*models.Publisher{}
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Logo); err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}
