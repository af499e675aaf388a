package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type NewsRepo struct{ db *sql.DB }

func NewNewsRepo(db *sql.DB) storage.NewsStore {
	return &NewsRepo{db: db}
}

func nullLink(link string) sql.NullString {
	return sql.NullString{String: link, Valid: link != ""}
}

func (repo *NewsRepo) CreateNews(ctx context.Context, n *models.News) error {
	const query = `
INSERT INTO news (title, text, date, source_link)
VALUES ($1, $2, COALESCE($3, now()), $4)
RETURNING id, date`
	var date sql.NullTime
	if !n.Date.IsZero() {
		date = sql.NullTime{Time: n.Date, Valid: true}
	}
	err := repo.db.QueryRowContext(ctx, query, n.Title, n.Text, date, nullLink(n.Link)).
		Scan(&n.ID, &n.Date)
	if err != nil {
		return wrap("CreateNews", err)
	}
	return nil
}

// ImportNews вставляет новость, пропуская уже сохранённые source_link.
func (repo *NewsRepo) ImportNews(ctx context.Context, n *models.News) (bool, error) {
	const query = `
INSERT INTO news (title, text, date, source_link)
VALUES ($1, $2, $3, $4)
ON CONFLICT (source_link) DO NOTHING
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, n.Title, n.Text, n.Date, nullLink(n.Link)).
		Scan(&n.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("ImportNews", err)
	}
	return true, nil
}

func (repo *NewsRepo) NewsByID(ctx context.Context, id int64) (*models.News, error) {
	const query = `
SELECT id, title, text, date, COALESCE(source_link, '')
FROM news
WHERE id = $1`
	var n models.News
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.Link)
	if err != nil {
		return nil, wrap("NewsByID", err)
	}
	return &n, nil
}

func (repo *NewsRepo) ListNews(ctx context.Context, limit, offset int) ([]models.News, error) {
	const query = `
SELECT id, title, text, date, COALESCE(source_link, '')
FROM news
ORDER BY date DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, wrap("ListNews", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]models.News, 0, limit)
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.Link); err != nil {
			return nil, wrap("ListNews: Scan", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (repo *NewsRepo) CountNews(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&count); err != nil {
		return 0, wrap("CountNews", err)
	}
	return count, nil
}
