package postgres

import (
	"context"
	"database/sql"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type CommentRepo struct{ db *sql.DB }

func NewCommentRepo(db *sql.DB) storage.CommentStore {
	return &CommentRepo{db: db}
}

func (repo *CommentRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	const query = `
WITH inserted AS (
    INSERT INTO comments (news_id, author_id, text)
    VALUES ($1, $2, $3)
    RETURNING id, created, author_id
)
SELECT i.id, i.created, u.username
FROM inserted i
JOIN users u ON u.id = i.author_id`
	err := repo.db.QueryRowContext(ctx, query, c.NewsID, c.AuthorID, c.Text).
		Scan(&c.ID, &c.Created, &c.AuthorName)
	if err != nil {
		return wrap("CreateComment", err)
	}
	return nil
}

func (repo *CommentRepo) CommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	const query = `
SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.id = $1`
	var c models.Comment
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created)
	if err != nil {
		return nil, wrap("CommentByID", err)
	}
	return &c, nil
}

func (repo *CommentRepo) UpdateComment(ctx context.Context, c *models.Comment) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE comments SET text = $1 WHERE id = $2`, c.Text, c.ID)
	if err != nil {
		return wrap("UpdateComment", err)
	}
	return mustAffect("UpdateComment", res)
}

func (repo *CommentRepo) DeleteComment(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return wrap("DeleteComment", err)
	}
	return mustAffect("DeleteComment", res)
}

func (repo *CommentRepo) CommentsByNews(ctx context.Context, newsID int64) ([]models.Comment, error) {
	const query = `
SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.news_id = $1
ORDER BY c.created ASC, c.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, newsID)
	if err != nil {
		return nil, wrap("CommentsByNews", err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created); err != nil {
			return nil, wrap("CommentsByNews: Scan", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
