package postgres

import (
	"context"
	"database/sql"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type NoteRepo struct{ db *sql.DB }

func NewNoteRepo(db *sql.DB) storage.NoteStore {
	return &NoteRepo{db: db}
}

func (repo *NoteRepo) CreateNote(ctx context.Context, n *models.Note) error {
	const query = `
INSERT INTO notes (title, text, slug, author_id)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, n.Title, n.Text, n.Slug, n.AuthorID).Scan(&n.ID); err != nil {
		return wrap("CreateNote", err)
	}
	return nil
}

func (repo *NoteRepo) NoteBySlug(ctx context.Context, authorID int64, slug string) (*models.Note, error) {
	const query = `
SELECT id, title, text, slug, author_id
FROM notes
WHERE author_id = $1 AND slug = $2`
	var n models.Note
	err := repo.db.QueryRowContext(ctx, query, authorID, slug).
		Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID)
	if err != nil {
		return nil, wrap("NoteBySlug", err)
	}
	return &n, nil
}

func (repo *NoteRepo) NotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error) {
	const query = `
SELECT id, title, text, slug, author_id
FROM notes
WHERE author_id = $1
ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, wrap("NotesByAuthor", err)
	}
	defer func() { _ = rows.Close() }()

	var result []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID); err != nil {
			return nil, wrap("NotesByAuthor: Scan", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (repo *NoteRepo) UpdateNote(ctx context.Context, n *models.Note) error {
	const query = `
UPDATE notes
SET title = $1, text = $2, slug = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query, n.Title, n.Text, n.Slug, n.ID)
	if err != nil {
		return wrap("UpdateNote", err)
	}
	return mustAffect("UpdateNote", res)
}

func (repo *NoteRepo) DeleteNote(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return wrap("DeleteNote", err)
	}
	return mustAffect("DeleteNote", res)
}

func (repo *NoteRepo) SlugTaken(ctx context.Context, authorID int64, slug string, excludeID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM notes
    WHERE author_id = $1 AND slug = $2 AND id <> $3
)`
	var taken bool
	if err := repo.db.QueryRowContext(ctx, query, authorID, slug, excludeID).Scan(&taken); err != nil {
		return false, wrap("SlugTaken", err)
	}
	return taken, nil
}
