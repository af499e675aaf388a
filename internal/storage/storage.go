// Package storage описывает хранилища пользователей, новостей, комментариев и заметок.
package storage

import (
	"context"
	"errors"

	"ya_projects/internal/models"
)

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict - нарушено ограничение уникальности.
	ErrConflict = errors.New("already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

type NewsStore interface {
	CreateNews(ctx context.Context, n *models.News) error
	// ImportNews сохраняет новость, если новости с таким Link ещё нет.
	// Возвращает true, если запись добавлена.
	ImportNews(ctx context.Context, n *models.News) (bool, error)
	NewsByID(ctx context.Context, id int64) (*models.News, error)
	// ListNews возвращает новости от свежих к старым.
	ListNews(ctx context.Context, limit, offset int) ([]models.News, error)
	CountNews(ctx context.Context) (int, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	// CommentsByNews возвращает комментарии от старых к новым.
	CommentsByNews(ctx context.Context, newsID int64) ([]models.Comment, error)
}

type NoteStore interface {
	CreateNote(ctx context.Context, n *models.Note) error
	NoteBySlug(ctx context.Context, authorID int64, slug string) (*models.Note, error)
	NotesByAuthor(ctx context.Context, authorID int64) ([]models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
	// SlugTaken сообщает, занят ли slug у автора другой заметкой, кроме excludeID.
	SlugTaken(ctx context.Context, authorID int64, slug string, excludeID int64) (bool, error)
}
