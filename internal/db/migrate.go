package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer - часть pgxpool.Pool, нужная для миграций.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(150) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    date_joined   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var newsSchema = []string{
	usersTable,
	`CREATE TABLE IF NOT EXISTS news (
    id          BIGSERIAL PRIMARY KEY,
    title       VARCHAR(250) NOT NULL,
    text        TEXT NOT NULL,
    date        TIMESTAMPTZ NOT NULL DEFAULT now(),
    source_link VARCHAR(2048) UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS comments (
    id        BIGSERIAL PRIMARY KEY,
    news_id   BIGINT NOT NULL REFERENCES news(id) ON DELETE CASCADE,
    author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    text      TEXT NOT NULL,
    created   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_date ON news(date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_news_created ON comments(news_id, created)`,
}

var notesSchema = []string{
	usersTable,
	`CREATE TABLE IF NOT EXISTS notes (
    id        BIGSERIAL PRIMARY KEY,
    title     VARCHAR(100) NOT NULL,
    text      TEXT NOT NULL,
    slug      VARCHAR(100) NOT NULL,
    author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    UNIQUE (author_id, slug)
)`,
}

// Migrate создаёт таблицы приложения app ("news" или "notes"). Повторный вызов безопасен.
func Migrate(ctx context.Context, db Execer, app string) error {
	var stmts []string
	switch app {
	case "news":
		stmts = newsSchema
	case "notes":
		stmts = notesSchema
	default:
		return fmt.Errorf("migrate: unknown app %q", app)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", app, err)
		}
	}
	return nil
}
