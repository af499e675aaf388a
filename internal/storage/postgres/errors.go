package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"ya_projects/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// wrap приводит ошибки драйвера к ошибкам пакета storage.
func wrap(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrConflict)
		case foreignKeyViolation:
			// ссылка на удалённую новость или пользователя
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mustAffect возвращает ErrNotFound, если запрос не затронул ни одной строки.
func mustAffect(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
