package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Database инкапсулирует пул соединений к PostgreSQL и database/sql-обёртку над ним,
// через которую работают репозитории.
type Database struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

// NewDB создаёт новый пул соединений по connString и проверяет доступность базы.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return &Database{Pool: pool, SQL: stdlib.OpenDBFromPool(pool)}, nil
}

// Ping проверяет соединение с базой.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	_ = db.SQL.Close()
	db.Pool.Close()
}
