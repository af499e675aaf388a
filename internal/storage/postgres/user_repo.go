package postgres

import (
	"context"
	"database/sql"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) storage.UserStore {
	return &UserRepo{db: db}
}

func (repo *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	const query = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING id, date_joined`
	err := repo.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash).
		Scan(&u.ID, &u.DateJoined)
	if err != nil {
		return wrap("CreateUser", err)
	}
	return nil
}

func (repo *UserRepo) UserByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
SELECT id, username, password_hash, date_joined
FROM users
WHERE id = $1`
	var u models.User
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DateJoined)
	if err != nil {
		return nil, wrap("UserByID", err)
	}
	return &u, nil
}

func (repo *UserRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `
SELECT id, username, password_hash, date_joined
FROM users
WHERE username = $1`
	var u models.User
	err := repo.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DateJoined)
	if err != nil {
		return nil, wrap("UserByUsername", err)
	}
	return &u, nil
}
