package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niyatisanja0206/resume-builder/internal/domain/user"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return apperror.NewConflict("user", "email", u.Email)
		}
		return apperror.NewInternal("failed to create user", err)
	}
	return nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM users
		WHERE email = $1
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, apperror.NewInternal("error when query user", err)
	}

	return u, nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, email string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return apperror.NewInternal("failed to delete user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", email)
	}
	return nil
}
