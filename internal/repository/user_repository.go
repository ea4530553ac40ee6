package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, uuid, name_enc, surname_enc, account_name, salt, password_hash,
	email_enc, email_digest, grant_id, created_datetime, deleted_datetime
`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var deletedAt *time.Time
	if err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.NameEnc,
		&user.SurnameEnc,
		&user.AccountName,
		&user.Salt,
		&user.PasswordHash,
		&user.EmailEnc,
		&user.EmailDigest,
		&user.GrantID,
		&user.CreatedAt,
		&deletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.State = models.ActivityFrom(deletedAt)
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (int, error) {
	const query = `
		INSERT INTO users (
			uuid, name_enc, surname_enc, account_name, salt, password_hash,
			email_enc, email_digest, grant_id, created_datetime
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id
	`

	var id int
	err := r.pool.QueryRow(ctx, query,
		user.UUID,
		user.NameEnc,
		user.SurnameEnc,
		user.AccountName,
		user.Salt,
		user.PasswordHash,
		user.EmailEnc,
		user.EmailDigest,
		user.GrantID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) FindByAccountName(ctx context.Context, accountName string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE account_name = $1`
	return scanUser(r.pool.QueryRow(ctx, query, accountName))
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) ExistsByEmailDigest(ctx context.Context, digest string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email_digest = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, digest).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int, at time.Time) error {
	const query = `UPDATE users SET deleted_datetime = $2 WHERE id = $1 AND deleted_datetime IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
