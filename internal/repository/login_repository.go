package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

// LoginRepository appends to the login audit log. Rows are never updated
// or deleted through the API.
type LoginRepository struct {
	pool *pgxpool.Pool
}

func NewLoginRepository(pool *pgxpool.Pool) *LoginRepository {
	return &LoginRepository{pool: pool}
}

func (r *LoginRepository) Insert(ctx context.Context, event models.LoginEvent) error {
	const query = `
		INSERT INTO logins (user_id, login_datetime, login_status, token, token_expiry)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		event.UserID,
		event.LoginAt,
		event.LoginStatus,
		event.Token,
		event.TokenExpiry,
	)
	return err
}
