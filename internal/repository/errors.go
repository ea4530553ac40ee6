package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrPixelNotFound    = errors.New("pixel not found")

	// ErrDuplicate surfaces a storage-level unique violation; handlers map
	// it to 400 the same way the application-level checks do.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
