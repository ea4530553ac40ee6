package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type PixelRepository struct {
	pool *pgxpool.Pool
}

func NewPixelRepository(pool *pgxpool.Pool) *PixelRepository {
	return &PixelRepository{pool: pool}
}

func (r *PixelRepository) Create(ctx context.Context, p models.Pixel) error {
	const query = `
		INSERT INTO pixels (uuid, contact_uuid, contact_pixel_number)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, p.UUID, p.ContactUUID, p.SequenceNumber)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PixelRepository) GetByUUID(ctx context.Context, uuid string) (models.Pixel, error) {
	const query = `
		SELECT uuid, contact_uuid, contact_pixel_number
		FROM pixels WHERE uuid = $1
	`
	var p models.Pixel
	if err := r.pool.QueryRow(ctx, query, uuid).Scan(
		&p.UUID,
		&p.ContactUUID,
		&p.SequenceNumber,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Pixel{}, ErrPixelNotFound
		}
		return models.Pixel{}, err
	}
	return p, nil
}

func (r *PixelRepository) SequenceExists(ctx context.Context, contactUUID string, sequence int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM pixels
			WHERE contact_uuid = $1 AND contact_pixel_number = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, contactUUID, sequence).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PixelRepository) List(ctx context.Context) ([]models.Pixel, error) {
	const query = `
		SELECT uuid, contact_uuid, contact_pixel_number
		FROM pixels ORDER BY contact_uuid, contact_pixel_number
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pixels []models.Pixel
	for rows.Next() {
		var p models.Pixel
		if err := rows.Scan(&p.UUID, &p.ContactUUID, &p.SequenceNumber); err != nil {
			return nil, err
		}
		pixels = append(pixels, p)
	}
	return pixels, rows.Err()
}
