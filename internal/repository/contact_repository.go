package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var contact models.Contact
	if err := row.Scan(
		&contact.UUID,
		&contact.CampaignID,
		&contact.GroupID,
		&contact.ScheduledAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}
		return models.Contact{}, err
	}
	return contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact models.Contact) error {
	const query = `
		INSERT INTO contacts (uuid, campaign_id, group_id, scheduled_datetime)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		contact.UUID,
		contact.CampaignID,
		contact.GroupID,
		contact.ScheduledAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ContactRepository) GetByUUID(ctx context.Context, uuid string) (models.Contact, error) {
	const query = `
		SELECT uuid, campaign_id, group_id, scheduled_datetime
		FROM contacts WHERE uuid = $1
	`
	return scanContact(r.pool.QueryRow(ctx, query, uuid))
}

func (r *ContactRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Contact, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) List(ctx context.Context) ([]models.Contact, error) {
	return r.list(ctx, `
		SELECT uuid, campaign_id, group_id, scheduled_datetime
		FROM contacts ORDER BY uuid
	`)
}

func (r *ContactRepository) ListByGroup(ctx context.Context, groupID int) ([]models.Contact, error) {
	return r.list(ctx, `
		SELECT uuid, campaign_id, group_id, scheduled_datetime
		FROM contacts WHERE group_id = $1 ORDER BY uuid
	`, groupID)
}

func (r *ContactRepository) ListByCampaign(ctx context.Context, campaignID int) ([]models.Contact, error) {
	return r.list(ctx, `
		SELECT uuid, campaign_id, group_id, scheduled_datetime
		FROM contacts WHERE campaign_id = $1 ORDER BY uuid
	`, campaignID)
}

// Delete removes the row. Contacts are the one entity that hard-deletes.
func (r *ContactRepository) Delete(ctx context.Context, uuid string) error {
	const query = `DELETE FROM contacts WHERE uuid = $1`
	cmd, err := r.pool.Exec(ctx, query, uuid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}
