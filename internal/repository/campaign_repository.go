package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `
	id, campaign_name, campaign_description, created_datetime,
	deleted_datetime, start_datetime, end_datetime
`

func scanCampaign(row pgx.Row) (models.Campaign, error) {
	var campaign models.Campaign
	var deletedAt *time.Time
	if err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Description,
		&campaign.CreatedAt,
		&deletedAt,
		&campaign.StartAt,
		&campaign.EndAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Campaign{}, ErrCampaignNotFound
		}
		return models.Campaign{}, err
	}
	campaign.State = models.ActivityFrom(deletedAt)
	return campaign, nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign models.Campaign) (int, error) {
	const query = `
		INSERT INTO campaigns (
			campaign_name, campaign_description, created_datetime,
			start_datetime, end_datetime
		) VALUES ($1, $2, NOW(), $3, $4)
		RETURNING id
	`

	var id int
	err := r.pool.QueryRow(ctx, query,
		campaign.Name,
		campaign.Description,
		campaign.StartAt,
		campaign.EndAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int) (models.Campaign, error) {
	const query = `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return scanCampaign(r.pool.QueryRow(ctx, query, id))
}

func (r *CampaignRepository) ActiveNameExists(ctx context.Context, name string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM campaigns
			WHERE campaign_name = $1 AND deleted_datetime IS NULL
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CampaignRepository) List(ctx context.Context) ([]models.Campaign, error) {
	const query = `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Update(ctx context.Context, campaign models.Campaign) error {
	const query = `
		UPDATE campaigns
		SET campaign_name = $2, campaign_description = $3,
		    start_datetime = $4, end_datetime = $5
		WHERE id = $1 AND deleted_datetime IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.Description,
		campaign.StartAt,
		campaign.EndAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) SoftDelete(ctx context.Context, id int, at time.Time) error {
	const query = `UPDATE campaigns SET deleted_datetime = $2 WHERE id = $1 AND deleted_datetime IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
