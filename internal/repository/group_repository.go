package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const groupColumns = `
	id, campaign_id, campaign_group_id, group_name, group_description,
	created_datetime, deleted_datetime
`

func scanGroup(row pgx.Row) (models.Group, error) {
	var group models.Group
	var deletedAt *time.Time
	if err := row.Scan(
		&group.ID,
		&group.CampaignID,
		&group.CampaignGroupID,
		&group.Name,
		&group.Description,
		&group.CreatedAt,
		&deletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Group{}, ErrGroupNotFound
		}
		return models.Group{}, err
	}
	group.State = models.ActivityFrom(deletedAt)
	return group, nil
}

func (r *GroupRepository) Create(ctx context.Context, group models.Group) (int, error) {
	const query = `
		INSERT INTO groups (
			campaign_id, campaign_group_id, group_name, group_description,
			created_datetime
		) VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var id int
	err := r.pool.QueryRow(ctx, query,
		group.CampaignID,
		group.CampaignGroupID,
		group.Name,
		group.Description,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int) (models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	return scanGroup(r.pool.QueryRow(ctx, query, id))
}

func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT ` + groupColumns + ` FROM groups ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *GroupRepository) Update(ctx context.Context, group models.Group) error {
	const query = `
		UPDATE groups SET group_name = $2, group_description = $3
		WHERE id = $1 AND deleted_datetime IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, group.ID, group.Name, group.Description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) SoftDelete(ctx context.Context, id int, at time.Time) error {
	const query = `UPDATE groups SET deleted_datetime = $2 WHERE id = $1 AND deleted_datetime IS NULL`
	cmd, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}
