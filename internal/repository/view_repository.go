package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pixeltrack/api/internal/models"
)

type ViewRepository struct {
	pool *pgxpool.Pool
}

func NewViewRepository(pool *pgxpool.Pool) *ViewRepository {
	return &ViewRepository{pool: pool}
}

func (r *ViewRepository) HasView(ctx context.Context, pixelUUID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM views WHERE pixel_uuid = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, pixelUUID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertFirst records the first view of a pixel. The unique constraint on
// pixel_uuid makes concurrent first-time fetches collapse to one row;
// losing that race is not an error.
func (r *ViewRepository) InsertFirst(ctx context.Context, pixelUUID string, at time.Time) (bool, error) {
	const query = `
		INSERT INTO views (pixel_uuid, view_datetime)
		VALUES ($1, $2)
		ON CONFLICT (pixel_uuid) DO NOTHING
	`
	cmd, err := r.pool.Exec(ctx, query, pixelUUID, at)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *ViewRepository) List(ctx context.Context) ([]models.View, error) {
	const query = `SELECT id, pixel_uuid, view_datetime FROM views ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.View
	for rows.Next() {
		var view models.View
		if err := rows.Scan(&view.ID, &view.PixelUUID, &view.ViewedAt); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// CountByCampaign aggregates opens per campaign for the stats snapshot.
func (r *ViewRepository) CountByCampaign(ctx context.Context) ([]models.CampaignOpenCount, error) {
	const query = `
		SELECT c.id, c.campaign_name, COUNT(v.id)
		FROM campaigns c
		JOIN contacts ct ON ct.campaign_id = c.id
		JOIN pixels p ON p.contact_uuid = ct.uuid
		JOIN views v ON v.pixel_uuid = p.uuid
		GROUP BY c.id, c.campaign_name
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CampaignOpenCount
	for rows.Next() {
		var c models.CampaignOpenCount
		if err := rows.Scan(&c.CampaignID, &c.CampaignName, &c.Opens); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ListReport joins views back to their campaign/group/contact for the
// exported report.
func (r *ViewRepository) ListReport(ctx context.Context) ([]models.ViewReportRow, error) {
	const query = `
		SELECT c.id, c.campaign_name, ct.group_id, ct.uuid,
		       p.uuid, p.contact_pixel_number, v.view_datetime
		FROM views v
		JOIN pixels p ON p.uuid = v.pixel_uuid
		JOIN contacts ct ON ct.uuid = p.contact_uuid
		JOIN campaigns c ON c.id = ct.campaign_id
		ORDER BY v.view_datetime
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []models.ViewReportRow
	for rows.Next() {
		var row models.ViewReportRow
		if err := rows.Scan(
			&row.CampaignID,
			&row.CampaignName,
			&row.GroupID,
			&row.ContactUUID,
			&row.PixelUUID,
			&row.SequenceNumber,
			&row.ViewedAt,
		); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
