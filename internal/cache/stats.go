package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"pixeltrack/api/internal/models"
)

const opensKey = "stats:campaign_opens"

// Stats keeps a periodically refreshed snapshot of per-campaign open
// counts so dashboards do not need to aggregate the views table.
type Stats struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStats(client *redis.Client, ttl time.Duration) *Stats {
	return &Stats{client: client, ttl: ttl}
}

func (s *Stats) SnapshotOpens(ctx context.Context, counts []models.CampaignOpenCount) error {
	if len(counts) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(counts))
	for _, c := range counts {
		fields[strconv.Itoa(c.CampaignID)] = c.Opens
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, opensKey)
	pipe.HSet(ctx, opensKey, fields)
	pipe.Expire(ctx, opensKey, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
