package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pixeltrack/api/internal/models"
)

type viewAggregator interface {
	CountByCampaign(ctx context.Context) ([]models.CampaignOpenCount, error)
	ListReport(ctx context.Context) ([]models.ViewReportRow, error)
}

type statsSink interface {
	SnapshotOpens(ctx context.Context, counts []models.CampaignOpenCount) error
}

type reportSink interface {
	PutCSV(ctx context.Context, name string, data []byte) error
}

// Scheduler runs the periodic side work: an hourly open-count snapshot
// into the cache and a daily views report into the object store. Both
// jobs are best-effort; failures are logged and retried on the next tick.
type Scheduler struct {
	cron    *cron.Cron
	views   viewAggregator
	stats   statsSink
	reports reportSink
	log     zerolog.Logger
}

func NewScheduler(views viewAggregator, stats statsSink, reports reportSink, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		views:   views,
		stats:   stats,
		reports: reports,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.snapshotOpens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 6 * * *", s.exportReport); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for a running job to finish.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) snapshotOpens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.views.CountByCampaign(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("open-count aggregation failed")
		return
	}
	if err := s.stats.SnapshotOpens(ctx, counts); err != nil {
		s.log.Error().Err(err).Msg("open-count snapshot failed")
		return
	}
	s.log.Debug().Int("campaigns", len(counts)).Msg("open counts snapshotted")
}

func (s *Scheduler) exportReport() {
	if s.reports == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := s.views.ListReport(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("report query failed")
		return
	}

	name := "views-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	if err := s.reports.PutCSV(ctx, name, RenderReportCSV(rows)); err != nil {
		s.log.Error().Err(err).Msg("report upload failed")
		return
	}
	s.log.Info().Str("object", name).Int("rows", len(rows)).Msg("views report exported")
}
