package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
)

// ErrUnknownPixel is the only tracking failure that is visible to the
// email client: the pixel endpoint answers 404 instead of the image.
var ErrUnknownPixel = errors.New("unknown pixel")

type PixelGetter interface {
	GetByUUID(ctx context.Context, uuid string) (models.Pixel, error)
}

type ViewWriter interface {
	HasView(ctx context.Context, pixelUUID string) (bool, error)
	InsertFirst(ctx context.Context, pixelUUID string, at time.Time) (bool, error)
}

// MarkerStore is the best-effort fast path. Any error from it is treated
// as a miss; it must never fail the fetch.
type MarkerStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, value string) error
}

// TrackingService decides, per pixel fetch, whether to record a first
// view. Repeat fetches inside the marker TTL never reach the database.
type TrackingService struct {
	pixels  PixelGetter
	views   ViewWriter
	markers MarkerStore
	log     zerolog.Logger
	now     func() time.Time
}

func NewTrackingService(pixels PixelGetter, views ViewWriter, markers MarkerStore, log zerolog.Logger) *TrackingService {
	return &TrackingService{
		pixels:  pixels,
		views:   views,
		markers: markers,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RecordFetch runs the first-view detection for one fetch of uuid.
// clientAddr is stored in the marker for later inspection. It returns
// ErrUnknownPixel when no such pixel exists; any other internal failure
// after the pixel is known is logged and swallowed so the caller still
// serves the image.
func (s *TrackingService) RecordFetch(ctx context.Context, uuid string, clientAddr string) error {
	seen, err := s.markers.Seen(ctx, uuid)
	if err != nil {
		s.log.Debug().Err(err).Str("pixel", uuid).Msg("marker lookup failed, treating as miss")
		seen = false
	}
	if seen {
		return nil
	}

	if err := s.markers.Mark(ctx, uuid, clientAddr); err != nil {
		s.log.Debug().Err(err).Str("pixel", uuid).Msg("marker write failed, continuing")
	}

	p, err := s.pixels.GetByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, repository.ErrPixelNotFound) {
			return ErrUnknownPixel
		}
		// The pixel may exist; do not signal anything to the client.
		s.log.Error().Err(err).Str("pixel", uuid).Msg("pixel lookup failed")
		return nil
	}

	viewed, err := s.views.HasView(ctx, p.UUID)
	if err != nil {
		s.log.Error().Err(err).Str("pixel", p.UUID).Msg("view lookup failed")
		return nil
	}
	if viewed {
		return nil
	}

	inserted, err := s.views.InsertFirst(ctx, p.UUID, s.now())
	if err != nil {
		s.log.Error().Err(err).Str("pixel", p.UUID).Msg("view insert failed")
		return nil
	}
	if inserted {
		s.log.Info().Str("pixel", p.UUID).Str("contact", p.ContactUUID).Msg("first view recorded")
	}
	return nil
}
