package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
)

type fakePixelGetter struct {
	pixels map[string]models.Pixel
	err    error
	calls  int
}

func (f *fakePixelGetter) GetByUUID(_ context.Context, uuid string) (models.Pixel, error) {
	f.calls++
	if f.err != nil {
		return models.Pixel{}, f.err
	}
	p, ok := f.pixels[uuid]
	if !ok {
		return models.Pixel{}, repository.ErrPixelNotFound
	}
	return p, nil
}

type fakeViewWriter struct {
	views     map[string]time.Time
	hasErr    error
	insertErr error
	inserts   int
}

func (f *fakeViewWriter) HasView(_ context.Context, pixelUUID string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.views[pixelUUID]
	return ok, nil
}

func (f *fakeViewWriter) InsertFirst(_ context.Context, pixelUUID string, at time.Time) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	f.inserts++
	if _, ok := f.views[pixelUUID]; ok {
		return false, nil
	}
	f.views[pixelUUID] = at
	return true, nil
}

type fakeMarkers struct {
	marks   map[string]string
	seenErr error
	markErr error
}

func (f *fakeMarkers) Seen(_ context.Context, key string) (bool, error) {
	if f.seenErr != nil {
		return false, f.seenErr
	}
	_, ok := f.marks[key]
	return ok, nil
}

func (f *fakeMarkers) Mark(_ context.Context, key string, value string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marks[key] = value
	return nil
}

func newTrackingFixture() (*TrackingService, *fakePixelGetter, *fakeViewWriter, *fakeMarkers) {
	pixels := &fakePixelGetter{pixels: map[string]models.Pixel{
		"px-1": {UUID: "px-1", ContactUUID: "ct-1", SequenceNumber: 1},
	}}
	views := &fakeViewWriter{views: map[string]time.Time{}}
	markers := &fakeMarkers{marks: map[string]string{}}
	svc := NewTrackingService(pixels, views, markers, zerolog.Nop())
	return svc, pixels, views, markers
}

func TestRecordFetchFirstView(t *testing.T) {
	svc, _, views, markers := newTrackingFixture()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.RecordFetch(context.Background(), "px-1", "203.0.113.9"); err != nil {
		t.Fatalf("RecordFetch error: %v", err)
	}
	if at, ok := views.views["px-1"]; !ok || !at.Equal(fixed) {
		t.Errorf("expected view at %v, got %v (present=%v)", fixed, at, ok)
	}
	if markers.marks["px-1"] != "203.0.113.9" {
		t.Errorf("expected marker value to hold the client address, got %q", markers.marks["px-1"])
	}
}

func TestRecordFetchMarkerHitSkipsDatabase(t *testing.T) {
	svc, pixels, views, markers := newTrackingFixture()
	markers.marks["px-1"] = "203.0.113.9"

	if err := svc.RecordFetch(context.Background(), "px-1", "198.51.100.4"); err != nil {
		t.Fatalf("RecordFetch error: %v", err)
	}
	if pixels.calls != 0 {
		t.Errorf("pixel lookup should be skipped on marker hit, got %d calls", pixels.calls)
	}
	if len(views.views) != 0 {
		t.Error("no view should be written on marker hit")
	}
}

func TestRecordFetchExistingViewNotDuplicated(t *testing.T) {
	svc, _, views, _ := newTrackingFixture()
	views.views["px-1"] = time.Now().UTC()

	if err := svc.RecordFetch(context.Background(), "px-1", "203.0.113.9"); err != nil {
		t.Fatalf("RecordFetch error: %v", err)
	}
	if views.inserts != 0 {
		t.Errorf("expected no insert for an already-viewed pixel, got %d", views.inserts)
	}
}

func TestRecordFetchUnknownPixel(t *testing.T) {
	svc, _, views, _ := newTrackingFixture()

	err := svc.RecordFetch(context.Background(), "no-such-pixel", "203.0.113.9")
	if !errors.Is(err, ErrUnknownPixel) {
		t.Fatalf("expected ErrUnknownPixel, got %v", err)
	}
	if len(views.views) != 0 {
		t.Error("no view should be written for an unknown pixel")
	}
}

func TestRecordFetchMarkerFailuresAreIgnored(t *testing.T) {
	svc, _, views, markers := newTrackingFixture()
	markers.seenErr = errors.New("redis down")
	markers.markErr = errors.New("redis down")

	if err := svc.RecordFetch(context.Background(), "px-1", "203.0.113.9"); err != nil {
		t.Fatalf("RecordFetch error: %v", err)
	}
	if _, ok := views.views["px-1"]; !ok {
		t.Error("view should be written even when the marker store fails")
	}
}

func TestRecordFetchSwallowsStorageFailures(t *testing.T) {
	svc, pixels, _, _ := newTrackingFixture()
	pixels.err = errors.New("connection refused")
	if err := svc.RecordFetch(context.Background(), "px-1", "203.0.113.9"); err != nil {
		t.Errorf("lookup failure should be swallowed, got %v", err)
	}

	svc, _, views, _ := newTrackingFixture()
	views.insertErr = errors.New("connection refused")
	if err := svc.RecordFetch(context.Background(), "px-1", "203.0.113.9"); err != nil {
		t.Errorf("insert failure should be swallowed, got %v", err)
	}
	if len(views.views) != 0 {
		t.Error("no view should be recorded when the insert fails")
	}
}
