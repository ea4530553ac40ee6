package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pixeltrack/api/internal/config"
)

// ReportStore holds exported view reports in an object-store bucket.
type ReportStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewReportStore(cfg config.StorageConfig) (*ReportStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ReportStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ReportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.BucketReports)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.BucketReports, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.BucketReports, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.BucketReports, err)
		}
	}
	return nil
}

// PutCSV uploads one report object.
func (s *ReportStore) PutCSV(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.cfg.BucketReports, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("put report %s: %w", name, err)
	}
	return nil
}
