package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"nxq-backend/internal/config"
	"nxq-backend/internal/events"
	"nxq-backend/internal/logger"
	"nxq-backend/internal/metrics"
	"nxq-backend/internal/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

var ErrBackupDisabled = errors.New("backup bucket is not configured")

// ObjectStore is the subset of the S3 client used for backups.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// NewS3Client builds a client for an S3-compatible endpoint such as R2.
func NewS3Client(ctx context.Context, cfg config.BackupConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

type BackupResult struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService snapshots the store and uploads the copy to object storage.
type BackupService struct {
	Repo   *repositories.MaintenanceRepository
	Store  ObjectStore
	Events events.Publisher
	cfg    config.BackupConfig
	now    func() time.Time
	log    zerolog.Logger
}

// NewBackupService returns a service that reports ErrBackupDisabled when
// store is nil.
func NewBackupService(repo *repositories.MaintenanceRepository, store ObjectStore, cfg config.BackupConfig, pub events.Publisher) *BackupService {
	return &BackupService{
		Repo:   repo,
		Store:  store,
		Events: pub,
		cfg:    cfg,
		now:    time.Now,
		log:    logger.For("BackupService"),
	}
}

func (s *BackupService) Enabled() bool {
	return s.Store != nil && s.cfg.Enabled()
}

func (s *BackupService) Run(ctx context.Context) (*BackupResult, error) {
	if !s.Enabled() {
		return nil, ErrBackupDisabled
	}

	result, err := s.run(ctx)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failure").Inc()
		s.log.Error().Err(err).Msg("backup failed")
		return nil, err
	}

	metrics.BackupsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("key", result.Key).Int64("size", result.Size).Msg("backup uploaded")
	s.Events.Publish(events.Event{Type: events.BackupFinished})
	return result, nil
}

func (s *BackupService) run(ctx context.Context) (*BackupResult, error) {
	dir, err := os.MkdirTemp("", "nxq-backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// VACUUM INTO refuses to overwrite, so the target must not exist yet
	snapshot := filepath.Join(dir, "nxq.db")
	if err := s.Repo.Snapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	f, err := os.Open(snapshot)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := path.Join(s.cfg.KeyPrefix, fmt.Sprintf("nxq-%s.db", now.Format("20060102-150405")))
	_, err = s.Store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	return &BackupResult{Key: key, Size: info.Size(), CreatedAt: now}, nil
}

// List returns uploaded backup keys, newest first.
func (s *BackupService) List(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, ErrBackupDisabled
	}
	out, err := s.Store.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.KeyPrefix + "/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// Schedule runs a backup every configured interval until ctx is done.
func (s *BackupService) Schedule(ctx context.Context) {
	if !s.Enabled() || s.cfg.Interval <= 0 {
		return
	}
	s.log.Info().Dur("interval", s.cfg.Interval).Msg("backup scheduler started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// errors are logged and counted inside Run
			_, _ = s.Run(ctx)
		}
	}
}
