// Package storage writes finished session records to object storage
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/ethanbaker/parlavoice/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultBucket = "parlavoice"
	DefaultRegion = "us-east-1"

	contentType = "application/json; charset=utf-8"
)

// Backend is an uploader bound to one bucket
type Backend interface {
	session.Uploader
	Name() string
	Bucket() string
}

// Encode renders a record as UTF-8 JSON with four space indentation and no
// HTML escaping
func Encode(record *session.SessionRecord) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("failed to encode session record: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// New builds the backend selected by STORAGE_BACKEND and wraps it with
// logging
func New(ctx context.Context, cfg *utils.Config, logger *zap.Logger) (Backend, error) {
	bucket := cfg.GetWithDefault("STORAGE_BUCKET", DefaultBucket)

	var (
		backend Backend
		err     error
	)
	switch kind := cfg.GetWithDefault("STORAGE_BACKEND", "s3"); kind {
	case "s3":
		backend, err = NewS3Uploader(ctx, S3Options{
			Bucket:          bucket,
			Region:          cfg.GetWithDefault("AWS_REGION", DefaultRegion),
			Endpoint:        cfg.Get("S3_ENDPOINT"),
			AccessKeyID:     cfg.Get("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: cfg.Get("AWS_SECRET_ACCESS_KEY"),
		})
	case "gcs":
		backend, err = NewGCSUploader(ctx, GCSOptions{
			Bucket:          bucket,
			CredentialsFile: cfg.Get("GCS_CREDENTIALS_FILE"),
			Endpoint:        cfg.Get("GCS_ENDPOINT"),
		})
	case "dir":
		backend, err = NewDirUploader(cfg.GetWithDefault("STORAGE_DIR", "./uploads"), bucket)
	case "memory":
		logger.Warn("STORAGE_BACKEND is memory, uploaded sessions will be lost on restart")
		backend = NewMemoryUploader(bucket)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND '%s'", kind)
	}
	if err != nil {
		return nil, err
	}

	return WithLogging(backend, logger), nil
}

// loggedBackend reports every upload attempt
type loggedBackend struct {
	Backend
	logger *zap.Logger
}

// WithLogging wraps a backend so each upload is logged with its outcome
func WithLogging(backend Backend, logger *zap.Logger) Backend {
	return &loggedBackend{
		Backend: backend,
		logger:  logger.Named("storage").With(zap.String("backend", backend.Name()), zap.String("bucket", backend.Bucket())),
	}
}

func (b *loggedBackend) Upload(ctx context.Context, record *session.SessionRecord) error {
	start := time.Now()
	err := b.Backend.Upload(ctx, record)

	fields := []zap.Field{
		zap.String("key", record.ObjectKey()),
		zap.Int("rounds", len(record.Rounds)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		b.logger.Error("session upload failed", append(fields, zap.Error(err))...)
		return err
	}

	b.logger.Info("session uploaded", fields...)
	return nil
}
