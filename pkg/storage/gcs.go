package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ethanbaker/parlavoice/pkg/session"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

// GCSOptions configure the Google Cloud Storage backend. Endpoint points the
// client at an emulator and disables authentication when no credentials file
// is given
type GCSOptions struct {
	Bucket          string
	CredentialsFile string
	Endpoint        string
}

// GCSUploader inserts session records into a Cloud Storage bucket
type GCSUploader struct {
	service *gcs.Service
	bucket  string
}

// NewGCSUploader creates the storage service. Without a credentials file the
// application default credentials are used
func NewGCSUploader(ctx context.Context, opts GCSOptions) (*GCSUploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read GCS credentials file: %w", err)
		}

		creds, err := google.CredentialsFromJSON(ctx, data, gcs.DevstorageReadWriteScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GCS credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
		if opts.CredentialsFile == "" {
			clientOpts = append(clientOpts, option.WithoutAuthentication())
		}
	}

	service, err := gcs.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS service: %w", err)
	}

	return &GCSUploader{service: service, bucket: opts.Bucket}, nil
}

func (u *GCSUploader) Name() string   { return "gcs" }
func (u *GCSUploader) Bucket() string { return u.bucket }

// Upload writes the record under {sessionId}.json in one attempt
func (u *GCSUploader) Upload(ctx context.Context, record *session.SessionRecord) error {
	body, err := Encode(record)
	if err != nil {
		return err
	}

	object := &gcs.Object{
		Name:        record.ObjectKey(),
		ContentType: contentType,
	}

	_, err = u.service.Objects.Insert(u.bucket, object).
		Media(bytes.NewReader(body)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("gcs insert %s/%s: %w", u.bucket, record.ObjectKey(), err)
	}

	return nil
}
