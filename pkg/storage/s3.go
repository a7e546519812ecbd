package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ethanbaker/parlavoice/pkg/session"
)

// S3Options configure the S3 backend. Endpoint is only needed for
// S3-compatible stores and switches to path-style addressing
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Uploader puts session records into an S3 bucket
type S3Uploader struct {
	client *s3.Client
	bucket string
}

// NewS3Uploader creates an S3 client. Static keys are used when given,
// otherwise the default AWS credential chain applies
func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}
	if (opts.AccessKeyID == "") != (opts.SecretAccessKey == "") {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}

	customize := func(o *s3.Options) {
		o.RetryMaxAttempts = 1
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}

	var client *s3.Client
	if opts.AccessKeyID != "" {
		o := s3.Options{
			Region:      opts.Region,
			Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		}
		customize(&o)
		client = s3.New(o)
	} else {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client = s3.NewFromConfig(awsCfg, customize)
	}

	return &S3Uploader{client: client, bucket: opts.Bucket}, nil
}

func (u *S3Uploader) Name() string   { return "s3" }
func (u *S3Uploader) Bucket() string { return u.bucket }

// Upload writes the record under {sessionId}.json in one attempt
func (u *S3Uploader) Upload(ctx context.Context, record *session.SessionRecord) error {
	body, err := Encode(record)
	if err != nil {
		return err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(record.ObjectKey()),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", u.bucket, record.ObjectKey(), err)
	}

	return nil
}
