package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethanbaker/parlavoice/pkg/session"
)

// DirUploader writes session records below root/bucket on the local disk
type DirUploader struct {
	root   string
	bucket string
}

// NewDirUploader creates the bucket directory if needed
func NewDirUploader(root, bucket string) (*DirUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &DirUploader{root: root, bucket: bucket}, nil
}

func (u *DirUploader) Name() string   { return "dir" }
func (u *DirUploader) Bucket() string { return u.bucket }

// Path returns where an object key is stored
func (u *DirUploader) Path(key string) string {
	return filepath.Join(u.root, u.bucket, key)
}

// Upload writes the record to a temporary file and renames it into place so
// readers never see a partial object
func (u *DirUploader) Upload(ctx context.Context, record *session.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Encode(record)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Join(u.root, u.bucket), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	if err := os.Rename(tmp.Name(), u.Path(record.ObjectKey())); err != nil {
		return fmt.Errorf("failed to store object %s: %w", record.ObjectKey(), err)
	}

	return nil
}
