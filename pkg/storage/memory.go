package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/ethanbaker/parlavoice/pkg/session"
)

// MemoryUploader keeps objects in process memory. Err can be set to make
// every upload fail
type MemoryUploader struct {
	bucket string

	mu      sync.RWMutex
	objects map[string][]byte
	calls   int
	err     error
}

// NewMemoryUploader creates an empty in-memory bucket
func NewMemoryUploader(bucket string) *MemoryUploader {
	return &MemoryUploader{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

func (u *MemoryUploader) Name() string   { return "memory" }
func (u *MemoryUploader) Bucket() string { return u.bucket }

// FailWith makes subsequent uploads return err. A nil err restores uploads
func (u *MemoryUploader) FailWith(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.err = err
}

// Upload stores the encoded record under its object key
func (u *MemoryUploader) Upload(ctx context.Context, record *session.SessionRecord) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.calls++
	if u.err != nil {
		return u.err
	}

	body, err := Encode(record)
	if err != nil {
		return err
	}

	u.objects[record.ObjectKey()] = body
	return nil
}

// Get returns a stored object
func (u *MemoryUploader) Get(key string) ([]byte, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	body, ok := u.objects[key]
	return body, ok
}

// Keys lists the stored object keys in order
func (u *MemoryUploader) Keys() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()

	keys := make([]string, 0, len(u.objects))
	for k := range u.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Calls returns the number of upload attempts, failed ones included
func (u *MemoryUploader) Calls() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.calls
}
