package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryBucket keeps objects in memory. Tests use it in place of GCS.
type MemoryBucket struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	err     error
}

func NewMemoryBucket(bucket string) *MemoryBucket {
	return &MemoryBucket{bucket: bucket, objects: make(map[string][]byte)}
}

func (m *MemoryBucket) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	m.objects[key] = buf.Bytes()
	return m.PublicURL(key), nil
}

func (m *MemoryBucket) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryBucket) PublicURL(key string) string {
	return publicURL("", m.bucket, key)
}

// Object returns the stored bytes for key
func (m *MemoryBucket) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Len returns the number of stored objects
func (m *MemoryBucket) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// FailWith makes every later Upload return err
func (m *MemoryBucket) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
