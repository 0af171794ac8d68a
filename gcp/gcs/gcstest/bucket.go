// Package gcstest provides an in memory gcs.Bucket for tests.
package gcstest

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jlewi/gcputil/gcp/gcs"
)

// Object is an object stored in a Bucket.
type Object struct {
	ContentType string
	Data        []byte
}

// Bucket is an in memory gcs.Bucket. It records every call so tests can assert on them.
type Bucket struct {
	BucketName string

	mu      sync.Mutex
	objects map[string]Object
	// Lists holds the prefix of every List call.
	Lists []string
	// Writes holds the key of every successful Create call.
	Writes []string
}

var _ gcs.Bucket = &Bucket{}

// NewBucket returns an empty bucket.
func NewBucket(name string) *Bucket {
	return &Bucket{
		BucketName: name,
		objects:    map[string]Object{},
	}
}

func (b *Bucket) Name() string {
	return b.BucketName
}

func (b *Bucket) List(_ context.Context, prefix string, maxResults int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Lists = append(b.Lists, prefix)

	names := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	if len(names) > maxResults {
		names = names[:maxResults]
	}
	return names, nil
}

func (b *Bucket) Create(_ context.Context, key string, contentType string, r io.Reader, ifAbsent bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; ok && ifAbsent {
		return gcs.ErrObjectExists
	}
	b.objects[key] = Object{ContentType: contentType, Data: data}
	b.Writes = append(b.Writes, key)
	return nil
}

// Get returns the object stored at key.
func (b *Bucket) Get(key string) (Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.objects[key]
	return o, ok
}
