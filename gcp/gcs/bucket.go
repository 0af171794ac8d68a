// Package gcs provides helpers for treating a GCS bucket as a directory tree.
package gcs

import (
	"context"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// ErrObjectExists is returned by Bucket.Create when ifAbsent is set and the object is already there.
var ErrObjectExists = errors.New("object already exists")

// Bucket is the slice of the storage API the helpers need. It lets the helpers be tested without GCS.
type Bucket interface {
	// Name is the name of the bucket.
	Name() string
	// List returns the names of at most maxResults objects whose names start with prefix.
	List(ctx context.Context, prefix string, maxResults int) ([]string, error)
	// Create writes the contents of r to key. If ifAbsent is true the write only succeeds if the object
	// doesn't exist yet; otherwise ErrObjectExists is returned.
	Create(ctx context.Context, key string, contentType string, r io.Reader, ifAbsent bool) error
}

// NewBucket returns a Bucket backed by the given GCS client.
func NewBucket(client *storage.Client, name string) Bucket {
	return &sdkBucket{
		handle: client.Bucket(name),
		name:   name,
	}
}

type sdkBucket struct {
	handle *storage.BucketHandle
	name   string
}

func (b *sdkBucket) Name() string {
	return b.name
}

func (b *sdkBucket) List(ctx context.Context, prefix string, maxResults int) ([]string, error) {
	q := &storage.Query{Prefix: prefix}
	if err := q.SetAttrSelection([]string{"Name"}); err != nil {
		return nil, errors.Wrapf(err, "Failed to set attribute selection")
	}

	names := make([]string, 0, maxResults)
	it := b.handle.Objects(ctx, q)
	it.PageInfo().MaxSize = maxResults
	for len(names) < maxResults {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to list gs://%v/%v", b.name, prefix)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (b *sdkBucket) Create(ctx context.Context, key string, contentType string, r io.Reader, ifAbsent bool) error {
	obj := b.handle.Object(key)
	if ifAbsent {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	// Cancelling the context is how a storage.Writer is aborted without committing the object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return errors.Wrapf(err, "Failed to write gs://%v/%v", b.name, key)
	}

	if err := w.Close(); err != nil {
		if ifAbsent && isPreconditionFailed(err) {
			return ErrObjectExists
		}
		return errors.Wrapf(err, "Failed to write gs://%v/%v", b.name, key)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusPreconditionFailed
	}
	return false
}
