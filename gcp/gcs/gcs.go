package gcs

import (
	"context"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/jlewi/gcputil/files"
)

// GcsHelper implements files.FileHelper for gs:// URIs.
type GcsHelper struct {
	Ctx    context.Context
	Client *storage.Client
}

var _ files.FileHelper = &GcsHelper{}

// ParseURI splits a gs://bucket/path URI into the bucket and the object name.
func ParseURI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.Wrapf(err, "Could not parse URI %v", uri)
	}
	if u.Scheme != files.GCSScheme {
		return "", "", errors.Errorf("URI %v doesn't have scheme %v", uri, files.GCSScheme)
	}
	if u.Host == "" {
		return "", "", errors.Errorf("URI %v is missing a bucket", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func (h *GcsHelper) object(uri string) (*storage.ObjectHandle, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, errors.Errorf("URI %v doesn't name an object", uri)
	}
	return h.Client.Bucket(bucket).Object(key), nil
}

// Exists checks whether the object exists.
func (h *GcsHelper) Exists(uri string) (bool, error) {
	obj, err := h.object(uri)
	if err != nil {
		return false, err
	}
	if _, err := obj.Attrs(h.Ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "Could not get attributes of %v", uri)
	}
	return true, nil
}

// NewReader creates a new Reader for the object. The caller should close it.
func (h *GcsHelper) NewReader(uri string) (io.Reader, error) {
	obj, err := h.object(uri)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(h.Ctx)
	if err != nil {
		return nil, errors.WithStack(errors.Wrapf(err, "Could not read: %v", uri))
	}
	return r, nil
}

// NewWriter creates a new Writer for the object. The object is only committed when the writer is closed.
func (h *GcsHelper) NewWriter(uri string) (io.Writer, error) {
	obj, err := h.object(uri)
	if err != nil {
		return nil, err
	}
	return obj.NewWriter(h.Ctx), nil
}
