package gcs

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jlewi/gcputil/files"
	"github.com/jlewi/gcputil/helpers"
	"github.com/jlewi/gcputil/util"
)

// Helper emulates directories in a flat bucket. A directory is a zero byte object whose name ends in "/".
type Helper struct {
	Bucket Bucket
	// Files reads the local files being uploaded. Defaults to LocalFileHelper.
	Files files.FileHelper
}

// NormalizeDir appends a trailing "/" to name if it is missing. The empty string refers to the root of
// the bucket and is returned unchanged.
func NormalizeDir(name string) string {
	if name == "" || strings.HasSuffix(name, "/") {
		return name
	}
	return name + "/"
}

// DirectoryExists returns true if at least one object has the directory as a prefix.
// "d" and "d/" are the same directory.
func (h *Helper) DirectoryExists(ctx context.Context, name string) (bool, error) {
	names, err := h.Bucket.List(ctx, NormalizeDir(name), 1)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// AddDirectory creates the marker object for the directory if the directory doesn't already exist.
// It returns true whether the directory was created or already existed; errors are the only failure signal.
//
// The marker is written with a does-not-exist precondition so two callers racing to create the same
// directory both succeed and only one write lands.
func (h *Helper) AddDirectory(ctx context.Context, name string) (bool, error) {
	log := zapr.NewLogger(zap.L())
	dir := NormalizeDir(name)
	if dir == "" {
		return true, nil
	}

	exists, err := h.DirectoryExists(ctx, dir)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	err = h.Bucket.Create(ctx, dir, string(helpers.ContentTypeDirectoryMarker), bytes.NewReader(nil), true)
	if err != nil && !errors.Is(err, ErrObjectExists) {
		return false, err
	}
	log.V(1).Info("Created directory", "uri", h.URI(dir))
	return true, nil
}

// AddFile uploads the local file at filePath into directoryName and returns the gs:// URI of the object.
// The object is named after the base name of the file; an existing object with that name is overwritten.
func (h *Helper) AddFile(ctx context.Context, filePath string, directoryName string) (string, error) {
	log := zapr.NewLogger(zap.L())
	dir := NormalizeDir(directoryName)

	// Open the file first so a bad path doesn't leave an empty directory behind.
	fHelper := h.Files
	if fHelper == nil {
		fHelper = &files.LocalFileHelper{}
	}
	reader, err := fHelper.NewReader(filePath)
	if err != nil {
		return "", err
	}
	defer util.MaybeClose(reader)

	if _, err := h.AddDirectory(ctx, dir); err != nil {
		return "", err
	}

	key := dir + filepath.Base(filePath)
	if err := h.Bucket.Create(ctx, key, contentTypeFor(filePath), reader, false); err != nil {
		return "", err
	}

	uri := h.URI(key)
	log.Info("Uploaded file", "file", filePath, "uri", uri)
	return uri, nil
}

// URI returns the gs:// URI of key in the helper's bucket.
func (h *Helper) URI(key string) string {
	return fmt.Sprintf("%s://%s/%s", files.GCSScheme, h.Bucket.Name(), key)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return string(helpers.ContentTypeJSON)
	case ".csv", ".txt", ".log":
		return string(helpers.ContentTypeText)
	default:
		return string(helpers.ContentTypeOctetStream)
	}
}
