package files

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// dirPerm is the permission used for directories created by NewWriter.
const dirPerm = 0750

type LocalFileHelper struct{}

// NewReader creates a new Reader for local file. A file:// prefix is stripped.
func (h *LocalFileHelper) NewReader(uri string) (io.Reader, error) {
	reader, err := os.Open(trimScheme(uri))

	if err != nil {
		return nil, errors.WithStack(errors.Wrapf(err, "Could not read: %v", uri))
	}

	return reader, nil
}

// NewWriter creates a new Writer for the local file. Missing parent directories are created and an
// existing file is truncated.
func (h *LocalFileHelper) NewWriter(uri string) (io.Writer, error) {
	uri = trimScheme(uri)
	dir := filepath.Dir(uri)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, errors.WithStack(errors.Wrapf(err, "Could not create directory: %v", dir))
		}
	}
	writer, err := os.Create(uri)

	if err != nil {
		return nil, errors.WithStack(errors.Wrapf(err, "Could not write: %v", uri))
	}

	return writer, nil
}

// Exists checks whether the file exists.
func (h *LocalFileHelper) Exists(uri string) (bool, error) {
	_, err := os.Stat(trimScheme(uri))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "Could not stat: %v", uri)
	}
	return true, nil
}

func trimScheme(uri string) string {
	return strings.TrimPrefix(uri, FileScheme+"://")
}
