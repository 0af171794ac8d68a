package files

import (
	"io"
)

const (
	FileScheme = "file"
	GCSScheme  = "gs"
)

// FileHelper is an interface intended to transparently handle working with GCS and local files.
// Readers and writers returned by implementations are also io.Closers; use util.MaybeClose to release them.
type FileHelper interface {
	Exists(path string) (bool, error)
	NewReader(path string) (io.Reader, error)
	NewWriter(path string) (io.Writer, error)
}
