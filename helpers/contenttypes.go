package helpers

type ContentType string

const (
	ContentTypeJSON        ContentType = "application/json"
	ContentTypeText        ContentType = "text/plain"
	ContentTypeOctetStream ContentType = "application/octet-stream"

	// ContentTypeDirectoryMarker is the content type written on the zero byte objects that stand in for
	// directories in a bucket.
	ContentTypeDirectoryMarker ContentType = "application/x-www-form-urlencoded:charset=UTF-8"
)
