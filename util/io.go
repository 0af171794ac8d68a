package util

import (
	"io"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// MaybeClose will close v if its a Closer. This works for readers and writers alike.
// Intended to be used with calls to defer.
func MaybeClose(v any) {
	log := zapr.NewLogger(zap.L())
	if closer, isCloser := v.(io.Closer); isCloser {
		err := closer.Close()

		if err != nil {
			log.Error(err, "Error closing stream")
		}
	}
}
