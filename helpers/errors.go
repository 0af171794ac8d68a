package helpers

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// IgnoreError is a helper function to deal with errors.
func IgnoreError(err error) {
	if err == nil {
		return
	}
	log := zapr.NewLogger(zap.L())
	log.Error(err, "Unexpected error occurred")
}

// DeferIgnoreError is a helper function to ignore errors returned by functions called with defer.
func DeferIgnoreError(f func() error) {
	IgnoreError(f())
}

// IsTypeError returns true if the error is of the same type as target or if any of the causes is.
// Unlike errors.As the caller doesn't need a typed pointer; the comparison uses reflection.
func IsTypeError(err error, target error) bool {
	if target == nil || err == nil {
		return err == target
	}

	expected := reflect.Indirect(reflect.ValueOf(target)).Type()

	for {
		actual := reflect.Indirect(reflect.ValueOf(err)).Type()
		if actual == expected {
			return true
		}
		if err = errors.Unwrap(err); err == nil {
			return false
		}
	}
}
