package helpers

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

type SomeError struct {
}

func (e *SomeError) Error() string {
	return "some error"
}

func Test_IsTypeError(t *testing.T) {
	type testCase struct {
		name   string
		input  error
		target error

		expected bool
	}

	cases := []testCase{
		{
			name:     "basic",
			input:    &SomeError{},
			target:   &SomeError{},
			expected: true,
		},
		{
			name:     "type error",
			input:    &SomeError{},
			target:   &json.SyntaxError{},
			expected: false,
		},
		{
			name:     "wrapped type error",
			input:    errors.Wrap(&SomeError{}, "wrapped"),
			target:   &SomeError{},
			expected: true,
		},
		{
			name:     "nil input",
			input:    nil,
			target:   &SomeError{},
			expected: false,
		},
		{
			name:     "plain error",
			input:    errors.New("plain"),
			target:   &SomeError{},
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsTypeError(tc.input, tc.target)
			if got != tc.expected {
				t.Errorf("expected %v; got %v", tc.expected, got)
			}
		})
	}
}

func Test_DeferIgnoreError(t *testing.T) {
	called := false
	func() {
		defer DeferIgnoreError(func() error {
			called = true
			return errors.New("close failed")
		})
	}()
	if !called {
		t.Errorf("deferred function wasn't invoked")
	}
}
