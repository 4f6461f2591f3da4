package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"sentinel directly", ErrAuthFailed, true},
		{"wrapped sentinel", fmt.Errorf("%w: check user and password", ErrAuthFailed), true},
		{"deeply wrapped", fmt.Errorf("run: %w", fmt.Errorf("%w: path /out", ErrRemotePathNotFound)), true},
		{"invalid config", fmt.Errorf("%w: missing hostname", ErrInvalidConfig), true},
		{"invalid credential", fmt.Errorf("%w: no algorithm matched", ErrInvalidCredential), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsUserError(tc.err))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	for i, a := range userErrors {
		for j, b := range userErrors {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
