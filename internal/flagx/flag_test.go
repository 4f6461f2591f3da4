package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "/data", "-x", "1"},
			allowed: []string{"-d"},
			want:    []string{"-d", "/data"},
		},
		{
			name:    "joined value",
			args:    []string{"-d=/data", "-x=1"},
			allowed: []string{"-d"},
			want:    []string{"-d=/data"},
		},
		{
			name:    "boolean flag without value",
			args:    []string{"-debug", "-d", "/data"},
			allowed: []string{"-debug"},
			want:    []string{"-debug"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-debug", "-d", "/data"},
			allowed: []string{"-debug", "-d"},
			want:    []string{"-debug", "-d", "/data"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "positional arguments are dropped",
			args:    []string{"run", "-d", "/data"},
			allowed: []string{"-d"},
			want:    []string{"-d", "/data"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
