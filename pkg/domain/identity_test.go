package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Identity
		wantErr bool
	}{
		{name: "lowercases", raw: "John Doe", want: "john doe"},
		{name: "trims whitespace", raw: "  alice  ", want: "alice"},
		{name: "already normalized", raw: "voter1", want: "voter1"},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "too long", raw: strings.Repeat("a", 129), wantErr: true},
		{name: "path separator rejected", raw: "../etc/passwd", wantErr: true},
		{name: "punctuation allowed", raw: "j.doe_23-a", want: "j.doe_23-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentity(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIdentityIdempotent(t *testing.T) {
	first, err := ParseIdentity("Bob Johnson")
	require.NoError(t, err)
	second, err := ParseIdentity(first.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
