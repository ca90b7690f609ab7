package revision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TokenForm(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rev := New(1, []byte(`{"name":"Acme"}`), at)

	assert.Equal(t, int64(1), rev.Seq)
	assert.Len(t, rev.Digest, digestLen*2)

	parsed, err := Parse(rev.String())
	require.NoError(t, err)
	assert.Equal(t, rev, parsed)
}

func TestNew_TimestampSaltsDigest(t *testing.T) {
	payload := []byte(`{"name":"Acme"}`)
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	a := New(2, payload, at)
	b := New(2, payload, at.Add(time.Second))

	// Identical payloads written at different moments must still
	// produce divergent tokens.
	assert.NotEqual(t, a.Digest, b.Digest)
	assert.Equal(t, a.Seq, b.Seq)
}

func TestNew_Deterministic(t *testing.T) {
	payload := []byte(`{"stage":"won"}`)
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, New(3, payload, at), New(3, payload, at))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "3abcdef"},
		{"empty digest", "3-"},
		{"non-numeric seq", "x-abcdef"},
		{"zero seq", "0-abcdef"},
		{"negative seq", "-1-abcdef"},
		{"non-hex digest", "3-zzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRevision)
		})
	}
}

func TestParse_Valid(t *testing.T) {
	rev, err := Parse("17-00ff12")
	require.NoError(t, err)
	assert.Equal(t, Revision{Seq: 17, Digest: "00ff12"}, rev)
}
