package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	want := time.Date(2024, 1, 1, 9, 43, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-01-01T09:43:00Z",
		"2024-01-01T11:43:00+02:00",
		"2024-01-01 09:43:00",
		"2024-01-01 09:43:00+00:00",
		"2024-01-01T09:43:00",
		" 2024-01-01 09:43 ",
	} {
		got, err := Parse(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, time.UTC, got.Location())
	}

	got, err := Parse("2024-01-01 09:43:00.250")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, got.Sub(want))
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "01/02/2024"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(time.Time{}))
	assert.Equal(t, "2024-01-01 00:25:00", Format(time.Date(2024, 1, 1, 0, 25, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-01 00:25:00.5", Format(time.Date(2024, 1, 1, 0, 25, 0, 500e6, time.UTC)))
	loc := time.FixedZone("X", 3600)
	assert.Equal(t, "2024-01-01 00:25:00", Format(time.Date(2024, 1, 1, 1, 25, 0, 0, loc)))
}
