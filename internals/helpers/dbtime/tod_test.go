package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockFormats(t *testing.T) {
	cases := map[string]string{
		"09:05":                     "09:05:00",
		" 17:30:15 ":                "17:30:15",
		"2024-05-01T08:15:00+07:00": "08:15:00",
		"2024-05-01 23:59:59":       "23:59:59",
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "9am", "25:00", "12:61:00", "2024-05-01Tnope"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestTodOnDate(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	ts, err := MustParse("09:30").On("2024-05-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, loc), ts)

	_, err = MustParse("09:30").On("2024-13-01", loc)
	assert.Error(t, err)
}

func TestScanAndValue(t *testing.T) {
	var tod Tod
	require.NoError(t, tod.Scan([]byte("07:45")))
	v, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "07:45:00", v)

	require.NoError(t, tod.Scan(nil))
	v, _ = tod.Value()
	assert.Equal(t, "00:00:00", v)
}

func TestLoadLocationFallback(t *testing.T) {
	loc := LoadLocation("Not/AZone")
	assert.NotNil(t, loc)
	assert.Equal(t, time.UTC, LoadLocation("UTC"))
}

func TestFixedClock(t *testing.T) {
	c := &FixedClock{T: time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2024-05-01", Today(c))
	c.Advance(2 * time.Minute)
	assert.Equal(t, "2024-05-02", Today(c))
}

func TestParseInConvertsOffsetToOfficeZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)

	got, err := ParseIn("2024-05-01T02:00:00Z", wib)
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", got.String())

	// tanpa offset = jam dinding kantor
	got, err = ParseIn("2024-05-01 08:15:00", wib)
	require.NoError(t, err)
	assert.Equal(t, "08:15:00", got.String())

	got, err = ParseIn("09:30", wib)
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", got.String())
}

func TestParseInstant(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)

	a, err := ParseInstant("2024-05-01", "2024-05-01T02:00:00Z", wib)
	require.NoError(t, err)
	b, err := ParseInstant("2024-05-01", "17:00", wib)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, b.Sub(a))

	_, err = ParseInstant("2024-05-01", "nanti", wib)
	assert.Error(t, err)
	_, err = ParseInstant("bukan-tanggal", "09:00", wib)
	assert.Error(t, err)
}
