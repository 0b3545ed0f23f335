package size

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]int64{
		"":       0,
		"4096":   4096,
		"256k":   256 * 1024,
		"256KiB": 256 * 1024,
		"1.5m":   1536 * 1024,
		" 2 MB ": 2 * 1024 * 1024,
		"1g":     1 << 30,
		"10b":    10,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "k", "1.2.3m", "-1", "-4k", "nank", "infm", "+Infk", "NaNb", "9e30t", "99999999999999999999"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "512B", FormatBytes(512))
	assert.Equal(t, "1.5KiB", FormatBytes(1536))
	assert.Equal(t, "1.0GiB", FormatBytes(1<<30))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1.2k", FormatNumber(1234))
	assert.Equal(t, "3.0M", FormatNumber(3_000_000))
}
