package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		names []string
	}{
		{"array of objects", `[{"name":"bytes","configuration":{"endian":"little"}},{"name":"zstd","configuration":{"level":1}}]`, []string{"bytes", "zstd"}},
		{"array of strings", `["bytes", "crc32c"]`, []string{"bytes", "crc32c"}},
		{"array metadata", `{"zarr_format":3,"codecs":[{"name":"bytes"}]}`, []string{"bytes"}},
		{"single codec", `{"name":"gzip","configuration":{"level":5}}`, []string{"gzip"}},
		{"empty chain", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseMetadata([]byte(tt.in))
			require.NoError(t, err)
			names := make([]string, 0, len(specs))
			for _, s := range specs {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestParseMetadataKeepsConfiguration(t *testing.T) {
	specs, err := ParseMetadata([]byte(`[{"name":"zstd","configuration":{"level":7,"checksum":true}}]`))
	require.NoError(t, err)
	require.Len(t, specs, 1)

	var cfg zstdConfig
	require.NoError(t, decodeConfig(specs[0].Configuration, &cfg))
	require.NotNil(t, cfg.Level)
	assert.Equal(t, 7, *cfg.Level)
	assert.True(t, cfg.Checksum)
}

func TestParseMetadataInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"42",
		`[{"name":"bytes"`,
		`[{"configuration":{}}]`,
		`{"zarr_format":3}`,
		`[1, 2]`,
	} {
		_, err := ParseMetadata([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidMetadata, in)
	}
}
