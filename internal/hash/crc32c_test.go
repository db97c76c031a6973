package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C_KnownValue(t *testing.T) {
	// RFC 3720 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))

	h := NewCRC32C()
	_, _ = h.Write(make([]byte, 16))
	_, _ = h.Write(make([]byte, 16))
	assert.Equal(t, uint32(0x8a9136aa), h.Sum32())
}

func TestAppendSplit(t *testing.T) {
	payload := []byte("chunk payload")
	enc := AppendCRC32C(nil, payload)
	require.Len(t, enc, len(payload)+ChecksumSize)

	got, match, ok := SplitCRC32C(enc)
	require.True(t, ok)
	assert.True(t, match)
	assert.Equal(t, payload, got)

	enc[0] ^= 0xFF
	_, match, ok = SplitCRC32C(enc)
	require.True(t, ok)
	assert.False(t, match)

	_, _, ok = SplitCRC32C([]byte{1, 2})
	assert.False(t, ok)
}
