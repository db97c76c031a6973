package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64ToInt(t *testing.T) {
	v, err := Uint64ToInt(42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestIntToUint32(t *testing.T) {
	v, err := IntToUint32(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)

	_, err = IntToUint32(-1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestByteLen(t *testing.T) {
	n, err := ByteLen([]uint64{3, 4}, 8)
	require.NoError(t, err)
	assert.Equal(t, 96, n)

	n, err = ByteLen(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = ByteLen([]uint64{1 << 40, 1 << 40}, 4)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulUint64(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}
