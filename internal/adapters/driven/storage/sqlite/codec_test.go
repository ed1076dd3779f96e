package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCodec(t *testing.T) {
	original := []float32{0.25, -1.5, 3.0, 0}

	decoded, err := decodeVector(encodeVector(original))

	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestVectorCodec_Empty(t *testing.T) {
	assert.Nil(t, encodeVector(nil))

	decoded, err := decodeVector(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeVector_Truncated(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3, 4, 5})

	assert.Error(t, err)
}
