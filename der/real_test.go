package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRealUnsupportedBase(t *testing.T) {
	_, err := EncodeReal(ClassUniversal, 1.5, 16)
	assert.ErrorIs(t, err, &Error{Kind: KindUnsupportedBase})
}

func TestEncodeRealZero(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	encoded, err := EncodeReal(ClassUniversal, 0, 10)
	require.NoError(err)
	tlv, err := ReadTLV(encoded)
	require.NoError(err)
	assert.Empty(tlv.Content)

	v, err := DecodeReal(tlv.Content)
	require.NoError(err)
	assert.Equal(float64(0), v)
}

func TestEncodeRealBase2RoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	for _, v := range []float64{1, -1, 0.5, 12345.6789, -0.125} {
		encoded, err := EncodeReal(ClassUniversal, v, 2)
		require.NoError(err)
		tlv, err := ReadTLV(encoded)
		require.NoError(err)
		decoded, err := DecodeReal(tlv.Content)
		require.NoError(err)
		assert.InDelta(v, decoded, 1e-9)
	}
}

func TestEncodeRealBase10RoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	encoded, err := EncodeReal(ClassUniversal, 1.5, 10)
	require.NoError(err)
	tlv, err := ReadTLV(encoded)
	require.NoError(err)
	decoded, err := DecodeReal(tlv.Content)
	require.NoError(err)
	assert.InDelta(1.5, decoded, 1e-9)
}
