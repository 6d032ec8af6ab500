package der

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBigIntBoundaries(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -128, 128, 32767, -32768, -32769}
	for _, v := range cases {
		t.Run(big.NewInt(v).String(), func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			encoded, err := EncodeBigInt(ClassUniversal, big.NewInt(v))
			require.NoError(err)

			tlv, err := ReadTLV(encoded)
			require.NoError(err)
			assert.Equal(TagInteger, tlv.Header.Tag)

			decoded, err := DecodeBigInt(tlv.Content)
			require.NoError(err)
			assert.Equal(v, decoded.Int64())
		})
	}
}

func TestEncodeIntegerEmptyContentFails(t *testing.T) {
	_, err := EncodeInteger(ClassUniversal, nil)
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidContent})
}

func TestDecodeIntegerRejectsNonMinimal(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeInteger([]byte{0x00, 0x01})
	assert.ErrorIs(err, &Error{Kind: KindInvalidContent})

	_, err = DecodeInteger([]byte{0xFF, 0x80})
	assert.ErrorIs(err, &Error{Kind: KindInvalidContent})

	// valid: 0x00 followed by a high-bit byte is required to disambiguate sign.
	v, err := DecodeInteger([]byte{0x00, 0x80})
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0x80}, v)
}

func TestEncodeEnumeratedRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	encoded, err := EncodeEnumerated(ClassUniversal, Enumerated(6))
	require.NoError(err)

	tlv, err := ReadTLV(encoded)
	require.NoError(err)
	assert.Equal(TagEnumerated, tlv.Header.Tag)

	v, err := DecodeEnumerated(tlv.Content)
	require.NoError(err)
	assert.Equal(Enumerated(6), v)
}
