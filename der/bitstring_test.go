package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitStringRoundTripUnusedBitsBoundaries(t *testing.T) {
	for _, unused := range []int{0, 7} {
		t.Run("", func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			bs := BitString{Bytes: []byte{0x80}, UnusedBits: unused}
			encoded, err := EncodeBitString(ClassUniversal, false, TagBitString, false, bs)
			require.NoError(err)

			tlv, err := ReadTLV(encoded)
			require.NoError(err)
			decoded, err := DecodeBitString(tlv.Content)
			require.NoError(err)
			assert.Equal(bs, decoded)
		})
	}
}

func TestBitStringInvalidUnusedBits(t *testing.T) {
	_, err := EncodeBitString(ClassUniversal, false, TagBitString, false, BitString{Bytes: []byte{0x00}, UnusedBits: 8})
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidUnusedBits})

	_, err = DecodeBitString([]byte{8, 0x00})
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidUnusedBits})
}

func TestBitStringTrailingBitsMustBeZero(t *testing.T) {
	_, err := EncodeBitString(ClassUniversal, false, TagBitString, false, BitString{Bytes: []byte{0x01}, UnusedBits: 1})
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidContent})
}

func TestKeyUsageBitAccess(t *testing.T) {
	assert := assert.New(t)

	bs := BitString{Bytes: []byte{0xA0}, UnusedBits: 5}
	assert.True(bs.BitAt(0))  // digitalSignature
	assert.False(bs.BitAt(1)) // nonRepudiation
	assert.True(bs.BitAt(2))  // keyEncipherment
	for i := 3; i < 9; i++ {
		assert.False(bs.BitAt(i))
	}
}
