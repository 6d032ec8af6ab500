package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOIDSha256WithRSA(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	oid, err := ParseOID("1.2.840.113549.1.1.11")
	require.NoError(err)

	encoded, err := EncodeOID(ClassUniversal, TagOID, oid)
	require.NoError(err)

	want := []byte{0x06, 0x09, 0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x0B}
	assert.Equal(want, encoded)

	tlv, err := ReadTLV(encoded)
	require.NoError(err)
	decoded, err := DecodeOID(tlv.Content)
	require.NoError(err)
	assert.True(decoded.Equal(oid))
	assert.Equal("1.2.840.113549.1.1.11", decoded.String())
}

func TestEncodeOIDRejectsInvalidArcs(t *testing.T) {
	assert := assert.New(t)

	_, err := EncodeOID(ClassUniversal, TagOID, OID{3, 1})
	assert.ErrorIs(err, &Error{Kind: KindInvalidContent})

	_, err = EncodeOID(ClassUniversal, TagOID, OID{1, 40})
	assert.ErrorIs(err, &Error{Kind: KindInvalidContent})

	_, err = EncodeOID(ClassUniversal, TagOID, OID{2})
	assert.ErrorIs(err, &Error{Kind: KindInvalidContent})
}

func TestDecodeOIDRejectsNonMinimalArc(t *testing.T) {
	_, err := DecodeOID([]byte{0x80, 0x01})
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidContent})
}

func TestRelativeOIDRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	value := OID{25, 3, 12}
	encoded, err := EncodeRelativeOID(ClassUniversal, value)
	require.NoError(err)

	tlv, err := ReadTLV(encoded)
	require.NoError(err)
	assert.Equal(TagRelativeOID, tlv.Header.Tag)

	decoded, err := DecodeRelativeOID(tlv.Content)
	require.NoError(err)
	assert.True(decoded.Equal(value))
}
