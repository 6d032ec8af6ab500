package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeaderShortForm(t *testing.T) {
	assert := assert.New(t)

	h := EncodeHeader(ClassUniversal, false, TagInteger, 3)
	assert.Equal([]byte{0x02, 0x03}, h)

	h = EncodeHeader(ClassContextSpecific, true, 0, 0)
	assert.Equal([]byte{0xA0, 0x00}, h)
}

func TestEncodeHeaderLongFormLengthBoundaries(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		length int
		want   []byte
	}{
		{127, []byte{0x04, 0x7F}},
		{128, []byte{0x04, 0x81, 0x80}},
		{255, []byte{0x04, 0x81, 0xFF}},
		{256, []byte{0x04, 0x82, 0x01, 0x00}},
		{65536, []byte{0x04, 0x83, 0x01, 0x00, 0x00}},
	}
	for _, c := range cases {
		got := EncodeHeader(ClassUniversal, false, TagOctetString, c.length)
		assert.Equal(c.want, got, "length=%d", c.length)
	}
}

func TestEncodeHeaderHighTagNumber(t *testing.T) {
	assert := assert.New(t)

	// tag 31 is the boundary where the long tag form kicks in.
	h := EncodeHeader(ClassContextSpecific, false, 31, 0)
	assert.Equal([]byte{0x9F, 0x1F, 0x00}, h)

	h = EncodeHeader(ClassContextSpecific, false, 30, 0)
	assert.Equal([]byte{0x9E, 0x00}, h)
}

func TestReadHeaderRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	encoded := EncodeHeader(ClassApplication, true, 200, 5)
	encoded = append(encoded, []byte{1, 2, 3, 4, 5}...)

	hdr, rest, err := ReadHeader(encoded)
	require.NoError(err)
	assert.Equal(ClassApplication, hdr.Class)
	assert.True(hdr.Constructed)
	assert.Equal(200, hdr.Tag)
	assert.Equal(5, hdr.Length)
	assert.Equal([]byte{1, 2, 3, 4, 5}, rest[:hdr.Length])
}

func TestReadHeaderIncompleteInput(t *testing.T) {
	assert := assert.New(t)

	_, _, err := ReadHeader([]byte{0x30})
	assert.ErrorIs(err, &Error{Kind: KindIncompleteInput})

	_, _, err = ReadHeader([]byte{0x30, 0x05, 0x01})
	assert.ErrorIs(err, &Error{Kind: KindIncompleteInput})
}

func TestReadTLV(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	data := append(EncodeHeader(ClassUniversal, false, TagInteger, 1), 0x05)
	data = append(data, 0xFF, 0xFF) // trailing garbage to confirm Rest slicing

	tlv, err := ReadTLV(data)
	require.NoError(err)
	assert.Equal([]byte{0x05}, tlv.Content)
	assert.Equal([]byte{0xFF, 0xFF}, tlv.Rest)
}
