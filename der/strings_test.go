package der

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrintableString(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsPrintableString([]byte("Kazakhstan CA 01")))
	assert.False(IsPrintableString([]byte("héllo")))
	assert.False(IsPrintableString([]byte("under_score")))
}

func TestIsIA5String(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsIA5String([]byte("user@example.com")))
	assert.False(IsIA5String([]byte("caf\xc3\xa9")))
}

func TestCharStringRoundTrip(t *testing.T) {
	assert := assert.New(t)

	encoded := EncodeCharString(ClassUniversal, KindUTF8String, []byte("hello"))
	tlv, err := ReadTLV(encoded)
	assert.NoError(err)
	assert.Equal(TagUTF8String, tlv.Header.Tag)
	assert.Equal([]byte("hello"), DecodeCharString(tlv.Content))
}
