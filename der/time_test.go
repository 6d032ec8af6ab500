package der

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralizedTimeLeapSecond(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsValidGeneralizedTime("20231231235960Z"))
	assert.False(IsValidGeneralizedTime("20230715235960Z"))
}

func TestGeneralizedTimeDecodeLeapSecondHex(t *testing.T) {
	require := require.New(t)

	data := []byte{0x18, 0x0F, '2', '0', '2', '3', '1', '2', '3', '1', '2', '3', '5', '9', '6', '0', 'Z'}
	tlv, err := ReadTLV(data)
	require.NoError(err)

	_, err = DecodeGeneralizedTime(tlv.Content)
	require.NoError(err)
}

func TestGeneralizedTimeRejectsNonLeapDate(t *testing.T) {
	_, err := DecodeGeneralizedTime([]byte("20230715235960Z"))
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidContent})
}

func TestGeneralizedTimeGrammarVariants(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsValidGeneralizedTime("2023063023Z"))
	assert.True(IsValidGeneralizedTime("202306302359Z"))
	assert.True(IsValidGeneralizedTime("20230630235959Z"))
	assert.True(IsValidGeneralizedTime("20230630235959.1234Z"))
	assert.True(IsValidGeneralizedTime("20230630235959+0130"))
	assert.True(IsValidGeneralizedTime("20230630235959-01"))

	// documented limitation: Feb 31st is accepted
	assert.True(IsValidGeneralizedTime("20230231120000Z"))

	assert.False(IsValidGeneralizedTime("2023133123Z"))  // month 13
	assert.False(IsValidGeneralizedTime("20230630246000Z")) // hour 24, not a zone
	assert.False(IsValidGeneralizedTime(""))
}

func TestGeneralizedTimeEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	src, err := time.Parse(time.RFC3339, "2024-05-06T07:08:09Z")
	require.NoError(err)

	tlv, err := ReadTLV(EncodeGeneralizedTime(ClassUniversal, src))
	require.NoError(err)
	assert.Equal("20240506070809Z", string(tlv.Content))

	decoded, err := DecodeGeneralizedTime(tlv.Content)
	require.NoError(err)
	assert.Equal(2024, decoded.Year())
}
