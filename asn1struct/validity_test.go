package asn1struct

import (
	"testing"
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/stretchr/testify/assert"
)

func TestValidityRoundTripUTCTimeRange(t *testing.T) {
	assert := assert.New(t)

	v := Validity{
		NotBefore: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	encoded, err := v.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[Validity] { return newValidityBuilder() })
	assert.NoError(err)
	assert.True(v.NotBefore.Equal(decoded.NotBefore))
	assert.True(v.NotAfter.Equal(decoded.NotAfter))
}

func TestValidityRoundTripGeneralizedTimeCutover(t *testing.T) {
	assert := assert.New(t)

	// 2050 falls outside UTCTime's two-digit-year range (RFC 5280
	// §4.1.2.5.1): both fields must fall back to GeneralizedTime.
	v := Validity{
		NotBefore: time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:  time.Date(2051, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	encoded, err := v.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[Validity] { return newValidityBuilder() })
	assert.NoError(err)
	assert.True(v.NotBefore.Equal(decoded.NotBefore))
	assert.True(v.NotAfter.Equal(decoded.NotAfter))
}
