package asn1struct

import (
	"math/big"
	"testing"
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerSerialRoundTrip(t *testing.T) {
	assert := assert.New(t)

	is := IssuerSerial{
		Issuer: []GeneralName{{Kind: GeneralNameDNS, DNSName: "ca.example.com"}},
		Serial: big.NewInt(99),
	}

	encoded, err := is.Encode()
	assert.NoError(err)
	decoded, err := decodeIssuerSerial(mustTLVContent(t, encoded))
	assert.NoError(err)
	assert.Equal(0, is.Serial.Cmp(decoded.Serial))
	require.Len(t, decoded.Issuer, 1)
	assert.Equal(GeneralNameDNS, decoded.Issuer[0].Kind)
	assert.Equal("ca.example.com", decoded.Issuer[0].DNSName)
}

func mustTLVContent(t *testing.T, encoded []byte) []byte {
	t.Helper()
	tlv, err := der.ReadTLV(encoded)
	require.NoError(t, err)
	return tlv.Content
}

func TestHolderRoundTripBaseCertificateID(t *testing.T) {
	assert := assert.New(t)

	h := Holder{BaseCertificateID: &IssuerSerial{
		Issuer: []GeneralName{{Kind: GeneralNameDNS, DNSName: "issuer.example.com"}},
		Serial: big.NewInt(7),
	}}

	encoded, err := h.Encode()
	assert.NoError(err)
	decoded, err := decodeHolderContent(mustTLVContent(t, encoded))
	assert.NoError(err)
	require.NotNil(t, decoded.BaseCertificateID)
	assert.Equal(0, h.BaseCertificateID.Serial.Cmp(decoded.BaseCertificateID.Serial))
	assert.Nil(decoded.EntityName)
	assert.Nil(decoded.ObjectDigestInfo)
}

func TestAttCertIssuerRoundTripV2Form(t *testing.T) {
	assert := assert.New(t)

	issuer := AttCertIssuer{
		Kind: AttCertIssuerV2Form,
		V2Form: V2Form{
			IssuerName: []GeneralName{{Kind: GeneralNameDNS, DNSName: "aa.example.com"}},
		},
	}

	encoded, err := issuer.Encode()
	assert.NoError(err)
	tlv, err := der.ReadTLV(encoded)
	assert.NoError(err)
	decoded, err := decodeAttCertIssuerTLV(tlv)
	assert.NoError(err)
	assert.Equal(AttCertIssuerV2Form, decoded.Kind)
	require.Len(t, decoded.V2Form.IssuerName, 1)
	assert.Equal("aa.example.com", decoded.V2Form.IssuerName[0].DNSName)
}

func TestAttCertValidityPeriodRoundTrip(t *testing.T) {
	assert := assert.New(t)

	v := AttCertValidityPeriod{
		NotBeforeTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfterTime:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	encoded, err := v.Encode()
	assert.NoError(err)
	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[AttCertValidityPeriod] { return newAttCertValidityPeriodBuilder() })
	assert.NoError(err)
	assert.True(v.NotBeforeTime.Equal(decoded.NotBeforeTime))
	assert.True(v.NotAfterTime.Equal(decoded.NotAfterTime))
}

func TestAttributeCertificateRoundTrip(t *testing.T) {
	assert := assert.New(t)

	ac := AttributeCertificate{
		ACInfo: AttributeCertificateInfo{
			Version: 1,
			Holder: Holder{
				EntityName: []GeneralName{{Kind: GeneralNameDNS, DNSName: "holder.example.com"}},
			},
			Issuer: AttCertIssuer{
				Kind:   AttCertIssuerV2Form,
				V2Form: V2Form{IssuerName: []GeneralName{{Kind: GeneralNameDNS, DNSName: "aa.example.com"}}},
			},
			Signature:    sha1AlgID(t),
			SerialNumber: big.NewInt(1001),
			AttrCertValidityPeriod: AttCertValidityPeriod{
				NotBeforeTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				NotAfterTime:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		SignatureAlgorithm: sha1AlgID(t),
		Signature:          der.BitString{Bytes: []byte{0x01, 0x02, 0x03}, UnusedBits: 0},
	}

	encoded, err := ac.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewAttributeCertificateBuilder)
	assert.NoError(err)

	assert.Equal(ac.ACInfo.Version, decoded.ACInfo.Version)
	assert.Equal(0, ac.ACInfo.SerialNumber.Cmp(decoded.ACInfo.SerialNumber))
	assert.Equal(AttCertIssuerV2Form, decoded.ACInfo.Issuer.Kind)
	require.Len(t, decoded.ACInfo.Holder.EntityName, 1)
	assert.Equal("holder.example.com", decoded.ACInfo.Holder.EntityName[0].DNSName)
	assert.Equal(ac.Signature, decoded.Signature)
	assert.NotEmpty(decoded.ACInfo.RawContent())
}
