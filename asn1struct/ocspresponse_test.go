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

func sha1AlgID(t *testing.T) AlgorithmIdentifier {
	t.Helper()
	oid, err := der.ParseOID("1.3.14.3.2.26")
	require.NoError(t, err)
	return AlgorithmIdentifier{Algorithm: oid}
}

func TestCertIDRoundTrip(t *testing.T) {
	assert := assert.New(t)

	cid := CertID{
		HashAlgorithm:  sha1AlgID(t),
		IssuerNameHash: []byte{1, 2, 3, 4},
		IssuerKeyHash:  []byte{5, 6, 7, 8},
		SerialNumber:   big.NewInt(424242),
	}

	encoded, err := cid.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[CertID] { return newCertIDBuilder() })
	assert.NoError(err)
	assert.Equal(cid.IssuerNameHash, decoded.IssuerNameHash)
	assert.Equal(cid.IssuerKeyHash, decoded.IssuerKeyHash)
	assert.Equal(0, cid.SerialNumber.Cmp(decoded.SerialNumber))
	assert.Equal(cid.HashAlgorithm.Algorithm, decoded.HashAlgorithm.Algorithm)
}

func TestResponderIDRoundTripByName(t *testing.T) {
	assert := assert.New(t)

	name := Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
		atv(t, "2.5.4.3", der.KindUTF8String, "Example Responder"),
	}}}}
	rid := ResponderID{Kind: ResponderIDByName, Name: name}

	encoded, err := rid.Encode()
	assert.NoError(err)
	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[ResponderID] { return newResponderIDBuilder() })
	assert.NoError(err)
	assert.Equal(ResponderIDByName, decoded.Kind)
	assert.True(name.Equal(decoded.Name))
}

func TestResponderIDRoundTripByKey(t *testing.T) {
	assert := assert.New(t)

	rid := ResponderID{Kind: ResponderIDByKey, KeyHash: []byte{0xaa, 0xbb, 0xcc}}

	encoded, err := rid.Encode()
	assert.NoError(err)
	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[ResponderID] { return newResponderIDBuilder() })
	assert.NoError(err)
	assert.Equal(ResponderIDByKey, decoded.Kind)
	assert.Equal(rid.KeyHash, decoded.KeyHash)
}

func TestCertStatusRoundTrip(t *testing.T) {
	assert := assert.New(t)

	good := CertStatus{Kind: CertStatusGood}
	encoded, err := good.Encode()
	assert.NoError(err)
	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[CertStatus] { return newCertStatusBuilder() })
	assert.NoError(err)
	assert.Equal(CertStatusGood, decoded.Kind)

	unknown := CertStatus{Kind: CertStatusUnknown}
	encoded, err = unknown.Encode()
	assert.NoError(err)
	decoded, err = builder.Parse(encoded, func() builder.RootBuilder[CertStatus] { return newCertStatusBuilder() })
	assert.NoError(err)
	assert.Equal(CertStatusUnknown, decoded.Kind)

	revokedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	revoked := CertStatus{Kind: CertStatusRevoked, RevocationTime: revokedAt}
	encoded, err = revoked.Encode()
	assert.NoError(err)
	decoded, err = builder.Parse(encoded, func() builder.RootBuilder[CertStatus] { return newCertStatusBuilder() })
	assert.NoError(err)
	assert.Equal(CertStatusRevoked, decoded.Kind)
	assert.True(revokedAt.Equal(decoded.RevocationTime))
}

func TestSingleResponseRoundTrip(t *testing.T) {
	assert := assert.New(t)

	sr := SingleResponse{
		CertID: CertID{
			HashAlgorithm:  sha1AlgID(t),
			IssuerNameHash: []byte{1, 2, 3},
			IssuerKeyHash:  []byte{4, 5, 6},
			SerialNumber:   big.NewInt(7),
		},
		CertStatus: CertStatus{Kind: CertStatusGood},
		ThisUpdate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	encoded, err := sr.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[SingleResponse] { return newSingleResponseBuilder() })
	assert.NoError(err)
	assert.Equal(CertStatusGood, decoded.CertStatus.Kind)
	assert.True(sr.ThisUpdate.Equal(decoded.ThisUpdate))
	assert.Nil(decoded.NextUpdate)
	assert.Empty(decoded.SingleExtensions)
}

func TestOCSPResponseRoundTripMalformedRequest(t *testing.T) {
	assert := assert.New(t)

	resp := OCSPResponse{ResponseStatus: OCSPResponseMalformedRequest}
	encoded, err := resp.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewOCSPResponseBuilder)
	assert.NoError(err)
	assert.Equal(OCSPResponseMalformedRequest, decoded.ResponseStatus)
	assert.Nil(decoded.ResponseBytes)
}

func TestOCSPResponseRoundTripWithResponseBytes(t *testing.T) {
	assert := assert.New(t)

	basicOID, err := der.ParseOID("1.3.6.1.5.5.7.48.1.1")
	require.NoError(t, err)

	resp := OCSPResponse{
		ResponseStatus: OCSPResponseSuccessful,
		ResponseBytes: &ResponseBytes{
			ResponseType: basicOID,
			Response:     []byte{0x30, 0x00}, // opaque payload, not re-parsed here
		},
	}

	encoded, err := resp.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewOCSPResponseBuilder)
	assert.NoError(err)
	assert.Equal(OCSPResponseSuccessful, decoded.ResponseStatus)
	require.NotNil(t, decoded.ResponseBytes)
	assert.Equal(basicOID, decoded.ResponseBytes.ResponseType)
	assert.Equal(resp.ResponseBytes.Response, decoded.ResponseBytes.Response)
}
