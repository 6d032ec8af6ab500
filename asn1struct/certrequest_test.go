package asn1struct

import (
	"testing"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rsaSPKI(t *testing.T) SubjectPublicKeyInfo {
	t.Helper()
	oid, err := der.ParseOID("1.2.840.113549.1.1.1")
	require.NoError(t, err)
	return SubjectPublicKeyInfo{
		Algorithm:        AlgorithmIdentifier{Algorithm: oid, RawParameters: der.EncodeNull(), ParametersNull: true},
		SubjectPublicKey: der.BitString{Bytes: []byte{0x01, 0x02, 0x03, 0x04}, UnusedBits: 0},
	}
}

func TestCertificationRequestRoundTripNoAttributes(t *testing.T) {
	assert := assert.New(t)

	csr := CertificationRequest{
		CertificationRequestInfo: CertificationRequestInfo{
			Version: 0,
			Subject: Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
				atv(t, "2.5.4.3", der.KindUTF8String, "csr.example.com"),
			}}}},
			SubjectPKInfo: rsaSPKI(t),
		},
		SignatureAlgorithm: sha1AlgID(t),
		Signature:          der.BitString{Bytes: []byte{0xaa, 0xbb}, UnusedBits: 0},
	}

	encoded, err := csr.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewCertificationRequestBuilder)
	assert.NoError(err)
	assert.Equal(csr.CertificationRequestInfo.Version, decoded.CertificationRequestInfo.Version)
	assert.True(csr.CertificationRequestInfo.Subject.Equal(decoded.CertificationRequestInfo.Subject))
	assert.Empty(decoded.CertificationRequestInfo.Attributes)
	assert.Equal(csr.Signature, decoded.Signature)
	assert.NotEmpty(decoded.CertificationRequestInfo.RawContent())
}

func TestCertificationRequestRoundTripWithChallengePassword(t *testing.T) {
	assert := assert.New(t)

	cpOID, _ := oidChallengePassword()
	cpValue := der.EncodeCharString(der.ClassUniversal, der.KindUTF8String, []byte("hunter2"))

	csr := CertificationRequest{
		CertificationRequestInfo: CertificationRequestInfo{
			Version: 0,
			Subject: Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
				atv(t, "2.5.4.3", der.KindUTF8String, "csr2.example.com"),
			}}}},
			SubjectPKInfo: rsaSPKI(t),
			Attributes: []Attribute{
				{Type: cpOID, RawValues: [][]byte{cpValue}},
			},
		},
		SignatureAlgorithm: sha1AlgID(t),
		Signature:          der.BitString{Bytes: []byte{0xcc}, UnusedBits: 0},
	}

	encoded, err := csr.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewCertificationRequestBuilder)
	assert.NoError(err)
	require.Len(t, decoded.CertificationRequestInfo.Attributes, 1)
	pw, err := decoded.CertificationRequestInfo.Attributes[0].ChallengePassword()
	assert.NoError(err)
	assert.Equal("hunter2", string(pw.Value))
}
