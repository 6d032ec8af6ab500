package asn1struct

import (
	"testing"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGeneralName(t *testing.T, data []byte) GeneralName {
	t.Helper()
	gn, err := builder.Parse(data, func() builder.RootBuilder[GeneralName] { return newGeneralNameBuilder() })
	require.NoError(t, err)
	return gn
}

func TestGeneralNameRoundTripSimpleVariants(t *testing.T) {
	assert := assert.New(t)

	cases := []GeneralName{
		{Kind: GeneralNameRFC822, RFC822Name: "admin@example.com"},
		{Kind: GeneralNameDNS, DNSName: "example.com"},
		{Kind: GeneralNameURI, URI: "https://example.com/crl"},
		{Kind: GeneralNameIP, IPAddress: []byte{127, 0, 0, 1}},
	}

	for _, gn := range cases {
		encoded, err := gn.Encode()
		assert.NoError(err)
		decoded := parseGeneralName(t, encoded)
		assert.Equal(gn, decoded)
	}
}

func TestGeneralNameRoundTripRegisteredID(t *testing.T) {
	assert := assert.New(t)

	oid, err := der.ParseOID("1.2.840.113549.1.1.11")
	require.NoError(t, err)
	gn := GeneralName{Kind: GeneralNameRegisteredID, RegisteredID: oid}

	encoded, err := gn.Encode()
	assert.NoError(err)
	decoded := parseGeneralName(t, encoded)
	assert.Equal(GeneralNameRegisteredID, decoded.Kind)
	assert.Equal(oid, decoded.RegisteredID)
}

func TestGeneralNameRoundTripDirectoryName(t *testing.T) {
	assert := assert.New(t)

	name := Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
		atv(t, "2.5.4.3", der.KindUTF8String, "Example Directory CA"),
	}}}}
	gn := GeneralName{Kind: GeneralNameDirectory, DirectoryName: name}

	encoded, err := gn.Encode()
	assert.NoError(err)
	decoded := parseGeneralName(t, encoded)
	assert.Equal(GeneralNameDirectory, decoded.Kind)
	assert.True(name.Equal(decoded.DirectoryName))
}

func TestGeneralNameUnrecognizedVariantKeptRaw(t *testing.T) {
	assert := assert.New(t)

	// [3] x400Address: modeled only as RawOther since no library in reach
	// decodes X.400 O/R addresses.
	raw := append(der.EncodeHeader(der.ClassContextSpecific, true, 3, 2), 0x05, 0x00)
	decoded := parseGeneralName(t, raw)
	assert.Equal(GeneralNameOther, decoded.Kind)
	assert.Equal(raw, decoded.RawOther)
}
