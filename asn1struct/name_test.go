package asn1struct

import (
	"testing"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atv(t *testing.T, oidStr string, kind der.StringKind, value string) AttributeTypeAndValue {
	t.Helper()
	oid, err := der.ParseOID(oidStr)
	require.NoError(t, err)
	return AttributeTypeAndValue{Type: oid, Value: DirectoryString{Kind: kind, Value: []byte(value)}}
}

func TestNameRoundTrip(t *testing.T) {
	assert := assert.New(t)

	cn := atv(t, "2.5.4.3", der.KindUTF8String, "Example CA")
	o := atv(t, "2.5.4.10", der.KindPrintableString, "Example Org")

	name := Name{RDNs: []RDN{
		{Attributes: []AttributeTypeAndValue{o}},
		{Attributes: []AttributeTypeAndValue{cn}},
	}}

	encoded, err := name.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, func() builder.RootBuilder[Name] { return NewNameBuilder() })
	assert.NoError(err)
	assert.True(name.Equal(decoded))
	assert.Equal(2, len(decoded.RDNs))
	assert.Equal("Example Org", string(decoded.RDNs[0].Attributes[0].Value.Value))
	assert.Equal("Example CA", string(decoded.RDNs[1].Attributes[0].Value.Value))
}

func TestNameRDNSetOfSorting(t *testing.T) {
	assert := assert.New(t)

	// Two attributes in one RDN: RDN.Encode must canonicalize their order
	// by encoded bytes regardless of the slice order given.
	rdn := RDN{Attributes: []AttributeTypeAndValue{
		atv(t, "2.5.4.3", der.KindUTF8String, "zzz"),
		atv(t, "2.5.4.3", der.KindUTF8String, "aaa"),
	}}
	reversed := RDN{Attributes: []AttributeTypeAndValue{rdn.Attributes[1], rdn.Attributes[0]}}

	a, err := rdn.Encode()
	assert.NoError(err)
	b, err := reversed.Encode()
	assert.NoError(err)
	assert.Equal(a, b)
}

func TestNameRejectsEmptyRDNSequence(t *testing.T) {
	assert := assert.New(t)

	empty := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, 0)
	_, err := builder.Parse(empty, func() builder.RootBuilder[Name] { return NewNameBuilder() })
	assert.Error(err)
	var derErr *der.Error
	assert.ErrorAs(err, &derErr)
	assert.Equal(der.KindIncompleteInput, derErr.Kind)
}
