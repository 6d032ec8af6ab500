package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// DirectoryString is the RFC 5280 §4.1.2.4 CHOICE of string kinds used for
// RDN attribute values. Kind names which alternative was present; Value is
// always kept as the raw decoded bytes.
type DirectoryString struct {
	Kind  der.StringKind
	Value []byte
}

// AttributeTypeAndValue is one RDN component: Type OID, Value (a
// DirectoryString for the common attribute types).
type AttributeTypeAndValue struct {
	Type  der.OID
	Value DirectoryString
}

// RDN is SET OF AttributeTypeAndValue (RFC 5280's RelativeDistinguishedName).
type RDN struct {
	Attributes []AttributeTypeAndValue
}

// Name is RDNSequence, a Name CHOICE resolved to its only production
// (RFC 5280 §4.1.2.4). Per the Open Question decided in DESIGN.md, a Name
// must carry at least one RDN.
type Name struct {
	RDNs []RDN
}

// Equal compares two Names by their canonical encoded form, per DESIGN.md's
// Open Question decision on equality.
func (n Name) Equal(other Name) bool {
	a, errA := n.Encode()
	b, errB := other.Encode()
	if errA != nil || errB != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- AttributeTypeAndValue builder ---

const (
	atvType ElementIdentifier = iota
	atvValue
)

func decodeDirectoryStringTLV(tlv der.TLV) (DirectoryString, error) {
	var kind der.StringKind
	switch tlv.Header.Tag {
	case der.TagUTF8String:
		kind = der.KindUTF8String
	case der.TagPrintableString:
		kind = der.KindPrintableString
	case der.TagIA5String:
		kind = der.KindIA5String
	case der.TagT61String:
		kind = der.KindT61String
	case der.TagVisibleString:
		kind = der.KindVisibleString
	case der.TagUniversalString:
		kind = der.KindUniversalString
	case der.TagBMPString:
		kind = der.KindBMPString
	default:
		return DirectoryString{}, &der.Error{Kind: der.KindUnsupportedFormat, Where: "directory-string", Reason: "unrecognized string tag"}
	}
	return DirectoryString{Kind: kind, Value: der.DecodeCharString(tlv.Content)}, nil
}

// directoryStringBuilder accepts any one of the DirectoryString alternative
// tags via a RawCapture, then decodes it on Yield.
type directoryStringBuilder struct {
	raw *builder.RawCapture
}

func newDirectoryStringBuilder() *directoryStringBuilder {
	return &directoryStringBuilder{raw: builder.NewRawCapture()}
}

func (b *directoryStringBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.raw.OnPrimitive(class, tag, content)
}
func (b *directoryStringBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.raw.OnConstructedOpen(class, tag)
}
func (b *directoryStringBuilder) OnConstructedClose() error { return b.raw.OnConstructedClose() }
func (b *directoryStringBuilder) Reset()                    { b.raw.Reset() }

func (b *directoryStringBuilder) Yield() (DirectoryString, error) {
	tlvBytes, err := b.raw.Yield()
	if err != nil {
		return DirectoryString{}, err
	}
	tlv, err := der.ReadTLV(tlvBytes)
	if err != nil {
		return DirectoryString{}, err
	}
	return decodeDirectoryStringTLV(tlv)
}

func newAttributeTypeAndValueBuilder() *attributeTypeAndValueBuilder {
	b := &attributeTypeAndValueBuilder{
		oid:   builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOID, der.DecodeOID),
		value: newDirectoryStringBuilder(),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type attributeTypeAndValueBuilder struct {
	sm    *builder.StateMachine
	oid   *builder.PrimitiveBuilder[der.OID]
	value *directoryStringBuilder
}

func (b *attributeTypeAndValueBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOID}, Target: atvType},
		{Input: builder.ElementInput{Any: true}, Target: atvValue},
	}
}

func (b *attributeTypeAndValueBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case atvType:
		return b.oid
	case atvValue:
		return b.value
	}
	panic("asn1struct: unknown AttributeTypeAndValue element")
}

func (b *attributeTypeAndValueBuilder) DoYield() error { return nil }
func (b *attributeTypeAndValueBuilder) DoReset() {
	b.oid.Reset()
	b.value.Reset()
}

func (b *attributeTypeAndValueBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *attributeTypeAndValueBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *attributeTypeAndValueBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *attributeTypeAndValueBuilder) Reset()                    { b.sm.Reset() }

func (b *attributeTypeAndValueBuilder) Yield() (AttributeTypeAndValue, error) {
	oid, err := b.oid.Yield()
	if err != nil {
		return AttributeTypeAndValue{}, err
	}
	value, err := b.value.Yield()
	if err != nil {
		return AttributeTypeAndValue{}, err
	}
	return AttributeTypeAndValue{Type: oid, Value: value}, nil
}

// --- RDN (SET OF AttributeTypeAndValue) builder ---

func newRDNBuilder() *builder.SequenceOfBuilder[AttributeTypeAndValue] {
	return builder.NewSequenceOfBuilder(func() builder.Element[AttributeTypeAndValue] {
		return newAttributeTypeAndValueBuilder()
	})
}

// --- Name (SEQUENCE OF RDN) builder ---

func newRDNSequenceElement() builder.Element[RDN] {
	return newRDNElementBuilder()
}

// rdnElementBuilder wraps a SET-OF-AttributeTypeAndValue SequenceOfBuilder
// so it can itself serve as one element of the outer RDNSequence.
type rdnElementBuilder struct {
	inner *builder.SequenceOfBuilder[AttributeTypeAndValue]
}

func newRDNElementBuilder() *rdnElementBuilder {
	return &rdnElementBuilder{inner: newRDNBuilder()}
}

func (b *rdnElementBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.inner.OnPrimitive(class, tag, content)
}
func (b *rdnElementBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.inner.OnConstructedOpen(class, tag)
}
func (b *rdnElementBuilder) OnConstructedClose() error { return b.inner.OnConstructedClose() }
func (b *rdnElementBuilder) Reset()                    { b.inner.Reset() }
func (b *rdnElementBuilder) Yield() (RDN, error) {
	atvs, err := b.inner.Yield()
	if err != nil {
		return RDN{}, err
	}
	return RDN{Attributes: atvs}, nil
}

// NewNameBuilder returns a builder.RootBuilder assembling a Name from
// RDNSequence bytes (the content of a Name CHOICE, tag SEQUENCE).
func NewNameBuilder() builder.RootBuilder[Name] {
	return &nameBuilder{inner: builder.NewSequenceOfBuilder(newRDNSequenceElement)}
}

type nameBuilder struct {
	inner *builder.SequenceOfBuilder[RDN]
}

func (b *nameBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.inner.OnPrimitive(class, tag, content)
}
func (b *nameBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.inner.OnConstructedOpen(class, tag)
}
func (b *nameBuilder) OnConstructedClose() error { return b.inner.OnConstructedClose() }
func (b *nameBuilder) Reset()                    { b.inner.Reset() }
func (b *nameBuilder) Yield() (Name, error) {
	rdns, err := b.inner.Yield()
	if err != nil {
		return Name{}, err
	}
	if len(rdns) == 0 {
		return Name{}, &der.Error{Kind: der.KindIncompleteInput, Where: "name", Reason: "RDNSequence must contain at least one RDN"}
	}
	return Name{RDNs: rdns}, nil
}

// Encode serializes v.
func (v AttributeTypeAndValue) Encode() ([]byte, error) {
	oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, v.Type)
	if err != nil {
		return nil, err
	}
	valueTLV := der.EncodeCharString(der.ClassUniversal, v.Value.Kind, v.Value.Value)
	content := append(oidTLV, valueTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// Encode serializes r as a SET OF AttributeTypeAndValue, sorted by each
// member's own encoded bytes per DER's SET-OF canonicalization rule.
func (r RDN) Encode() ([]byte, error) {
	encoded := make([][]byte, len(r.Attributes))
	for i, atv := range r.Attributes {
		enc, err := atv.Encode()
		if err != nil {
			return nil, err
		}
		encoded[i] = enc
	}
	sortByteSlices(encoded)
	var content []byte
	for _, enc := range encoded {
		content = append(content, enc...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSet, len(content)), content...), nil
}

// Encode serializes n as RDNSequence (SEQUENCE OF RelativeDistinguishedName).
func (n Name) Encode() ([]byte, error) {
	if len(n.RDNs) == 0 {
		return nil, &der.Error{Kind: der.KindIncompleteInput, Where: "name", Reason: "RDNSequence must contain at least one RDN"}
	}
	var content []byte
	for _, rdn := range n.RDNs {
		enc, err := rdn.Encode()
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
