package asn1struct

import (
	"math/big"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// Attribute is RFC 2986's Attribute: a type OID plus a SET OF AttributeValue,
// kept as the raw TLV bytes of each value rather than a typed union.
// EncodeAttributeValue and the
// attribute-specific accessors below interpret the well-known attribute
// types on demand.
type Attribute struct {
	Type      der.OID
	RawValues [][]byte // each entry is one value's full TLV
}

// ExtensionRequest decodes a's values as RFC 2985's extensionRequest
// attribute (a single value, itself a SEQUENCE OF Extension), returning an
// error if a.Type is not the extensionRequest OID.
func (a Attribute) ExtensionRequest() ([]Extension, error) {
	extReqOID, _ := oidExtensionRequest()
	if !a.Type.Equal(extReqOID) {
		return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "attribute", Reason: "not an extensionRequest attribute"}
	}
	if len(a.RawValues) != 1 {
		return nil, &der.Error{Kind: der.KindInvalidContent, Where: "attribute", Reason: "extensionRequest must carry exactly one value"}
	}
	tlv, err := der.ReadTLV(a.RawValues[0])
	if err != nil {
		return nil, err
	}
	return decodeExtensionsContent(tlv.Content)
}

// ChallengePassword decodes a's single value as RFC 2985's challengePassword
// attribute (a DirectoryString).
func (a Attribute) ChallengePassword() (DirectoryString, error) {
	cpOID, _ := oidChallengePassword()
	if !a.Type.Equal(cpOID) {
		return DirectoryString{}, &der.Error{Kind: der.KindUnsupportedFormat, Where: "attribute", Reason: "not a challengePassword attribute"}
	}
	if len(a.RawValues) != 1 {
		return DirectoryString{}, &der.Error{Kind: der.KindInvalidContent, Where: "attribute", Reason: "challengePassword must carry exactly one value"}
	}
	tlv, err := der.ReadTLV(a.RawValues[0])
	if err != nil {
		return DirectoryString{}, err
	}
	return decodeDirectoryStringTLV(tlv)
}

func decodeExtensionsContent(content []byte) ([]Extension, error) {
	var out []Extension
	for len(content) > 0 {
		tlv, err := der.ReadTLV(content)
		if err != nil {
			return nil, err
		}
		rest := tlv.Content
		var ext Extension
		idTLV, err := der.ReadTLV(rest)
		if err != nil {
			return nil, err
		}
		ext.ID, err = der.DecodeOID(idTLV.Content)
		if err != nil {
			return nil, err
		}
		rest = idTLV.Rest
		next, err := der.ReadTLV(rest)
		if err != nil {
			return nil, err
		}
		if next.Header.Tag == der.TagBoolean {
			ext.Critical, err = der.DecodeBoolean(next.Content)
			if err != nil {
				return nil, err
			}
			rest = next.Rest
			next, err = der.ReadTLV(rest)
			if err != nil {
				return nil, err
			}
		}
		ext.Value = der.DecodeOctetString(next.Content)
		out = append(out, ext)
		content = tlv.Rest
	}
	return out, nil
}

func oidExtensionRequest() (der.OID, bool)  { return der.OID{1, 2, 840, 113549, 1, 9, 14}, true }
func oidChallengePassword() (der.OID, bool) { return der.OID{1, 2, 840, 113549, 1, 9, 7}, true }

// EncodeAttributeValue renders v as the raw TLV bytes of one AttributeValue
// for the attribute named by oid, an explicit switch dispatch over the
// closed set of attribute types this package models (supplemented from
// original_source/structure/attribute/attribute_encoder.h) rather than
// open-ended reflection.
func EncodeAttributeValue(oid der.OID, v any) ([]byte, error) {
	extReqOID, _ := oidExtensionRequest()
	cpOID, _ := oidChallengePassword()
	switch {
	case oid.Equal(extReqOID):
		exts, ok := v.([]Extension)
		if !ok {
			return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "attribute-value", Reason: "extensionRequest value must be []Extension"}
		}
		return EncodeExtensions(exts)
	case oid.Equal(cpOID):
		ds, ok := v.(DirectoryString)
		if !ok {
			return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "attribute-value", Reason: "challengePassword value must be DirectoryString"}
		}
		return der.EncodeCharString(der.ClassUniversal, ds.Kind, ds.Value), nil
	default:
		raw, ok := v.([]byte)
		if !ok {
			return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "attribute-value", Reason: "unrecognized attribute type needs a pre-encoded []byte value"}
		}
		return raw, nil
	}
}

// Encode serializes a.
func (a Attribute) Encode() ([]byte, error) {
	oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, a.Type)
	if err != nil {
		return nil, err
	}
	var values [][]byte
	for _, v := range a.RawValues {
		values = append(values, v)
	}
	sortByteSlices(values)
	var valuesContent []byte
	for _, v := range values {
		valuesContent = append(valuesContent, v...)
	}
	content := append(oidTLV, der.EncodeHeader(der.ClassUniversal, true, der.TagSet, len(valuesContent))...)
	content = append(content, valuesContent...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

const (
	attrType   ElementIdentifier = iota
	attrValues
)

func newAttributeBuilder() *attributeBuilder {
	b := &attributeBuilder{
		typeID: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOID, der.DecodeOID),
		values: builder.NewSequenceOfBuilder(func() builder.Element[[]byte] { return builder.NewRawCapture() }),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type attributeBuilder struct {
	sm     *builder.StateMachine
	typeID *builder.PrimitiveBuilder[der.OID]
	values *builder.SequenceOfBuilder[[]byte]
}

func (b *attributeBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOID}, Target: attrType},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSet}, Target: attrValues},
	}
}

func (b *attributeBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case attrType:
		return b.typeID
	case attrValues:
		return b.values
	}
	panic("asn1struct: unknown Attribute element")
}

func (b *attributeBuilder) DoYield() error { return nil }
func (b *attributeBuilder) DoReset() {
	b.typeID.Reset()
	b.values.Reset()
}

func (b *attributeBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *attributeBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *attributeBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *attributeBuilder) Reset()                    { b.sm.Reset() }

func (b *attributeBuilder) Yield() (Attribute, error) {
	typeID, err := b.typeID.Yield()
	if err != nil {
		return Attribute{}, err
	}
	values, err := b.values.Yield()
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Type: typeID, RawValues: values}, nil
}

// CertificationRequestInfo is RFC 2986 §4's CertificationRequestInfo.
type CertificationRequestInfo struct {
	Version        int64
	Subject        Name
	SubjectPKInfo  SubjectPublicKeyInfo
	Attributes     []Attribute

	rawContent []byte
}

// RawContent returns the exact DER bytes of the parsed
// CertificationRequestInfo, or nil if built programmatically.
func (i CertificationRequestInfo) RawContent() []byte { return i.rawContent }

// CertificationRequest is RFC 2986 §4's top-level CertificationRequest
// (PKCS#10): a CertificationRequestInfo signed by the subject's own key.
type CertificationRequest struct {
	CertificationRequestInfo CertificationRequestInfo
	SignatureAlgorithm       AlgorithmIdentifier
	Signature                der.BitString
}

const (
	criVersion ElementIdentifier = iota
	criSubject
	criSPKI
	criAttributes
)

func newCertificationRequestInfoBuilder() *certificationRequestInfoBuilder {
	attrsInner := builder.NewSequenceOfBuilder(func() builder.Element[Attribute] { return newAttributeBuilder() })
	b := &certificationRequestInfoBuilder{
		version: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
			n, err := der.DecodeBigInt(c)
			if err != nil {
				return 0, err
			}
			return n.Int64(), nil
		}),
		subject:   NewNameBuilder(),
		spki:      newSubjectPublicKeyInfoBuilder(),
		attrs:     attrsInner,
		attrsWrap: builder.NewImplicitContextTagged(der.ClassContextSpecific, 0, der.ClassUniversal, der.TagSet, attrsInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type certificationRequestInfoBuilder struct {
	sm *builder.StateMachine

	version *builder.PrimitiveBuilder[int64]
	subject builder.RootBuilder[Name]
	spki    *subjectPublicKeyInfoBuilder

	attrs     *builder.SequenceOfBuilder[Attribute]
	attrsWrap *builder.ImplicitContextTagged
	hasAttrs  bool
}

func (b *certificationRequestInfoBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: criVersion},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: criSubject},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: criSPKI},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: criAttributes},
	}
}

func (b *certificationRequestInfoBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case criVersion:
		return b.version
	case criSubject:
		return b.subject
	case criSPKI:
		return b.spki
	case criAttributes:
		b.hasAttrs = true
		return b.attrsWrap
	}
	panic("asn1struct: unknown CertificationRequestInfo element")
}

func (b *certificationRequestInfoBuilder) DoYield() error { return nil }
func (b *certificationRequestInfoBuilder) DoReset() {
	b.hasAttrs = false
	b.version.Reset()
	b.subject.Reset()
	b.spki.Reset()
	b.attrsWrap.Reset()
}

func (b *certificationRequestInfoBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *certificationRequestInfoBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *certificationRequestInfoBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *certificationRequestInfoBuilder) Reset()                    { b.sm.Reset() }

func (b *certificationRequestInfoBuilder) Yield() (CertificationRequestInfo, error) {
	version, err := b.version.Yield()
	if err != nil {
		return CertificationRequestInfo{}, err
	}
	subject, err := b.subject.Yield()
	if err != nil {
		return CertificationRequestInfo{}, err
	}
	spki, err := b.spki.Yield()
	if err != nil {
		return CertificationRequestInfo{}, err
	}
	var attrs []Attribute
	if b.hasAttrs {
		attrs, err = b.attrs.Yield()
		if err != nil {
			return CertificationRequestInfo{}, err
		}
	}
	return CertificationRequestInfo{Version: version, Subject: subject, SubjectPKInfo: spki, Attributes: attrs}, nil
}

// Encode serializes i.
func (i CertificationRequestInfo) Encode() ([]byte, error) {
	verTLV, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(i.Version))
	if err != nil {
		return nil, err
	}
	subjectTLV, err := i.Subject.Encode()
	if err != nil {
		return nil, err
	}
	spkiTLV, err := i.SubjectPKInfo.Encode()
	if err != nil {
		return nil, err
	}
	content := append(append(verTLV, subjectTLV...), spkiTLV...)
	if len(i.Attributes) > 0 {
		var attrsContent []byte
		for _, a := range i.Attributes {
			enc, err := a.Encode()
			if err != nil {
				return nil, err
			}
			attrsContent = append(attrsContent, enc...)
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(attrsContent))...)
		content = append(content, attrsContent...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// NewCertificationRequestBuilder returns a builder.RootBuilder assembling a
// CertificationRequest from its top-level SEQUENCE bytes.
func NewCertificationRequestBuilder() builder.RootBuilder[CertificationRequest] {
	infoInner := newCertificationRequestInfoBuilder()
	return &certificationRequestBuilder{
		infoTee:   builder.NewTee(infoInner),
		infoInner: infoInner,
		sigAlg:    newAlgorithmIdentifierBuilder(),
		signature: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString),
	}
}

const (
	crInfo ElementIdentifier = iota
	crSigAlg
	crSignature
)

type certificationRequestBuilder struct {
	sm *builder.StateMachine

	infoTee   *builder.Tee
	infoInner *certificationRequestInfoBuilder
	sigAlg    *algorithmIdentifierBuilder
	signature *builder.PrimitiveBuilder[der.BitString]
}

func (b *certificationRequestBuilder) lazyInit() {
	if b.sm == nil {
		b.sm = builder.NewStateMachine(b)
	}
}

func (b *certificationRequestBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: crInfo},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: crSigAlg},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString}, Target: crSignature},
	}
}

func (b *certificationRequestBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case crInfo:
		return b.infoTee
	case crSigAlg:
		return b.sigAlg
	case crSignature:
		return b.signature
	}
	panic("asn1struct: unknown CertificationRequest element")
}

func (b *certificationRequestBuilder) DoYield() error { return nil }
func (b *certificationRequestBuilder) DoReset() {
	b.infoTee.Reset()
	b.sigAlg.Reset()
	b.signature.Reset()
}

func (b *certificationRequestBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	b.lazyInit()
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *certificationRequestBuilder) OnConstructedOpen(class der.Class, tag int) error {
	b.lazyInit()
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *certificationRequestBuilder) OnConstructedClose() error {
	b.lazyInit()
	return b.sm.OnConstructedClose()
}
func (b *certificationRequestBuilder) Reset() {
	b.lazyInit()
	b.sm.Reset()
}

func (b *certificationRequestBuilder) Yield() (CertificationRequest, error) {
	info, err := b.infoInner.Yield()
	if err != nil {
		return CertificationRequest{}, err
	}
	raw, err := b.infoTee.RawBytes()
	if err != nil {
		return CertificationRequest{}, err
	}
	info.rawContent = raw
	sigAlg, err := b.sigAlg.Yield()
	if err != nil {
		return CertificationRequest{}, err
	}
	sig, err := b.signature.Yield()
	if err != nil {
		return CertificationRequest{}, err
	}
	return CertificationRequest{CertificationRequestInfo: info, SignatureAlgorithm: sigAlg, Signature: sig}, nil
}

// Encode serializes r.
func (r CertificationRequest) Encode() ([]byte, error) {
	infoTLV, err := r.CertificationRequestInfo.Encode()
	if err != nil {
		return nil, err
	}
	sigAlgTLV, err := r.SignatureAlgorithm.Encode()
	if err != nil {
		return nil, err
	}
	sigTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, r.Signature)
	if err != nil {
		return nil, err
	}
	content := append(append(infoTLV, sigAlgTLV...), sigTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
