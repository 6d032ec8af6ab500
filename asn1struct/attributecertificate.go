package asn1struct

import (
	"math/big"
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// IssuerSerial is RFC 5755 §4.2.3's IssuerSerial: a reference to a
// certificate by its issuer name and serial number.
type IssuerSerial struct {
	Issuer   []GeneralName
	Serial   *big.Int
	IssuerUID *der.BitString
}

func decodeIssuerSerial(content []byte) (IssuerSerial, error) {
	var out IssuerSerial
	namesTLV, err := der.ReadTLV(content)
	if err != nil {
		return IssuerSerial{}, err
	}
	names, err := decodeGeneralNames(namesTLV.Content)
	if err != nil {
		return IssuerSerial{}, err
	}
	out.Issuer = names
	rest := namesTLV.Rest
	serialTLV, err := der.ReadTLV(rest)
	if err != nil {
		return IssuerSerial{}, err
	}
	serial, err := der.DecodeBigInt(serialTLV.Content)
	if err != nil {
		return IssuerSerial{}, err
	}
	out.Serial = serial
	rest = serialTLV.Rest
	if len(rest) > 0 {
		uidTLV, err := der.ReadTLV(rest)
		if err != nil {
			return IssuerSerial{}, err
		}
		uid, err := der.DecodeBitString(uidTLV.Content)
		if err != nil {
			return IssuerSerial{}, err
		}
		out.IssuerUID = &uid
	}
	return out, nil
}

// Encode serializes s.
func (s IssuerSerial) Encode() ([]byte, error) {
	namesContent, err := encodeGeneralNames(s.Issuer)
	if err != nil {
		return nil, err
	}
	serialTLV, err := der.EncodeBigInt(der.ClassUniversal, s.Serial)
	if err != nil {
		return nil, err
	}
	content := append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(namesContent)), namesContent...)
	content = append(content, serialTLV...)
	if s.IssuerUID != nil {
		uidTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, *s.IssuerUID)
		if err != nil {
			return nil, err
		}
		content = append(content, uidTLV...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// DigestedObjectType is RFC 5755 §4.2.3's enumeration naming what an
// ObjectDigestInfo's digest was taken over.
type DigestedObjectType int

const (
	DigestedObjectPublicKey DigestedObjectType = iota
	DigestedObjectPublicKeyCert
	DigestedObjectOtherObjectTypes
)

// ObjectDigestInfo is RFC 5755 §4.2.3's ObjectDigestInfo.
type ObjectDigestInfo struct {
	DigestedObjectType DigestedObjectType
	OtherObjectTypeID  *der.OID
	DigestAlgorithm    AlgorithmIdentifier
	ObjectDigest       der.BitString
}

func decodeObjectDigestInfo(content []byte) (ObjectDigestInfo, error) {
	var out ObjectDigestInfo
	typeTLV, err := der.ReadTLV(content)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	enumVal, err := der.DecodeEnumerated(typeTLV.Content)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	out.DigestedObjectType = DigestedObjectType(enumVal)
	rest := typeTLV.Rest

	next, err := der.ReadTLV(rest)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	if next.Header.Tag == der.TagOID && next.Header.Class == der.ClassUniversal {
		oid, err := der.DecodeOID(next.Content)
		if err != nil {
			return ObjectDigestInfo{}, err
		}
		out.OtherObjectTypeID = &oid
		rest = next.Rest
		next, err = der.ReadTLV(rest)
		if err != nil {
			return ObjectDigestInfo{}, err
		}
	}
	alg, err := decodeAlgorithmIdentifierTLV(next)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	out.DigestAlgorithm = alg
	rest = next.Rest

	digestTLV, err := der.ReadTLV(rest)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	digest, err := der.DecodeBitString(digestTLV.Content)
	if err != nil {
		return ObjectDigestInfo{}, err
	}
	out.ObjectDigest = digest
	return out, nil
}

// Encode serializes o.
func (o ObjectDigestInfo) Encode() ([]byte, error) {
	typeTLV, err := der.EncodeEnumerated(der.ClassUniversal, der.Enumerated(o.DigestedObjectType))
	if err != nil {
		return nil, err
	}
	content := typeTLV
	if o.OtherObjectTypeID != nil {
		oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, *o.OtherObjectTypeID)
		if err != nil {
			return nil, err
		}
		content = append(content, oidTLV...)
	}
	algTLV, err := o.DigestAlgorithm.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, algTLV...)
	digestTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, o.ObjectDigest)
	if err != nil {
		return nil, err
	}
	content = append(content, digestTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// Holder is RFC 5755 §4.2.2's Holder.
type Holder struct {
	BaseCertificateID *IssuerSerial
	EntityName        []GeneralName
	ObjectDigestInfo  *ObjectDigestInfo
}

func decodeHolderContent(content []byte) (Holder, error) {
	var out Holder
	rest := content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return Holder{}, err
		}
		switch field.Header.Tag {
		case 0: // baseCertificateID [0] IMPLICIT IssuerSerial
			is, err := decodeIssuerSerial(field.Content)
			if err != nil {
				return Holder{}, err
			}
			out.BaseCertificateID = &is
		case 1: // entityName [1] IMPLICIT GeneralNames
			names, err := decodeGeneralNames(field.Content)
			if err != nil {
				return Holder{}, err
			}
			out.EntityName = names
		case 2: // objectDigestInfo [2] IMPLICIT ObjectDigestInfo
			odi, err := decodeObjectDigestInfo(field.Content)
			if err != nil {
				return Holder{}, err
			}
			out.ObjectDigestInfo = &odi
		}
		rest = field.Rest
	}
	return out, nil
}

// Encode serializes h.
func (h Holder) Encode() ([]byte, error) {
	var content []byte
	if h.BaseCertificateID != nil {
		enc, err := h.BaseCertificateID.Encode()
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(enc)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	if h.EntityName != nil {
		inner, err := encodeGeneralNames(h.EntityName)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(inner))...)
		content = append(content, inner...)
	}
	if h.ObjectDigestInfo != nil {
		enc, err := h.ObjectDigestInfo.Encode()
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(enc)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 2, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// V2Form is RFC 5755 §4.2.3's V2Form, the current shape of AttCertIssuer.
type V2Form struct {
	IssuerName        []GeneralName
	BaseCertificateID *IssuerSerial
	ObjectDigestInfo  *ObjectDigestInfo
}

func decodeV2FormContent(content []byte) (V2Form, error) {
	var out V2Form
	rest := content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return V2Form{}, err
		}
		if field.Header.Class == der.ClassUniversal && field.Header.Tag == der.TagSequence {
			names, err := decodeGeneralNames(field.Content)
			if err != nil {
				return V2Form{}, err
			}
			out.IssuerName = names
			rest = field.Rest
			continue
		}
		switch field.Header.Tag {
		case 0: // baseCertificateID [0] IMPLICIT IssuerSerial
			is, err := decodeIssuerSerial(field.Content)
			if err != nil {
				return V2Form{}, err
			}
			out.BaseCertificateID = &is
		case 1: // objectDigestInfo [1] IMPLICIT ObjectDigestInfo
			odi, err := decodeObjectDigestInfo(field.Content)
			if err != nil {
				return V2Form{}, err
			}
			out.ObjectDigestInfo = &odi
		}
		rest = field.Rest
	}
	return out, nil
}

// Encode serializes v.
func (v V2Form) Encode() ([]byte, error) {
	var content []byte
	if v.IssuerName != nil {
		inner, err := encodeGeneralNames(v.IssuerName)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(inner))...)
		content = append(content, inner...)
	}
	if v.BaseCertificateID != nil {
		enc, err := v.BaseCertificateID.Encode()
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(enc)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	if v.ObjectDigestInfo != nil {
		enc, err := v.ObjectDigestInfo.Encode()
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(enc)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	return append(der.EncodeHeader(der.ClassContextSpecific, true, 0, len(content)), content...), nil
}

// AttCertIssuerKind discriminates AttCertIssuer's two CHOICE alternatives.
type AttCertIssuerKind int

const (
	AttCertIssuerV1Form AttCertIssuerKind = iota
	AttCertIssuerV2Form
)

// AttCertIssuer is RFC 5755 §4.2.3's AttCertIssuer CHOICE. V1Form
// (bare GeneralNames) is deprecated by the RFC but still decodable; callers
// constructing a new AttributeCertificate should always use V2Form.
type AttCertIssuer struct {
	Kind   AttCertIssuerKind
	V1Form []GeneralName
	V2Form V2Form
}

func decodeAttCertIssuerTLV(tlv der.TLV) (AttCertIssuer, error) {
	if tlv.Header.Class == der.ClassUniversal && tlv.Header.Tag == der.TagSequence {
		names, err := decodeGeneralNames(tlv.Content)
		if err != nil {
			return AttCertIssuer{}, err
		}
		return AttCertIssuer{Kind: AttCertIssuerV1Form, V1Form: names}, nil
	}
	if tlv.Header.Class == der.ClassContextSpecific && tlv.Header.Tag == 0 {
		v2, err := decodeV2FormContent(tlv.Content)
		if err != nil {
			return AttCertIssuer{}, err
		}
		return AttCertIssuer{Kind: AttCertIssuerV2Form, V2Form: v2}, nil
	}
	return AttCertIssuer{}, &der.Error{Kind: der.KindUnsupportedFormat, Where: "att-cert-issuer", Reason: "unrecognized AttCertIssuer form"}
}

// Encode serializes i.
func (i AttCertIssuer) Encode() ([]byte, error) {
	switch i.Kind {
	case AttCertIssuerV1Form:
		content, err := encodeGeneralNames(i.V1Form)
		if err != nil {
			return nil, err
		}
		return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
	case AttCertIssuerV2Form:
		return i.V2Form.Encode()
	}
	return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "att-cert-issuer", Reason: "unknown AttCertIssuer kind"}
}

// AttCertValidityPeriod is RFC 5755 §4.2.3's AttCertValidityPeriod.
type AttCertValidityPeriod struct {
	NotBeforeTime time.Time
	NotAfterTime  time.Time
}

const (
	acvpNotBefore ElementIdentifier = iota
	acvpNotAfter
)

func newAttCertValidityPeriodBuilder() *attCertValidityPeriodBuilder {
	b := &attCertValidityPeriodBuilder{
		notBefore: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime),
		notAfter:  builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type attCertValidityPeriodBuilder struct {
	sm        *builder.StateMachine
	notBefore *builder.PrimitiveBuilder[time.Time]
	notAfter  *builder.PrimitiveBuilder[time.Time]
}

func (b *attCertValidityPeriodBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagGeneralizedTime}, Target: acvpNotBefore},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagGeneralizedTime}, Target: acvpNotAfter},
	}
}

func (b *attCertValidityPeriodBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case acvpNotBefore:
		return b.notBefore
	case acvpNotAfter:
		return b.notAfter
	}
	panic("asn1struct: unknown AttCertValidityPeriod element")
}

func (b *attCertValidityPeriodBuilder) DoYield() error { return nil }
func (b *attCertValidityPeriodBuilder) DoReset() {
	b.notBefore.Reset()
	b.notAfter.Reset()
}

func (b *attCertValidityPeriodBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *attCertValidityPeriodBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *attCertValidityPeriodBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *attCertValidityPeriodBuilder) Reset()                    { b.sm.Reset() }

func (b *attCertValidityPeriodBuilder) Yield() (AttCertValidityPeriod, error) {
	nb, err := b.notBefore.Yield()
	if err != nil {
		return AttCertValidityPeriod{}, err
	}
	na, err := b.notAfter.Yield()
	if err != nil {
		return AttCertValidityPeriod{}, err
	}
	return AttCertValidityPeriod{NotBeforeTime: nb, NotAfterTime: na}, nil
}

// Encode serializes v.
func (v AttCertValidityPeriod) Encode() ([]byte, error) {
	content := der.EncodeGeneralizedTime(der.ClassUniversal, v.NotBeforeTime)
	content = append(content, der.EncodeGeneralizedTime(der.ClassUniversal, v.NotAfterTime)...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// AttributeCertificateInfo is RFC 5755 §4.1's AttributeCertificateInfo.
type AttributeCertificateInfo struct {
	Version                int64
	Holder                 Holder
	Issuer                 AttCertIssuer
	Signature              AlgorithmIdentifier
	SerialNumber           *big.Int
	AttrCertValidityPeriod AttCertValidityPeriod
	Attributes             []Attribute
	IssuerUniqueID         *der.BitString
	Extensions             []Extension

	rawContent []byte
}

// RawContent returns the exact DER bytes of the parsed
// AttributeCertificateInfo, or nil if built programmatically.
func (i AttributeCertificateInfo) RawContent() []byte { return i.rawContent }

const (
	aciVersion ElementIdentifier = iota
	aciHolder
	aciIssuer
	aciSignature
	aciSerial
	aciValidity
	aciAttributes
	aciIssuerUID
	aciExtensions
)

func newAttributeCertificateInfoBuilder() *attributeCertificateInfoBuilder {
	holderRaw := builder.NewRawCapture()
	issuerRaw := builder.NewRawCapture()
	attrsInner := builder.NewSequenceOfBuilder(func() builder.Element[Attribute] { return newAttributeBuilder() })
	issuerUIDInner := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString)
	extsInner := NewExtensionsBuilder()
	b := &attributeCertificateInfoBuilder{
		version: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
			n, err := der.DecodeBigInt(c)
			if err != nil {
				return 0, err
			}
			return n.Int64(), nil
		}),
		holderRaw:    holderRaw,
		issuerRaw:    issuerRaw,
		signature:    newAlgorithmIdentifierBuilder(),
		serial:       builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, der.DecodeBigInt),
		validity:     newAttCertValidityPeriodBuilder(),
		attrs:        attrsInner,
		issuerUID:    issuerUIDInner,
		issuerUIDWrap: builder.NewImplicitContextTagged(der.ClassContextSpecific, 1, der.ClassUniversal, der.TagBitString, issuerUIDInner),
		exts:         extsInner,
		extsWrap:     builder.NewExplicitContextTagged(der.ClassContextSpecific, 2, extsInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type attributeCertificateInfoBuilder struct {
	sm *builder.StateMachine

	version   *builder.PrimitiveBuilder[int64]
	holderRaw *builder.RawCapture
	issuerRaw *builder.RawCapture
	signature *algorithmIdentifierBuilder
	serial    *builder.PrimitiveBuilder[*big.Int]
	validity  *attCertValidityPeriodBuilder
	attrs     *builder.SequenceOfBuilder[Attribute]

	issuerUID     *builder.PrimitiveBuilder[der.BitString]
	issuerUIDWrap *builder.ImplicitContextTagged
	hasIssuerUID  bool

	exts     builder.RootBuilder[[]Extension]
	extsWrap *builder.ExplicitContextTagged
	hasExts  bool
}

func (b *attributeCertificateInfoBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: aciVersion},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: aciHolder},
		{Input: builder.ElementInput{Any: true}, Target: aciIssuer},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: aciSignature},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: aciSerial},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: aciValidity},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: aciAttributes},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString, Optional: true}, Target: aciIssuerUID},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 2, Optional: true}, Target: aciExtensions},
	}
}

func (b *attributeCertificateInfoBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case aciVersion:
		return b.version
	case aciHolder:
		return b.holderRaw
	case aciIssuer:
		return b.issuerRaw
	case aciSignature:
		return b.signature
	case aciSerial:
		return b.serial
	case aciValidity:
		return b.validity
	case aciAttributes:
		return b.attrs
	case aciIssuerUID:
		b.hasIssuerUID = true
		return b.issuerUID
	case aciExtensions:
		b.hasExts = true
		return b.extsWrap
	}
	panic("asn1struct: unknown AttributeCertificateInfo element")
}

func (b *attributeCertificateInfoBuilder) DoYield() error { return nil }
func (b *attributeCertificateInfoBuilder) DoReset() {
	b.hasIssuerUID, b.hasExts = false, false
	b.version.Reset()
	b.holderRaw.Reset()
	b.issuerRaw.Reset()
	b.signature.Reset()
	b.serial.Reset()
	b.validity.Reset()
	b.attrs.Reset()
	b.issuerUIDWrap.Reset()
	b.extsWrap.Reset()
}

func (b *attributeCertificateInfoBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *attributeCertificateInfoBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *attributeCertificateInfoBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *attributeCertificateInfoBuilder) Reset()                    { b.sm.Reset() }

func (b *attributeCertificateInfoBuilder) Yield() (AttributeCertificateInfo, error) {
	version, err := b.version.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	holderRaw, err := b.holderRaw.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	holderTLV, err := der.ReadTLV(holderRaw)
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	holder, err := decodeHolderContent(holderTLV.Content)
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	issuerRaw, err := b.issuerRaw.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	issuerTLV, err := der.ReadTLV(issuerRaw)
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	issuer, err := decodeAttCertIssuerTLV(issuerTLV)
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	signature, err := b.signature.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	serial, err := b.serial.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	validity, err := b.validity.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	attrs, err := b.attrs.Yield()
	if err != nil {
		return AttributeCertificateInfo{}, err
	}
	out := AttributeCertificateInfo{
		Version: version, Holder: holder, Issuer: issuer, Signature: signature,
		SerialNumber: serial, AttrCertValidityPeriod: validity, Attributes: attrs,
	}
	if b.hasIssuerUID {
		uid, err := b.issuerUID.Yield()
		if err != nil {
			return AttributeCertificateInfo{}, err
		}
		out.IssuerUniqueID = &uid
	}
	if b.hasExts {
		exts, err := b.exts.Yield()
		if err != nil {
			return AttributeCertificateInfo{}, err
		}
		out.Extensions = exts
	}
	return out, nil
}

// Encode serializes i.
func (i AttributeCertificateInfo) Encode() ([]byte, error) {
	verTLV, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(i.Version))
	if err != nil {
		return nil, err
	}
	holderTLV, err := i.Holder.Encode()
	if err != nil {
		return nil, err
	}
	issuerTLV, err := i.Issuer.Encode()
	if err != nil {
		return nil, err
	}
	sigTLV, err := i.Signature.Encode()
	if err != nil {
		return nil, err
	}
	serialTLV, err := der.EncodeBigInt(der.ClassUniversal, i.SerialNumber)
	if err != nil {
		return nil, err
	}
	validityTLV, err := i.AttrCertValidityPeriod.Encode()
	if err != nil {
		return nil, err
	}
	content := append(verTLV, holderTLV...)
	content = append(content, issuerTLV...)
	content = append(content, sigTLV...)
	content = append(content, serialTLV...)
	content = append(content, validityTLV...)
	var attrsContent []byte
	for _, a := range i.Attributes {
		enc, err := a.Encode()
		if err != nil {
			return nil, err
		}
		attrsContent = append(attrsContent, enc...)
	}
	content = append(content, der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(attrsContent))...)
	content = append(content, attrsContent...)
	if i.IssuerUniqueID != nil {
		uidTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, *i.IssuerUniqueID)
		if err != nil {
			return nil, err
		}
		content = append(content, uidTLV...)
	}
	if len(i.Extensions) > 0 {
		inner, err := EncodeExtensions(i.Extensions)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 2, len(inner))...)
		content = append(content, inner...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// AttributeCertificate is RFC 5755 §4.1's top-level AttributeCertificate.
type AttributeCertificate struct {
	ACInfo             AttributeCertificateInfo
	SignatureAlgorithm AlgorithmIdentifier
	Signature          der.BitString
}

const (
	acInfo ElementIdentifier = iota
	acSigAlg
	acSignature
)

// NewAttributeCertificateBuilder returns a builder.RootBuilder assembling an
// AttributeCertificate from its top-level SEQUENCE bytes.
func NewAttributeCertificateBuilder() builder.RootBuilder[AttributeCertificate] {
	infoInner := newAttributeCertificateInfoBuilder()
	return &attributeCertificateBuilder{
		infoTee:   builder.NewTee(infoInner),
		infoInner: infoInner,
		sigAlg:    newAlgorithmIdentifierBuilder(),
		signature: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString),
	}
}

type attributeCertificateBuilder struct {
	sm *builder.StateMachine

	infoTee   *builder.Tee
	infoInner *attributeCertificateInfoBuilder
	sigAlg    *algorithmIdentifierBuilder
	signature *builder.PrimitiveBuilder[der.BitString]
}

func (b *attributeCertificateBuilder) lazyInit() {
	if b.sm == nil {
		b.sm = builder.NewStateMachine(b)
	}
}

func (b *attributeCertificateBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: acInfo},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: acSigAlg},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString}, Target: acSignature},
	}
}

func (b *attributeCertificateBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case acInfo:
		return b.infoTee
	case acSigAlg:
		return b.sigAlg
	case acSignature:
		return b.signature
	}
	panic("asn1struct: unknown AttributeCertificate element")
}

func (b *attributeCertificateBuilder) DoYield() error { return nil }
func (b *attributeCertificateBuilder) DoReset() {
	b.infoTee.Reset()
	b.sigAlg.Reset()
	b.signature.Reset()
}

func (b *attributeCertificateBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	b.lazyInit()
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *attributeCertificateBuilder) OnConstructedOpen(class der.Class, tag int) error {
	b.lazyInit()
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *attributeCertificateBuilder) OnConstructedClose() error {
	b.lazyInit()
	return b.sm.OnConstructedClose()
}
func (b *attributeCertificateBuilder) Reset() {
	b.lazyInit()
	b.sm.Reset()
}

func (b *attributeCertificateBuilder) Yield() (AttributeCertificate, error) {
	info, err := b.infoInner.Yield()
	if err != nil {
		return AttributeCertificate{}, err
	}
	raw, err := b.infoTee.RawBytes()
	if err != nil {
		return AttributeCertificate{}, err
	}
	info.rawContent = raw
	sigAlg, err := b.sigAlg.Yield()
	if err != nil {
		return AttributeCertificate{}, err
	}
	sig, err := b.signature.Yield()
	if err != nil {
		return AttributeCertificate{}, err
	}
	return AttributeCertificate{ACInfo: info, SignatureAlgorithm: sigAlg, Signature: sig}, nil
}

// Encode serializes c.
func (c AttributeCertificate) Encode() ([]byte, error) {
	infoTLV, err := c.ACInfo.Encode()
	if err != nil {
		return nil, err
	}
	sigAlgTLV, err := c.SignatureAlgorithm.Encode()
	if err != nil {
		return nil, err
	}
	sigTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, c.Signature)
	if err != nil {
		return nil, err
	}
	content := append(append(infoTLV, sigAlgTLV...), sigTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
