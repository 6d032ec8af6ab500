package asn1struct

import (
	"math/big"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// TBSCertificate is RFC 5280 §4.1.2: the signed portion of an X.509
// certificate. Version defaults to 0 (v1) and is DER-suppressed at that
// value; IssuerUniqueID/SubjectUniqueID/Extensions are optional.
type TBSCertificate struct {
	Version            int64
	SerialNumber       *big.Int
	Signature          AlgorithmIdentifier
	Issuer             Name
	Validity           Validity
	Subject            Name
	SubjectPublicKeyInfo SubjectPublicKeyInfo
	IssuerUniqueID     *der.BitString
	SubjectUniqueID    *der.BitString
	Extensions         []Extension
}

// Certificate is RFC 5280 §4.1: TBSCertificate plus the issuer's signature
// over it. RawTBSCertificate caches the exact input bytes of the signed
// portion, the way asn1.RawContent fields cache an input structure's raw
// bytes alongside its decoded form.
type Certificate struct {
	TBSCertificate     TBSCertificate
	SignatureAlgorithm AlgorithmIdentifier
	SignatureValue     der.BitString

	rawTBS []byte
}

// RawTBSCertificate returns the exact DER bytes of the parsed
// TBSCertificate, or nil if this value was constructed programmatically
// rather than parsed.
func (c Certificate) RawTBSCertificate() []byte { return c.rawTBS }

const (
	tbsVersion ElementIdentifier = iota
	tbsSerial
	tbsSignature
	tbsIssuer
	tbsValidity
	tbsSubject
	tbsSPKI
	tbsIssuerUID
	tbsSubjectUID
	tbsExtensions
)

func newTBSCertificateBuilder() *tbsCertificateBuilder {
	versionInner := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
		n, err := der.DecodeBigInt(c)
		if err != nil {
			return 0, err
		}
		return n.Int64(), nil
	})
	issuerUIDInner := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString)
	subjectUIDInner := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString)
	extsRoot := NewExtensionsBuilder()

	b := &tbsCertificateBuilder{
		version:       versionInner,
		versionWrap:   builder.NewExplicitContextTagged(der.ClassContextSpecific, 0, versionInner),
		serial:        builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, der.DecodeBigInt),
		signature:     newAlgorithmIdentifierBuilder(),
		issuer:        NewNameBuilder(),
		validity:      newValidityBuilder(),
		subject:       NewNameBuilder(),
		spki:          newSubjectPublicKeyInfoBuilder(),
		issuerUID:     issuerUIDInner,
		issuerUIDWrap: builder.NewImplicitContextTagged(der.ClassContextSpecific, 1, der.ClassUniversal, der.TagBitString, issuerUIDInner),
		subjectUID:     subjectUIDInner,
		subjectUIDWrap: builder.NewImplicitContextTagged(der.ClassContextSpecific, 2, der.ClassUniversal, der.TagBitString, subjectUIDInner),
		exts:           extsRoot,
		extsWrap:       builder.NewExplicitContextTagged(der.ClassContextSpecific, 3, extsRoot),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type tbsCertificateBuilder struct {
	sm *builder.StateMachine

	version     *builder.PrimitiveBuilder[int64]
	versionWrap *builder.ExplicitContextTagged
	hasVersion  bool

	serial *builder.PrimitiveBuilder[*big.Int]

	signature *algorithmIdentifierBuilder
	issuer    builder.RootBuilder[Name]
	validity  *validityBuilder
	subject   builder.RootBuilder[Name]
	spki      *subjectPublicKeyInfoBuilder

	issuerUID     *builder.PrimitiveBuilder[der.BitString]
	issuerUIDWrap *builder.ImplicitContextTagged
	hasIssuerUID  bool

	subjectUID     *builder.PrimitiveBuilder[der.BitString]
	subjectUIDWrap *builder.ImplicitContextTagged
	hasSubjectUID  bool

	exts       builder.RootBuilder[[]Extension]
	extsWrap   *builder.ExplicitContextTagged
	hasExts    bool
}

func (b *tbsCertificateBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: tbsVersion},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: tbsSerial},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: tbsSignature},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: tbsIssuer},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: tbsValidity},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: tbsSubject},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: tbsSPKI},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: false, Tag: 1, Optional: true}, Target: tbsIssuerUID},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: false, Tag: 2, Optional: true}, Target: tbsSubjectUID},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 3, Optional: true}, Target: tbsExtensions},
	}
}

func (b *tbsCertificateBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case tbsVersion:
		b.hasVersion = true
		return b.versionWrap
	case tbsSerial:
		return b.serial
	case tbsSignature:
		return b.signature
	case tbsIssuer:
		return b.issuer
	case tbsValidity:
		return b.validity
	case tbsSubject:
		return b.subject
	case tbsSPKI:
		return b.spki
	case tbsIssuerUID:
		b.hasIssuerUID = true
		return b.issuerUIDWrap
	case tbsSubjectUID:
		b.hasSubjectUID = true
		return b.subjectUIDWrap
	case tbsExtensions:
		b.hasExts = true
		return b.extsWrap
	}
	panic("asn1struct: unknown TBSCertificate element")
}

func (b *tbsCertificateBuilder) DoYield() error { return nil }
func (b *tbsCertificateBuilder) DoReset() {
	b.hasVersion, b.hasIssuerUID, b.hasSubjectUID, b.hasExts = false, false, false, false
	b.versionWrap.Reset()
	b.serial.Reset()
	b.signature.Reset()
	b.issuer.Reset()
	b.validity.Reset()
	b.subject.Reset()
	b.spki.Reset()
	b.issuerUIDWrap.Reset()
	b.subjectUIDWrap.Reset()
	b.extsWrap.Reset()
}

func (b *tbsCertificateBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *tbsCertificateBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *tbsCertificateBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *tbsCertificateBuilder) Reset()                    { b.sm.Reset() }

func (b *tbsCertificateBuilder) Yield() (TBSCertificate, error) {
	var out TBSCertificate
	if b.hasVersion {
		v, err := b.version.Yield()
		if err != nil {
			return TBSCertificate{}, err
		}
		out.Version = v
	}
	serial, err := b.serial.Yield()
	if err != nil {
		return TBSCertificate{}, err
	}
	out.SerialNumber = serial

	if out.Signature, err = b.signature.Yield(); err != nil {
		return TBSCertificate{}, err
	}
	if out.Issuer, err = b.issuer.Yield(); err != nil {
		return TBSCertificate{}, err
	}
	if out.Validity, err = b.validity.Yield(); err != nil {
		return TBSCertificate{}, err
	}
	if out.Subject, err = b.subject.Yield(); err != nil {
		return TBSCertificate{}, err
	}
	if out.SubjectPublicKeyInfo, err = b.spki.Yield(); err != nil {
		return TBSCertificate{}, err
	}
	if b.hasIssuerUID {
		v, err := b.issuerUID.Yield()
		if err != nil {
			return TBSCertificate{}, err
		}
		out.IssuerUniqueID = &v
	}
	if b.hasSubjectUID {
		v, err := b.subjectUID.Yield()
		if err != nil {
			return TBSCertificate{}, err
		}
		out.SubjectUniqueID = &v
	}
	if b.hasExts {
		exts, err := b.exts.Yield()
		if err != nil {
			return TBSCertificate{}, err
		}
		out.Extensions = exts
	}
	return out, nil
}

// Encode serializes t.
func (t TBSCertificate) Encode() ([]byte, error) {
	var content []byte
	if t.Version != 0 {
		verTLV, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(t.Version))
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(verTLV))...)
		content = append(content, verTLV...)
	}
	serialTLV, err := der.EncodeBigInt(der.ClassUniversal, t.SerialNumber)
	if err != nil {
		return nil, err
	}
	content = append(content, serialTLV...)

	sigTLV, err := t.Signature.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, sigTLV...)

	issuerTLV, err := t.Issuer.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, issuerTLV...)

	validityTLV, err := t.Validity.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, validityTLV...)

	subjectTLV, err := t.Subject.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, subjectTLV...)

	spkiTLV, err := t.SubjectPublicKeyInfo.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, spkiTLV...)

	if t.IssuerUniqueID != nil {
		bits, err := der.EncodeBitString(der.ClassContextSpecific, false, 1, true, *t.IssuerUniqueID)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, false, 1, len(bits))...)
		content = append(content, bits...)
	}
	if t.SubjectUniqueID != nil {
		bits, err := der.EncodeBitString(der.ClassContextSpecific, false, 2, true, *t.SubjectUniqueID)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, false, 2, len(bits))...)
		content = append(content, bits...)
	}
	if len(t.Extensions) > 0 {
		extsTLV, err := EncodeExtensions(t.Extensions)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 3, len(extsTLV))...)
		content = append(content, extsTLV...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// NewCertificateBuilder returns a builder.RootBuilder assembling a
// Certificate from its top-level SEQUENCE bytes.
func NewCertificateBuilder() builder.RootBuilder[Certificate] {
	tbsInner := newTBSCertificateBuilder()
	return &certificateBuilder{
		tbsTee:    builder.NewTee(tbsInner),
		tbsInner:  tbsInner,
		sigAlg:    newAlgorithmIdentifierBuilder(),
		signature: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString),
	}
}

const (
	certTBS ElementIdentifier = iota
	certSigAlg
	certSignature
)

type certificateBuilder struct {
	sm *builder.StateMachine

	tbsTee    *builder.Tee
	tbsInner  *tbsCertificateBuilder
	sigAlg    *algorithmIdentifierBuilder
	signature *builder.PrimitiveBuilder[der.BitString]
}

func (b *certificateBuilder) lazyInit() {
	if b.sm == nil {
		b.sm = builder.NewStateMachine(b)
	}
}

func (b *certificateBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: certTBS},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: certSigAlg},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString}, Target: certSignature},
	}
}

func (b *certificateBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case certTBS:
		return b.tbsTee
	case certSigAlg:
		return b.sigAlg
	case certSignature:
		return b.signature
	}
	panic("asn1struct: unknown Certificate element")
}

func (b *certificateBuilder) DoYield() error { return nil }
func (b *certificateBuilder) DoReset() {
	b.tbsTee.Reset()
	b.sigAlg.Reset()
	b.signature.Reset()
}

func (b *certificateBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	b.lazyInit()
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *certificateBuilder) OnConstructedOpen(class der.Class, tag int) error {
	b.lazyInit()
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *certificateBuilder) OnConstructedClose() error {
	b.lazyInit()
	return b.sm.OnConstructedClose()
}
func (b *certificateBuilder) Reset() {
	b.lazyInit()
	b.sm.Reset()
}

func (b *certificateBuilder) Yield() (Certificate, error) {
	tbs, err := b.tbsInner.Yield()
	if err != nil {
		return Certificate{}, err
	}
	raw, err := b.tbsTee.RawBytes()
	if err != nil {
		return Certificate{}, err
	}
	sigAlg, err := b.sigAlg.Yield()
	if err != nil {
		return Certificate{}, err
	}
	sig, err := b.signature.Yield()
	if err != nil {
		return Certificate{}, err
	}
	return Certificate{TBSCertificate: tbs, SignatureAlgorithm: sigAlg, SignatureValue: sig, rawTBS: raw}, nil
}

// Encode serializes c.
func (c Certificate) Encode() ([]byte, error) {
	tbsTLV, err := c.TBSCertificate.Encode()
	if err != nil {
		return nil, err
	}
	sigAlgTLV, err := c.SignatureAlgorithm.Encode()
	if err != nil {
		return nil, err
	}
	sigTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, c.SignatureValue)
	if err != nil {
		return nil, err
	}
	content := append(append(tbsTLV, sigAlgTLV...), sigTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
