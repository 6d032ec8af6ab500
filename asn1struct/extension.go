package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// Extension is RFC 5280 §4.1 Extension: an OID, a DEFAULT-FALSE criticality
// flag, and an OCTET STRING whose content is itself a DER-encoded value
// whose grammar this package leaves to the caller (builder.WalkExtension),
// since extension types are open-ended by design.
type Extension struct {
	ID       der.OID
	Critical bool
	Value    []byte // the OCTET STRING content, i.e. the extension's own DER bytes
}

const (
	extID ElementIdentifier = iota
	extCritical
	extValue
)

func newExtensionBuilder() *extensionBuilder {
	b := &extensionBuilder{
		id:       builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOID, der.DecodeOID),
		critical: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBoolean, der.DecodeBoolean),
		value: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOctetString, func(c []byte) ([]byte, error) {
			return der.DecodeOctetString(c), nil
		}),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type extensionBuilder struct {
	sm       *builder.StateMachine
	id       *builder.PrimitiveBuilder[der.OID]
	critical *builder.PrimitiveBuilder[bool]
	value    *builder.PrimitiveBuilder[[]byte]
}

func (b *extensionBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOID}, Target: extID},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBoolean, Optional: true}, Target: extCritical},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString}, Target: extValue},
	}
}

func (b *extensionBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case extID:
		return b.id
	case extCritical:
		return b.critical
	case extValue:
		return b.value
	}
	panic("asn1struct: unknown Extension element")
}

func (b *extensionBuilder) DoYield() error { return nil }
func (b *extensionBuilder) DoReset() {
	b.id.Reset()
	b.critical.Reset()
	b.value.Reset()
}

func (b *extensionBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *extensionBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *extensionBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *extensionBuilder) Reset()                    { b.sm.Reset() }

func (b *extensionBuilder) Yield() (Extension, error) {
	id, err := b.id.Yield()
	if err != nil {
		return Extension{}, err
	}
	critical, err := builder.DefaultOf[bool](b.critical, false)
	if err != nil {
		return Extension{}, err
	}
	value, err := b.value.Yield()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: id, Critical: critical, Value: value}, nil
}

func newExtensionsElement() builder.Element[Extension] { return newExtensionBuilder() }

// NewExtensionsBuilder returns a builder.RootBuilder assembling a SEQUENCE
// OF Extension (the content of the [3] Extensions field on TBSCertificate).
func NewExtensionsBuilder() builder.RootBuilder[[]Extension] {
	return &extensionsBuilder{inner: builder.NewSequenceOfBuilder(newExtensionsElement)}
}

type extensionsBuilder struct {
	inner *builder.SequenceOfBuilder[Extension]
}

func (b *extensionsBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.inner.OnPrimitive(class, tag, content)
}
func (b *extensionsBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.inner.OnConstructedOpen(class, tag)
}
func (b *extensionsBuilder) OnConstructedClose() error { return b.inner.OnConstructedClose() }
func (b *extensionsBuilder) Reset()                    { b.inner.Reset() }
func (b *extensionsBuilder) Yield() ([]Extension, error) { return b.inner.Yield() }

// Encode serializes e.
func (e Extension) Encode() ([]byte, error) {
	oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, e.ID)
	if err != nil {
		return nil, err
	}
	content := oidTLV
	if e.Critical {
		content = append(content, der.EncodeBoolean(der.ClassUniversal, true)...)
	}
	content = append(content, der.EncodeOctetString(der.ClassUniversal, e.Value)...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// EncodeExtensions serializes a SEQUENCE OF Extension.
func EncodeExtensions(exts []Extension) ([]byte, error) {
	var content []byte
	for _, e := range exts {
		enc, err := e.Encode()
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// KeyUsage is the RFC 5280 §4.2.1.3 BIT STRING, decoded to named bits.
type KeyUsage struct {
	DigitalSignature bool
	NonRepudiation   bool
	KeyEncipherment  bool
	DataEncipherment bool
	KeyAgreement     bool
	KeyCertSign      bool
	CRLSign          bool
	EncipherOnly     bool
	DecipherOnly     bool
}

// DecodeKeyUsage decodes the BIT STRING content of an id-ce-keyUsage
// extension value.
func DecodeKeyUsage(content []byte) (KeyUsage, error) {
	bs, err := der.DecodeBitString(content)
	if err != nil {
		return KeyUsage{}, err
	}
	return KeyUsage{
		DigitalSignature: bs.BitAt(0),
		NonRepudiation:   bs.BitAt(1),
		KeyEncipherment:  bs.BitAt(2),
		DataEncipherment: bs.BitAt(3),
		KeyAgreement:     bs.BitAt(4),
		KeyCertSign:      bs.BitAt(5),
		CRLSign:          bs.BitAt(6),
		EncipherOnly:     bs.BitAt(7),
		DecipherOnly:     bs.BitAt(8),
	}, nil
}

// Encode serializes k to its minimal-length BIT STRING content-plus-header
// form (the Extension.Value bytes, i.e. including the BIT STRING TLV itself).
func (k KeyUsage) Encode() ([]byte, error) {
	bits := []bool{k.DigitalSignature, k.NonRepudiation, k.KeyEncipherment, k.DataEncipherment,
		k.KeyAgreement, k.KeyCertSign, k.CRLSign, k.EncipherOnly, k.DecipherOnly}
	highest := -1
	for i, b := range bits {
		if b {
			highest = i
		}
	}
	if highest < 0 {
		return der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, der.BitString{})
	}
	nBytes := highest/8 + 1
	raw := make([]byte, nBytes)
	for i, b := range bits {
		if b {
			raw[i/8] |= 0x80 >> uint(i%8)
		}
	}
	unused := 7 - highest%8
	return der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, der.BitString{Bytes: raw, UnusedBits: unused})
}

// BasicConstraint is RFC 5280 §4.2.1.9's BasicConstraints SEQUENCE.
type BasicConstraint struct {
	CA                bool
	PathLenConstraint int
	HasPathLen        bool
}

// AuthorityKeyIdentifier is RFC 5280 §4.2.1.1.
type AuthorityKeyIdentifier struct {
	KeyIdentifier         []byte
	AuthorityCertIssuer   []GeneralName
	AuthorityCertSerial   []byte
	HasSerial             bool
}

// ReasonFlags is the RFC 5280 §4.2.1.13 CRLReason-style BIT STRING used by
// DistributionPoint.Reasons and CRL entry extensions.
type ReasonFlags struct {
	KeyCompromise         bool
	CACompromise          bool
	AffiliationChanged    bool
	Superseded            bool
	CessationOfOperation  bool
	CertificateHold       bool
	PrivilegeWithdrawn    bool
	AACompromise          bool
}

// AccessDescription is RFC 5280 §4.2.2's AccessDescription (used by both
// AuthorityInfoAccess and SubjectInfoAccess).
type AccessDescription struct {
	AccessMethod   der.OID
	AccessLocation GeneralName
}
