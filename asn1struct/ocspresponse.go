package asn1struct

import (
	"math/big"
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// CertID is RFC 6960 §4.1.1's CertID: a hash-based reference to the
// certificate a SingleResponse reports on.
type CertID struct {
	HashAlgorithm AlgorithmIdentifier
	IssuerNameHash []byte
	IssuerKeyHash  []byte
	SerialNumber   *big.Int
}

// Encode serializes c.
func (c CertID) Encode() ([]byte, error) {
	algTLV, err := c.HashAlgorithm.Encode()
	if err != nil {
		return nil, err
	}
	serialTLV, err := der.EncodeBigInt(der.ClassUniversal, c.SerialNumber)
	if err != nil {
		return nil, err
	}
	content := algTLV
	content = append(content, der.EncodeOctetString(der.ClassUniversal, c.IssuerNameHash)...)
	content = append(content, der.EncodeOctetString(der.ClassUniversal, c.IssuerKeyHash)...)
	content = append(content, serialTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

const (
	certIDHashAlg ElementIdentifier = iota
	certIDNameHash
	certIDKeyHash
	certIDSerial
)

func newCertIDBuilder() *certIDBuilder {
	b := &certIDBuilder{
		hashAlg: newAlgorithmIdentifierBuilder(),
		nameHash: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOctetString, func(c []byte) ([]byte, error) {
			return der.DecodeOctetString(c), nil
		}),
		keyHash: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOctetString, func(c []byte) ([]byte, error) {
			return der.DecodeOctetString(c), nil
		}),
		serial: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, der.DecodeBigInt),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type certIDBuilder struct {
	sm *builder.StateMachine

	hashAlg  *algorithmIdentifierBuilder
	nameHash *builder.PrimitiveBuilder[[]byte]
	keyHash  *builder.PrimitiveBuilder[[]byte]
	serial   *builder.PrimitiveBuilder[*big.Int]
}

func (b *certIDBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: certIDHashAlg},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString}, Target: certIDNameHash},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString}, Target: certIDKeyHash},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: certIDSerial},
	}
}

func (b *certIDBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case certIDHashAlg:
		return b.hashAlg
	case certIDNameHash:
		return b.nameHash
	case certIDKeyHash:
		return b.keyHash
	case certIDSerial:
		return b.serial
	}
	panic("asn1struct: unknown CertID element")
}

func (b *certIDBuilder) DoYield() error { return nil }
func (b *certIDBuilder) DoReset() {
	b.hashAlg.Reset()
	b.nameHash.Reset()
	b.keyHash.Reset()
	b.serial.Reset()
}

func (b *certIDBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *certIDBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *certIDBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *certIDBuilder) Reset()                    { b.sm.Reset() }

func (b *certIDBuilder) Yield() (CertID, error) {
	alg, err := b.hashAlg.Yield()
	if err != nil {
		return CertID{}, err
	}
	nameHash, err := b.nameHash.Yield()
	if err != nil {
		return CertID{}, err
	}
	keyHash, err := b.keyHash.Yield()
	if err != nil {
		return CertID{}, err
	}
	serial, err := b.serial.Yield()
	if err != nil {
		return CertID{}, err
	}
	return CertID{HashAlgorithm: alg, IssuerNameHash: nameHash, IssuerKeyHash: keyHash, SerialNumber: serial}, nil
}

// ResponderIDKind discriminates ResponderID's two CHOICE alternatives.
type ResponderIDKind int

const (
	ResponderIDByName ResponderIDKind = iota
	ResponderIDByKey
)

// ResponderID is RFC 6960 §4.2.1's ResponderID CHOICE.
type ResponderID struct {
	Kind   ResponderIDKind
	Name   Name   // byName [1]
	KeyHash []byte // byKey [2], the SHA-1 hash of the responder's public key
}

const (
	ridByName ElementIdentifier = iota
	ridByKey
)

func responderIDVariants() []builder.ChoiceVariant {
	return []builder.ChoiceVariant{
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 1, Constructed: true}, ID: ridByName},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 2, Constructed: true}, ID: ridByKey},
	}
}

func newResponderIDBuilder() *responderIDBuilder {
	b := &responderIDBuilder{raw: builder.NewRawCapture()}
	b.cb = builder.NewChoiceBuilder(b)
	return b
}

type responderIDBuilder struct {
	cb  *builder.ChoiceBuilder
	raw *builder.RawCapture
}

func (b *responderIDBuilder) Variants() []builder.ChoiceVariant     { return responderIDVariants() }
func (b *responderIDBuilder) CreateState(id ElementIdentifier) builder.Builder { return b.raw }
func (b *responderIDBuilder) Fallback() (ElementIdentifier, bool)   { return 0, false }

func (b *responderIDBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.cb.OnPrimitive(class, tag, content)
}
func (b *responderIDBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.cb.OnConstructedOpen(class, tag)
}
func (b *responderIDBuilder) OnConstructedClose() error { return b.cb.OnConstructedClose() }
func (b *responderIDBuilder) Reset() {
	b.cb.Reset()
	b.raw.Reset()
}

func (b *responderIDBuilder) Yield() (ResponderID, error) {
	id, matched := b.cb.Selected()
	if !matched {
		return ResponderID{}, &der.Error{Kind: der.KindIncompleteInput, Where: "responder-id", Reason: "no variant selected"}
	}
	raw, err := b.raw.Yield()
	if err != nil {
		return ResponderID{}, err
	}
	outer, err := der.ReadTLV(raw)
	if err != nil {
		return ResponderID{}, err
	}
	switch id {
	case ridByName:
		// [1] EXPLICIT Name.
		inner, err := der.ReadTLV(outer.Content)
		if err != nil {
			return ResponderID{}, err
		}
		name, err := builder.Parse(append(der.EncodeHeader(inner.Header.Class, inner.Header.Constructed, inner.Header.Tag, len(inner.Content)), inner.Content...), NewNameBuilder)
		if err != nil {
			return ResponderID{}, err
		}
		return ResponderID{Kind: ResponderIDByName, Name: name}, nil
	case ridByKey:
		// [2] EXPLICIT OCTET STRING (SHA-1 hash of the key).
		inner, err := der.ReadTLV(outer.Content)
		if err != nil {
			return ResponderID{}, err
		}
		return ResponderID{Kind: ResponderIDByKey, KeyHash: der.DecodeOctetString(inner.Content)}, nil
	}
	panic("asn1struct: unreachable responder-id variant")
}

// Encode serializes r.
func (r ResponderID) Encode() ([]byte, error) {
	switch r.Kind {
	case ResponderIDByName:
		nameTLV, err := r.Name.Encode()
		if err != nil {
			return nil, err
		}
		return append(der.EncodeHeader(der.ClassContextSpecific, true, 1, len(nameTLV)), nameTLV...), nil
	case ResponderIDByKey:
		inner := der.EncodeOctetString(der.ClassUniversal, r.KeyHash)
		return append(der.EncodeHeader(der.ClassContextSpecific, true, 2, len(inner)), inner...), nil
	}
	return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "responder-id", Reason: "unknown ResponderID kind"}
}

// CertStatusKind discriminates CertStatus's three CHOICE alternatives.
type CertStatusKind int

const (
	CertStatusGood CertStatusKind = iota
	CertStatusRevoked
	CertStatusUnknown
)

// CertStatus is RFC 6960 §4.2.1's CertStatus CHOICE.
type CertStatus struct {
	Kind CertStatusKind

	RevocationTime   time.Time // revoked [1]
	RevocationReason *int      // revoked [1], optional CRLReason
}

const (
	csGood ElementIdentifier = iota
	csRevoked
	csUnknown
)

func certStatusVariants() []builder.ChoiceVariant {
	return []builder.ChoiceVariant{
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 0}, ID: csGood},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 1, Constructed: true}, ID: csRevoked},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 2}, ID: csUnknown},
	}
}

func newCertStatusBuilder() *certStatusBuilder {
	b := &certStatusBuilder{raw: builder.NewRawCapture()}
	b.cb = builder.NewChoiceBuilder(b)
	return b
}

type certStatusBuilder struct {
	cb  *builder.ChoiceBuilder
	raw *builder.RawCapture
}

func (b *certStatusBuilder) Variants() []builder.ChoiceVariant     { return certStatusVariants() }
func (b *certStatusBuilder) CreateState(id ElementIdentifier) builder.Builder { return b.raw }
func (b *certStatusBuilder) Fallback() (ElementIdentifier, bool)   { return 0, false }

func (b *certStatusBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.cb.OnPrimitive(class, tag, content)
}
func (b *certStatusBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.cb.OnConstructedOpen(class, tag)
}
func (b *certStatusBuilder) OnConstructedClose() error { return b.cb.OnConstructedClose() }
func (b *certStatusBuilder) Reset() {
	b.cb.Reset()
	b.raw.Reset()
}

func (b *certStatusBuilder) Yield() (CertStatus, error) {
	id, matched := b.cb.Selected()
	if !matched {
		return CertStatus{}, &der.Error{Kind: der.KindIncompleteInput, Where: "cert-status", Reason: "no variant selected"}
	}
	raw, err := b.raw.Yield()
	if err != nil {
		return CertStatus{}, err
	}
	outer, err := der.ReadTLV(raw)
	if err != nil {
		return CertStatus{}, err
	}
	switch id {
	case csGood:
		return CertStatus{Kind: CertStatusGood}, nil
	case csUnknown:
		return CertStatus{Kind: CertStatusUnknown}, nil
	case csRevoked:
		rest := outer.Content
		timeTLV, err := der.ReadTLV(rest)
		if err != nil {
			return CertStatus{}, err
		}
		revTime, err := der.DecodeGeneralizedTime(timeTLV.Content)
		if err != nil {
			return CertStatus{}, err
		}
		cs := CertStatus{Kind: CertStatusRevoked, RevocationTime: revTime}
		rest = timeTLV.Rest
		if len(rest) > 0 {
			reasonOuter, err := der.ReadTLV(rest)
			if err != nil {
				return CertStatus{}, err
			}
			inner, err := der.ReadTLV(reasonOuter.Content)
			if err != nil {
				return CertStatus{}, err
			}
			enumVal, err := der.DecodeEnumerated(inner.Content)
			if err != nil {
				return CertStatus{}, err
			}
			reason := int(enumVal)
			cs.RevocationReason = &reason
		}
		return cs, nil
	}
	panic("asn1struct: unreachable cert-status variant")
}

// Encode serializes cs.
func (cs CertStatus) Encode() ([]byte, error) {
	switch cs.Kind {
	case CertStatusGood:
		return der.EncodeHeader(der.ClassContextSpecific, false, 0, 0), nil
	case CertStatusUnknown:
		return der.EncodeHeader(der.ClassContextSpecific, false, 2, 0), nil
	case CertStatusRevoked:
		content := der.EncodeGeneralizedTime(der.ClassUniversal, cs.RevocationTime)
		if cs.RevocationReason != nil {
			enumTLV, err := der.EncodeEnumerated(der.ClassUniversal, der.Enumerated(*cs.RevocationReason))
			if err != nil {
				return nil, err
			}
			content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(enumTLV))...)
			content = append(content, enumTLV...)
		}
		return append(der.EncodeHeader(der.ClassContextSpecific, true, 1, len(content)), content...), nil
	}
	return nil, &der.Error{Kind: der.KindUnsupportedFormat, Where: "cert-status", Reason: "unknown CertStatus kind"}
}

// SingleResponse is RFC 6960 §4.2.1's SingleResponse.
type SingleResponse struct {
	CertID           CertID
	CertStatus       CertStatus
	ThisUpdate       time.Time
	NextUpdate       *time.Time
	SingleExtensions []Extension
}

const (
	srCertID ElementIdentifier = iota
	srCertStatus
	srThisUpdate
	srNextUpdate
	srExtensions
)

func newSingleResponseBuilder() *singleResponseBuilder {
	thisUpdate := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime)
	nextUpdateInner := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime)
	extsInner := NewExtensionsBuilder()
	b := &singleResponseBuilder{
		certID:         newCertIDBuilder(),
		certStatus:     newCertStatusBuilder(),
		thisUpdate:     thisUpdate,
		nextUpdate:     nextUpdateInner,
		nextUpdateWrap: builder.NewExplicitContextTagged(der.ClassContextSpecific, 0, nextUpdateInner),
		exts:           extsInner,
		extsWrap:       builder.NewExplicitContextTagged(der.ClassContextSpecific, 1, extsInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type singleResponseBuilder struct {
	sm *builder.StateMachine

	certID     *certIDBuilder
	certStatus *certStatusBuilder
	thisUpdate *builder.PrimitiveBuilder[time.Time]

	nextUpdate     *builder.PrimitiveBuilder[time.Time]
	nextUpdateWrap *builder.ExplicitContextTagged
	hasNextUpdate  bool

	exts     builder.RootBuilder[[]Extension]
	extsWrap *builder.ExplicitContextTagged
	hasExts  bool
}

func (b *singleResponseBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: srCertID},
		{Input: builder.ElementInput{Any: true}, Target: srCertStatus},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagGeneralizedTime}, Target: srThisUpdate},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: srNextUpdate},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 1, Optional: true}, Target: srExtensions},
	}
}

func (b *singleResponseBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case srCertID:
		return b.certID
	case srCertStatus:
		return b.certStatus
	case srThisUpdate:
		return b.thisUpdate
	case srNextUpdate:
		b.hasNextUpdate = true
		return b.nextUpdateWrap
	case srExtensions:
		b.hasExts = true
		return b.extsWrap
	}
	panic("asn1struct: unknown SingleResponse element")
}

func (b *singleResponseBuilder) DoYield() error { return nil }
func (b *singleResponseBuilder) DoReset() {
	b.hasNextUpdate, b.hasExts = false, false
	b.certID.Reset()
	b.certStatus.Reset()
	b.thisUpdate.Reset()
	b.nextUpdateWrap.Reset()
	b.extsWrap.Reset()
}

func (b *singleResponseBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *singleResponseBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *singleResponseBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *singleResponseBuilder) Reset()                    { b.sm.Reset() }

func (b *singleResponseBuilder) Yield() (SingleResponse, error) {
	certID, err := b.certID.Yield()
	if err != nil {
		return SingleResponse{}, err
	}
	status, err := b.certStatus.Yield()
	if err != nil {
		return SingleResponse{}, err
	}
	thisUpdate, err := b.thisUpdate.Yield()
	if err != nil {
		return SingleResponse{}, err
	}
	out := SingleResponse{CertID: certID, CertStatus: status, ThisUpdate: thisUpdate}
	if b.hasNextUpdate {
		nu, err := b.nextUpdate.Yield()
		if err != nil {
			return SingleResponse{}, err
		}
		out.NextUpdate = &nu
	}
	if b.hasExts {
		exts, err := b.exts.Yield()
		if err != nil {
			return SingleResponse{}, err
		}
		out.SingleExtensions = exts
	}
	return out, nil
}

// Encode serializes s.
func (s SingleResponse) Encode() ([]byte, error) {
	certIDTLV, err := s.CertID.Encode()
	if err != nil {
		return nil, err
	}
	statusTLV, err := s.CertStatus.Encode()
	if err != nil {
		return nil, err
	}
	content := append(certIDTLV, statusTLV...)
	content = append(content, der.EncodeGeneralizedTime(der.ClassUniversal, s.ThisUpdate)...)
	if s.NextUpdate != nil {
		inner := der.EncodeGeneralizedTime(der.ClassUniversal, *s.NextUpdate)
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(inner))...)
		content = append(content, inner...)
	}
	if len(s.SingleExtensions) > 0 {
		inner, err := EncodeExtensions(s.SingleExtensions)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(inner))...)
		content = append(content, inner...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// ResponseData is RFC 6960 §4.2.1's ResponseData.
type ResponseData struct {
	Version      int64
	ResponderID  ResponderID
	ProducedAt   time.Time
	Responses    []SingleResponse
	Extensions   []Extension

	rawContent []byte
}

// RawContent returns the exact DER bytes of the parsed ResponseData, or nil
// if built programmatically. Used when verifying BasicOCSPResponse.Signature.
func (r ResponseData) RawContent() []byte { return r.rawContent }

const (
	rdVersion ElementIdentifier = iota
	rdResponderID
	rdProducedAt
	rdResponses
	rdExtensions
)

func newResponseDataBuilder() *responseDataBuilder {
	version := builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
		n, err := der.DecodeBigInt(c)
		if err != nil {
			return 0, err
		}
		return n.Int64(), nil
	})
	responses := builder.NewSequenceOfBuilder(func() builder.Element[SingleResponse] { return newSingleResponseBuilder() })
	extsInner := NewExtensionsBuilder()
	b := &responseDataBuilder{
		version:     version,
		versionWrap: builder.NewExplicitContextTagged(der.ClassContextSpecific, 0, version),
		responderID: newResponderIDBuilder(),
		producedAt:  builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime),
		responses:   responses,
		exts:        extsInner,
		extsWrap:    builder.NewExplicitContextTagged(der.ClassContextSpecific, 1, extsInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type responseDataBuilder struct {
	sm *builder.StateMachine

	version     *builder.PrimitiveBuilder[int64]
	versionWrap *builder.ExplicitContextTagged
	hasVersion  bool

	responderID *responderIDBuilder
	producedAt  *builder.PrimitiveBuilder[time.Time]
	responses   *builder.SequenceOfBuilder[SingleResponse]

	exts     builder.RootBuilder[[]Extension]
	extsWrap *builder.ExplicitContextTagged
	hasExts  bool
}

func (b *responseDataBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: rdVersion},
		{Input: builder.ElementInput{Any: true}, Target: rdResponderID},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagGeneralizedTime}, Target: rdProducedAt},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: rdResponses},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 1, Optional: true}, Target: rdExtensions},
	}
}

func (b *responseDataBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case rdVersion:
		b.hasVersion = true
		return b.versionWrap
	case rdResponderID:
		return b.responderID
	case rdProducedAt:
		return b.producedAt
	case rdResponses:
		return b.responses
	case rdExtensions:
		b.hasExts = true
		return b.extsWrap
	}
	panic("asn1struct: unknown ResponseData element")
}

func (b *responseDataBuilder) DoYield() error { return nil }
func (b *responseDataBuilder) DoReset() {
	b.hasVersion, b.hasExts = false, false
	b.versionWrap.Reset()
	b.responderID.Reset()
	b.producedAt.Reset()
	b.responses.Reset()
	b.extsWrap.Reset()
}

func (b *responseDataBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *responseDataBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *responseDataBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *responseDataBuilder) Reset()                    { b.sm.Reset() }

func (b *responseDataBuilder) Yield() (ResponseData, error) {
	version := int64(0)
	if b.hasVersion {
		v, err := b.version.Yield()
		if err != nil {
			return ResponseData{}, err
		}
		version = v
	}
	responderID, err := b.responderID.Yield()
	if err != nil {
		return ResponseData{}, err
	}
	producedAt, err := b.producedAt.Yield()
	if err != nil {
		return ResponseData{}, err
	}
	responses, err := b.responses.Yield()
	if err != nil {
		return ResponseData{}, err
	}
	out := ResponseData{Version: version, ResponderID: responderID, ProducedAt: producedAt, Responses: responses}
	if b.hasExts {
		exts, err := b.exts.Yield()
		if err != nil {
			return ResponseData{}, err
		}
		out.Extensions = exts
	}
	return out, nil
}

// Encode serializes r.
func (r ResponseData) Encode() ([]byte, error) {
	var content []byte
	if r.Version != 0 {
		verTLV, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(r.Version))
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(verTLV))...)
		content = append(content, verTLV...)
	}
	ridTLV, err := r.ResponderID.Encode()
	if err != nil {
		return nil, err
	}
	content = append(content, ridTLV...)
	content = append(content, der.EncodeGeneralizedTime(der.ClassUniversal, r.ProducedAt)...)
	var responsesContent []byte
	for _, sr := range r.Responses {
		enc, err := sr.Encode()
		if err != nil {
			return nil, err
		}
		responsesContent = append(responsesContent, enc...)
	}
	content = append(content, der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(responsesContent))...)
	content = append(content, responsesContent...)
	if len(r.Extensions) > 0 {
		inner, err := EncodeExtensions(r.Extensions)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(inner))...)
		content = append(content, inner...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// BasicOCSPResponse is RFC 6960 §4.2.1's BasicOCSPResponse, the payload
// carried inside a successful ResponseBytes when ResponseType names
// id-pkix-ocsp-basic.
type BasicOCSPResponse struct {
	TBSResponseData    ResponseData
	SignatureAlgorithm AlgorithmIdentifier
	Signature          der.BitString
	Certs              []Certificate
}

const (
	borResponseData ElementIdentifier = iota
	borSigAlg
	borSignature
	borCerts
)

func newBasicOCSPResponseBuilder() *basicOCSPResponseBuilder {
	rdInner := newResponseDataBuilder()
	certsInner := builder.NewSequenceOfBuilder(func() builder.Element[Certificate] { return NewCertificateBuilder() })
	b := &basicOCSPResponseBuilder{
		rdTee:      builder.NewTee(rdInner),
		rdInner:    rdInner,
		sigAlg:     newAlgorithmIdentifierBuilder(),
		signature:  builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString),
		certs:      certsInner,
		certsWrap:  builder.NewExplicitContextTagged(der.ClassContextSpecific, 0, certsInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type basicOCSPResponseBuilder struct {
	sm *builder.StateMachine

	rdTee   *builder.Tee
	rdInner *responseDataBuilder

	sigAlg    *algorithmIdentifierBuilder
	signature *builder.PrimitiveBuilder[der.BitString]

	certs     *builder.SequenceOfBuilder[Certificate]
	certsWrap *builder.ExplicitContextTagged
	hasCerts  bool
}

func (b *basicOCSPResponseBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: borResponseData},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: borSigAlg},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString}, Target: borSignature},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: borCerts},
	}
}

func (b *basicOCSPResponseBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case borResponseData:
		return b.rdTee
	case borSigAlg:
		return b.sigAlg
	case borSignature:
		return b.signature
	case borCerts:
		b.hasCerts = true
		return b.certsWrap
	}
	panic("asn1struct: unknown BasicOCSPResponse element")
}

func (b *basicOCSPResponseBuilder) DoYield() error { return nil }
func (b *basicOCSPResponseBuilder) DoReset() {
	b.hasCerts = false
	b.rdTee.Reset()
	b.sigAlg.Reset()
	b.signature.Reset()
	b.certsWrap.Reset()
}

func (b *basicOCSPResponseBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *basicOCSPResponseBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *basicOCSPResponseBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *basicOCSPResponseBuilder) Reset()                    { b.sm.Reset() }

func (b *basicOCSPResponseBuilder) Yield() (BasicOCSPResponse, error) {
	rd, err := b.rdInner.Yield()
	if err != nil {
		return BasicOCSPResponse{}, err
	}
	raw, err := b.rdTee.RawBytes()
	if err != nil {
		return BasicOCSPResponse{}, err
	}
	rd.rawContent = raw
	sigAlg, err := b.sigAlg.Yield()
	if err != nil {
		return BasicOCSPResponse{}, err
	}
	sig, err := b.signature.Yield()
	if err != nil {
		return BasicOCSPResponse{}, err
	}
	out := BasicOCSPResponse{TBSResponseData: rd, SignatureAlgorithm: sigAlg, Signature: sig}
	if b.hasCerts {
		certs, err := b.certs.Yield()
		if err != nil {
			return BasicOCSPResponse{}, err
		}
		out.Certs = certs
	}
	return out, nil
}

// Encode serializes r.
func (r BasicOCSPResponse) Encode() ([]byte, error) {
	rdTLV, err := r.TBSResponseData.Encode()
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
	content := append(append(rdTLV, sigAlgTLV...), sigTLV...)
	if len(r.Certs) > 0 {
		var certsContent []byte
		for _, c := range r.Certs {
			enc, err := c.Encode()
			if err != nil {
				return nil, err
			}
			certsContent = append(certsContent, enc...)
		}
		certsSeq := append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(certsContent)), certsContent...)
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(certsSeq))...)
		content = append(content, certsSeq...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// ResponseBytes is RFC 6960 §4.2.1's ResponseBytes: an OID naming the
// response payload's shape plus the payload's raw bytes (BasicOCSPResponse
// for id-pkix-ocsp-basic, the only form this package interprets).
type ResponseBytes struct {
	ResponseType der.OID
	Response     []byte
}

// DecodeBasicOCSPResponse interprets b.Response as a BasicOCSPResponse,
// returning an error if b.ResponseType does not name id-pkix-ocsp-basic.
func (b ResponseBytes) DecodeBasicOCSPResponse() (BasicOCSPResponse, error) {
	basicOID := der.OID{1, 3, 6, 1, 5, 5, 7, 48, 1, 1}
	if !b.ResponseType.Equal(basicOID) {
		return BasicOCSPResponse{}, &der.Error{Kind: der.KindUnsupportedFormat, Where: "response-bytes", Reason: "responseType is not id-pkix-ocsp-basic"}
	}
	return builder.Parse(b.Response, func() builder.RootBuilder[BasicOCSPResponse] { return newBasicOCSPResponseBuilder() })
}

const (
	rbType ElementIdentifier = iota
	rbResponse
)

func newResponseBytesBuilder() *responseBytesBuilder {
	b := &responseBytesBuilder{
		typeID: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOID, der.DecodeOID),
		response: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOctetString, func(c []byte) ([]byte, error) {
			return der.DecodeOctetString(c), nil
		}),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type responseBytesBuilder struct {
	sm       *builder.StateMachine
	typeID   *builder.PrimitiveBuilder[der.OID]
	response *builder.PrimitiveBuilder[[]byte]
}

func (b *responseBytesBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOID}, Target: rbType},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString}, Target: rbResponse},
	}
}

func (b *responseBytesBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case rbType:
		return b.typeID
	case rbResponse:
		return b.response
	}
	panic("asn1struct: unknown ResponseBytes element")
}

func (b *responseBytesBuilder) DoYield() error { return nil }
func (b *responseBytesBuilder) DoReset() {
	b.typeID.Reset()
	b.response.Reset()
}

func (b *responseBytesBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *responseBytesBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *responseBytesBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *responseBytesBuilder) Reset()                    { b.sm.Reset() }

func (b *responseBytesBuilder) Yield() (ResponseBytes, error) {
	typeID, err := b.typeID.Yield()
	if err != nil {
		return ResponseBytes{}, err
	}
	response, err := b.response.Yield()
	if err != nil {
		return ResponseBytes{}, err
	}
	return ResponseBytes{ResponseType: typeID, Response: response}, nil
}

// Encode serializes rb.
func (rb ResponseBytes) Encode() ([]byte, error) {
	oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, rb.ResponseType)
	if err != nil {
		return nil, err
	}
	content := append(oidTLV, der.EncodeOctetString(der.ClassUniversal, rb.Response)...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// OCSPResponse is RFC 6960 §4.2.1's top-level OCSPResponse.
type OCSPResponse struct {
	ResponseStatus int // OCSPResponseStatus ENUMERATED
	ResponseBytes  *ResponseBytes
}

// OCSP response status codes, RFC 6960 §4.2.1.
const (
	OCSPResponseSuccessful      = 0
	OCSPResponseMalformedRequest = 1
	OCSPResponseInternalError   = 2
	OCSPResponseTryLater        = 3
	OCSPResponseSigRequired     = 5
	OCSPResponseUnauthorized    = 6
)

const (
	ocspRespStatus ElementIdentifier = iota
	ocspRespBytes
)

// NewOCSPResponseBuilder returns a builder.RootBuilder assembling an
// OCSPResponse from its top-level SEQUENCE bytes.
func NewOCSPResponseBuilder() builder.RootBuilder[OCSPResponse] {
	respBytesInner := newResponseBytesBuilder()
	b := &ocspResponseBuilder{
		status: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagEnumerated, der.DecodeEnumerated),
		respBytes: respBytesInner,
		respBytesWrap: builder.NewExplicitContextTagged(der.ClassContextSpecific, 0, respBytesInner),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type ocspResponseBuilder struct {
	sm *builder.StateMachine

	status *builder.PrimitiveBuilder[der.Enumerated]

	respBytes     *responseBytesBuilder
	respBytesWrap *builder.ExplicitContextTagged
	hasRespBytes  bool
}

func (b *ocspResponseBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagEnumerated}, Target: ocspRespStatus},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Constructed: true, Tag: 0, Optional: true}, Target: ocspRespBytes},
	}
}

func (b *ocspResponseBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case ocspRespStatus:
		return b.status
	case ocspRespBytes:
		b.hasRespBytes = true
		return b.respBytesWrap
	}
	panic("asn1struct: unknown OCSPResponse element")
}

func (b *ocspResponseBuilder) DoYield() error { return nil }
func (b *ocspResponseBuilder) DoReset() {
	b.hasRespBytes = false
	b.status.Reset()
	b.respBytesWrap.Reset()
}

func (b *ocspResponseBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *ocspResponseBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *ocspResponseBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *ocspResponseBuilder) Reset()                    { b.sm.Reset() }

func (b *ocspResponseBuilder) Yield() (OCSPResponse, error) {
	status, err := b.status.Yield()
	if err != nil {
		return OCSPResponse{}, err
	}
	out := OCSPResponse{ResponseStatus: int(status)}
	if b.hasRespBytes {
		rb, err := b.respBytes.Yield()
		if err != nil {
			return OCSPResponse{}, err
		}
		out.ResponseBytes = &rb
	}
	return out, nil
}

// Encode serializes o.
func (o OCSPResponse) Encode() ([]byte, error) {
	statusTLV, err := der.EncodeEnumerated(der.ClassUniversal, der.Enumerated(o.ResponseStatus))
	if err != nil {
		return nil, err
	}
	content := statusTLV
	if o.ResponseBytes != nil {
		inner, err := o.ResponseBytes.Encode()
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(inner))...)
		content = append(content, inner...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
