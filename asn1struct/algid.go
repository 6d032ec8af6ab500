// Package asn1struct is the typed structure model plus the encoder
// back-path. Unexported builder.Composite implementations, reached through
// the New*Builder constructors and builder.Parse, assemble the structure
// types from a DER byte stream, and Encode() methods serialize them back
// out. Extension values and algorithm parameters are decoded on demand by
// hand-written Decode* functions instead.
package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/dfi/dercert/oids"
)

// AlgorithmIdentifier names an algorithm and carries its (often
// algorithm-specific) parameters, per RFC 5280 §4.1.1.2. Parameters is kept
// as the raw encoded TLV bytes; the well-known parameter shapes (RSASSA-PSS,
// RSAES-OAEP, DSA, EC, DH domain parameters) are decoded from RawParameters
// by separate Decode* functions, not held as a typed union. Callers that need a
// parameter shape this package does not model can still re-parse
// RawParameters themselves.
type AlgorithmIdentifier struct {
	Algorithm      der.OID
	RawParameters  []byte // full TLV of the parameters field, or nil if absent
	ParametersNull bool   // true when parameters was present and is NULL
}

// Name returns the registry name for Algorithm, if known.
func (a AlgorithmIdentifier) Name() (string, bool) { return oids.Name(a.Algorithm) }

const (
	algIDOID ElementIdentifier = iota
	algIDParams
)

func newAlgorithmIdentifierBuilder() *algorithmIdentifierBuilder {
	b := &algorithmIdentifierBuilder{
		oid:    builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagOID, der.DecodeOID),
		params: builder.NewRawCapture(),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type algorithmIdentifierBuilder struct {
	sm     *builder.StateMachine
	oid    *builder.PrimitiveBuilder[der.OID]
	params *builder.RawCapture
}

func (b *algorithmIdentifierBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagOID}, Target: algIDOID},
		{Input: builder.ElementInput{Any: true, Optional: true}, Target: algIDParams},
	}
}

func (b *algorithmIdentifierBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case algIDOID:
		return b.oid
	case algIDParams:
		return b.params
	}
	panic("asn1struct: unknown AlgorithmIdentifier element")
}

func (b *algorithmIdentifierBuilder) DoYield() error { return nil }

func (b *algorithmIdentifierBuilder) DoReset() {
	b.oid.Reset()
	b.params.Reset()
}

func (b *algorithmIdentifierBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *algorithmIdentifierBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *algorithmIdentifierBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *algorithmIdentifierBuilder) Reset()                    { b.sm.Reset() }

func (b *algorithmIdentifierBuilder) Yield() (AlgorithmIdentifier, error) {
	oid, err := b.oid.Yield()
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	raw, _ := builder.DefaultOf[[]byte](b.params, nil)
	isNull := len(raw) == 2 && raw[0] == byte(der.TagNull)
	return AlgorithmIdentifier{Algorithm: oid, RawParameters: raw, ParametersNull: isNull}, nil
}

// Encode serializes a back to its DER TLV form.
func (a AlgorithmIdentifier) Encode() ([]byte, error) {
	oidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, a.Algorithm)
	if err != nil {
		return nil, err
	}
	content := oidTLV
	content = append(content, a.RawParameters...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// RSASSAPSSParams is the RSASSA-PSS AlgorithmIdentifier.parameters shape
// from RFC 8017 Appendix A.2.3, decoded from AlgorithmIdentifier.RawParameters
// on demand by DecodeRSASSAPSSParams.
type RSASSAPSSParams struct {
	HashAlgorithm    AlgorithmIdentifier
	MaskGenAlgorithm AlgorithmIdentifier
	SaltLength       int64
	TrailerField     int64
}

// RSAESOAEPParams is the RSAES-OAEP AlgorithmIdentifier.parameters shape
// from RFC 8017 Appendix A.2.1.
type RSAESOAEPParams struct {
	HashAlgorithm    AlgorithmIdentifier
	MaskGenAlgorithm AlgorithmIdentifier
	PSourceAlgorithm AlgorithmIdentifier
}

// DSSParms is the DSA domain-parameters AlgorithmIdentifier.parameters shape
// (P, Q, G).
type DSSParms struct {
	P, Q, G []byte // two's-complement big-endian INTEGER content, as decoded
}

// ECParameters is the EC domain-parameters AlgorithmIdentifier.parameters
// shape, restricted to the common named-curve form (full SpecifiedECDomain
// support is out of scope).
type ECParameters struct {
	NamedCurve der.OID
}

// DomainParameters is the DH/DSA-style domain-parameters shape (RFC 3279),
// kept distinct from DSSParms to preserve the validationParms/generator
// naming used where it appears (X9.42 DH).
type DomainParameters struct {
	P, G, Q []byte
	J       []byte // optional
}

func decodeAlgorithmIdentifierTLV(tlv der.TLV) (AlgorithmIdentifier, error) {
	raw := append(der.EncodeHeader(tlv.Header.Class, tlv.Header.Constructed, tlv.Header.Tag, len(tlv.Content)), tlv.Content...)
	return builder.Parse(raw, func() builder.RootBuilder[AlgorithmIdentifier] { return newAlgorithmIdentifierBuilder() })
}

// rsaSSAPSSDefaultHash, rsaSSAPSSDefaultMGF, rsaSSAPSSDefaultSaltLength and
// rsaSSAPSSDefaultTrailerField are RFC 8017 Appendix A.2.3's DEFAULTs.
var (
	rsaSSAPSSDefaultHash = AlgorithmIdentifier{Algorithm: der.OID{1, 3, 14, 3, 2, 26}} // id-sha1
	rsaSSAPSSDefaultMGF  = AlgorithmIdentifier{Algorithm: der.OID{1, 2, 840, 113549, 1, 1, 8}}
)

const (
	rsaSSAPSSDefaultSaltLength   = 20
	rsaSSAPSSDefaultTrailerField = 1
)

// DecodeRSASSAPSSParams decodes a.RawParameters as RFC 8017's RSASSA-PSS-params.
func DecodeRSASSAPSSParams(rawParameters []byte) (RSASSAPSSParams, error) {
	p := RSASSAPSSParams{
		HashAlgorithm:    rsaSSAPSSDefaultHash,
		MaskGenAlgorithm: rsaSSAPSSDefaultMGF,
		SaltLength:       rsaSSAPSSDefaultSaltLength,
		TrailerField:     rsaSSAPSSDefaultTrailerField,
	}
	tlv, err := der.ReadTLV(rawParameters)
	if err != nil {
		return RSASSAPSSParams{}, err
	}
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return RSASSAPSSParams{}, err
		}
		inner, err := der.ReadTLV(field.Content) // each field is EXPLICIT
		if err != nil {
			return RSASSAPSSParams{}, err
		}
		switch field.Header.Tag {
		case 0:
			alg, err := decodeAlgorithmIdentifierTLV(inner)
			if err != nil {
				return RSASSAPSSParams{}, err
			}
			p.HashAlgorithm = alg
		case 1:
			alg, err := decodeAlgorithmIdentifierTLV(inner)
			if err != nil {
				return RSASSAPSSParams{}, err
			}
			p.MaskGenAlgorithm = alg
		case 2:
			n, err := der.DecodeBigInt(inner.Content)
			if err != nil {
				return RSASSAPSSParams{}, err
			}
			p.SaltLength = n.Int64()
		case 3:
			n, err := der.DecodeBigInt(inner.Content)
			if err != nil {
				return RSASSAPSSParams{}, err
			}
			p.TrailerField = n.Int64()
		}
		rest = field.Rest
	}
	return p, nil
}

// DecodeRSAESOAEPParams decodes a.RawParameters as RFC 8017's
// RSAES-OAEP-params. pSourceAlgorithm defaults to pSpecifiedEmptyString; the
// default is left as a zero-value AlgorithmIdentifier rather than a named
// OID constant.
func DecodeRSAESOAEPParams(rawParameters []byte) (RSAESOAEPParams, error) {
	p := RSAESOAEPParams{
		HashAlgorithm:    rsaSSAPSSDefaultHash,
		MaskGenAlgorithm: rsaSSAPSSDefaultMGF,
	}
	tlv, err := der.ReadTLV(rawParameters)
	if err != nil {
		return RSAESOAEPParams{}, err
	}
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return RSAESOAEPParams{}, err
		}
		inner, err := der.ReadTLV(field.Content)
		if err != nil {
			return RSAESOAEPParams{}, err
		}
		alg, err := decodeAlgorithmIdentifierTLV(inner)
		if err != nil {
			return RSAESOAEPParams{}, err
		}
		switch field.Header.Tag {
		case 0:
			p.HashAlgorithm = alg
		case 1:
			p.MaskGenAlgorithm = alg
		case 2:
			p.PSourceAlgorithm = alg
		}
		rest = field.Rest
	}
	return p, nil
}

// DecodeDSSParms decodes a.RawParameters as RFC 3279's Dss-Parms (P, Q, G).
func DecodeDSSParms(rawParameters []byte) (DSSParms, error) {
	tlv, err := der.ReadTLV(rawParameters)
	if err != nil {
		return DSSParms{}, err
	}
	pTLV, err := der.ReadTLV(tlv.Content)
	if err != nil {
		return DSSParms{}, err
	}
	qTLV, err := der.ReadTLV(pTLV.Rest)
	if err != nil {
		return DSSParms{}, err
	}
	gTLV, err := der.ReadTLV(qTLV.Rest)
	if err != nil {
		return DSSParms{}, err
	}
	return DSSParms{P: pTLV.Content, Q: qTLV.Content, G: gTLV.Content}, nil
}

// DecodeECParameters decodes a.RawParameters restricted to the named-curve
// form of RFC 3279's ECParameters CHOICE.
func DecodeECParameters(rawParameters []byte) (ECParameters, error) {
	tlv, err := der.ReadTLV(rawParameters)
	if err != nil {
		return ECParameters{}, err
	}
	if tlv.Header.Tag != der.TagOID {
		return ECParameters{}, &der.Error{Kind: der.KindUnsupportedFormat, Where: "ec-parameters", Reason: "only the namedCurve ECParameters form is supported"}
	}
	oid, err := der.DecodeOID(tlv.Content)
	if err != nil {
		return ECParameters{}, err
	}
	return ECParameters{NamedCurve: oid}, nil
}

// DecodeDomainParameters decodes a.RawParameters as RFC 3279's
// DomainParameters (P, G, Q, optional J; validationParms ignored).
func DecodeDomainParameters(rawParameters []byte) (DomainParameters, error) {
	tlv, err := der.ReadTLV(rawParameters)
	if err != nil {
		return DomainParameters{}, err
	}
	pTLV, err := der.ReadTLV(tlv.Content)
	if err != nil {
		return DomainParameters{}, err
	}
	gTLV, err := der.ReadTLV(pTLV.Rest)
	if err != nil {
		return DomainParameters{}, err
	}
	qTLV, err := der.ReadTLV(gTLV.Rest)
	if err != nil {
		return DomainParameters{}, err
	}
	dp := DomainParameters{P: pTLV.Content, G: gTLV.Content, Q: qTLV.Content}
	if len(qTLV.Rest) > 0 {
		jTLV, err := der.ReadTLV(qTLV.Rest)
		if err != nil {
			return DomainParameters{}, err
		}
		if jTLV.Header.Tag == der.TagInteger {
			dp.J = jTLV.Content
		}
	}
	return dp, nil
}
