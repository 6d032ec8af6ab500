package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// GeneralName is the RFC 5280 §4.2.1.6 CHOICE. rfc822Name, dNSName,
// directoryName, uniformResourceIdentifier, iPAddress and registeredID are
// decoded into their typed fields. otherName, x400Address, ediPartyName and
// any unrecognized tag decode to Kind GeneralNameOther with the full TLV in
// RawOther; the EDIPartyName, OtherNameTypeID and OtherNameValue fields are
// not populated by decoding and are not written by Encode.
type GeneralName struct {
	Kind GeneralNameKind

	RFC822Name                 string
	DNSName                    string
	DirectoryName              Name
	URI                        string
	IPAddress                  []byte
	RegisteredID               der.OID
	EDIPartyName               EDIPartyName
	OtherNameTypeID            der.OID
	OtherNameValue              []byte // raw TLV of the [0] value field
	RawOther                   []byte // full TLV, for unrecognized/X.400 forms
}

// GeneralNameKind discriminates GeneralName's selected alternative.
type GeneralNameKind int

const (
	GeneralNameOther GeneralNameKind = iota
	GeneralNameRFC822
	GeneralNameDNS
	GeneralNameX400
	GeneralNameDirectory
	GeneralNameEDIParty
	GeneralNameURI
	GeneralNameIP
	GeneralNameRegisteredID
)

// EDIPartyName is RFC 5280's EDIPartyName production.
type EDIPartyName struct {
	NameAssigner DirectoryString
	PartyName    DirectoryString
}

const (
	gnOther ElementIdentifier = iota
	gnRFC822
	gnDNS
	gnX400
	gnDirectory
	gnEDIParty
	gnURI
	gnIP
	gnRegisteredID
)

func generalNameVariants() []builder.ChoiceVariant {
	return []builder.ChoiceVariant{
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 0, Constructed: true}, ID: gnOther},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 1}, ID: gnRFC822},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 2}, ID: gnDNS},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 3, Constructed: true}, ID: gnX400},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 4, Constructed: true}, ID: gnDirectory},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 5, Constructed: true}, ID: gnEDIParty},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 6}, ID: gnURI},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 7}, ID: gnIP},
		{Input: builder.ElementInput{Class: der.ClassContextSpecific, Tag: 8}, ID: gnRegisteredID},
	}
}

// newGeneralNameBuilder returns a builder.RootBuilder assembling a
// GeneralName. The [4] directoryName case is EXPLICIT over a Name; the
// others are IMPLICIT primitives/constructs per RFC 5280.
func newGeneralNameBuilder() *generalNameBuilder {
	b := &generalNameBuilder{raw: builder.NewRawCapture()}
	b.cb = builder.NewChoiceBuilder(b)
	return b
}

type generalNameBuilder struct {
	cb  *builder.ChoiceBuilder
	raw *builder.RawCapture
}

func (b *generalNameBuilder) Variants() []builder.ChoiceVariant { return generalNameVariants() }

func (b *generalNameBuilder) CreateState(id ElementIdentifier) builder.Builder {
	return b.raw
}

func (b *generalNameBuilder) Fallback() (ElementIdentifier, bool) { return gnOther, true }

func (b *generalNameBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.cb.OnPrimitive(class, tag, content)
}
func (b *generalNameBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.cb.OnConstructedOpen(class, tag)
}
func (b *generalNameBuilder) OnConstructedClose() error { return b.cb.OnConstructedClose() }
func (b *generalNameBuilder) Reset() {
	b.cb.Reset()
	b.raw.Reset()
}

func (b *generalNameBuilder) Yield() (GeneralName, error) {
	id, matched := b.cb.Selected()
	if !matched {
		return GeneralName{}, &der.Error{Kind: der.KindIncompleteInput, Where: "general-name", Reason: "no variant selected"}
	}
	raw, err := b.raw.Yield()
	if err != nil {
		return GeneralName{}, err
	}
	tlv, err := der.ReadTLV(raw)
	if err != nil {
		return GeneralName{}, err
	}

	switch id {
	case gnRFC822:
		return GeneralName{Kind: GeneralNameRFC822, RFC822Name: string(tlv.Content)}, nil
	case gnDNS:
		return GeneralName{Kind: GeneralNameDNS, DNSName: string(tlv.Content)}, nil
	case gnURI:
		return GeneralName{Kind: GeneralNameURI, URI: string(tlv.Content)}, nil
	case gnIP:
		return GeneralName{Kind: GeneralNameIP, IPAddress: tlv.Content}, nil
	case gnRegisteredID:
		oid, err := der.DecodeOID(tlv.Content)
		if err != nil {
			return GeneralName{}, err
		}
		return GeneralName{Kind: GeneralNameRegisteredID, RegisteredID: oid}, nil
	case gnDirectory:
		// EXPLICIT [4] wraps exactly one inner TLV, the RDNSequence.
		inner, err := der.ReadTLV(tlv.Content)
		if err != nil {
			return GeneralName{}, err
		}
		name, err := builder.Parse(append(der.EncodeHeader(inner.Header.Class, inner.Header.Constructed, inner.Header.Tag, len(inner.Content)), inner.Content...), NewNameBuilder)
		if err != nil {
			return GeneralName{}, err
		}
		return GeneralName{Kind: GeneralNameDirectory, DirectoryName: name}, nil
	case gnX400, gnEDIParty, gnOther:
		fallthrough
	default:
		return GeneralName{Kind: GeneralNameOther, RawOther: raw}, nil
	}
}

// Encode serializes g to its DER TLV form.
func (g GeneralName) Encode() ([]byte, error) {
	switch g.Kind {
	case GeneralNameRFC822:
		return append(der.EncodeHeader(der.ClassContextSpecific, false, 1, len(g.RFC822Name)), []byte(g.RFC822Name)...), nil
	case GeneralNameDNS:
		return append(der.EncodeHeader(der.ClassContextSpecific, false, 2, len(g.DNSName)), []byte(g.DNSName)...), nil
	case GeneralNameURI:
		return append(der.EncodeHeader(der.ClassContextSpecific, false, 6, len(g.URI)), []byte(g.URI)...), nil
	case GeneralNameIP:
		return append(der.EncodeHeader(der.ClassContextSpecific, false, 7, len(g.IPAddress)), g.IPAddress...), nil
	case GeneralNameRegisteredID:
		arcs, err := der.EncodeOID(der.ClassContextSpecific, 8, g.RegisteredID)
		if err != nil {
			return nil, err
		}
		return arcs, nil
	case GeneralNameDirectory:
		inner, err := g.DirectoryName.Encode()
		if err != nil {
			return nil, err
		}
		return append(der.EncodeHeader(der.ClassContextSpecific, true, 4, len(inner)), inner...), nil
	default:
		return g.RawOther, nil
	}
}
