package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// GeneralSubtree is RFC 5280 §4.2.1.10's GeneralSubtree: a GeneralName base
// plus minimum/maximum distance (both effectively unused by the RFC profile).
// Decoding reads only the base and Encode writes only the base: Minimum,
// HasMax and Maximum are neither read from nor written to DER.
type GeneralSubtree struct {
	Base    GeneralName
	Minimum int
	HasMax  bool
	Maximum int
}

// NameConstraints is RFC 5280 §4.2.1.10: at least one of PermittedSubtrees
// or ExcludedSubtrees must be present.
type NameConstraints struct {
	PermittedSubtrees []GeneralSubtree
	ExcludedSubtrees  []GeneralSubtree
}

// decodeGeneralSubtrees decodes a SEQUENCE OF GeneralSubtree's content.
func decodeGeneralSubtrees(content []byte) ([]GeneralSubtree, error) {
	var out []GeneralSubtree
	for len(content) > 0 {
		tlv, err := der.ReadTLV(content)
		if err != nil {
			return nil, err
		}
		inner, err := der.ReadTLV(tlv.Content) // base GeneralName
		if err != nil {
			return nil, err
		}
		gn, err := decodeGeneralNameTLV(inner)
		if err != nil {
			return nil, err
		}
		out = append(out, GeneralSubtree{Base: gn})
		content = tlv.Rest
	}
	return out, nil
}

// decodeGeneralNameTLV decodes one already-sliced GeneralName TLV without
// going through the full push-event builder, used by the nested structures
// (NameConstraints, DistributionPoint) that only ever see GeneralName
// embedded inside another SEQUENCE rather than as a standalone root.
func decodeGeneralNameTLV(tlv der.TLV) (GeneralName, error) {
	raw := append(der.EncodeHeader(tlv.Header.Class, tlv.Header.Constructed, tlv.Header.Tag, len(tlv.Content)), tlv.Content...)
	b := newGeneralNameBuilder()
	if err := builder.Walk(raw, b); err != nil {
		return GeneralName{}, err
	}
	return b.Yield()
}

// DecodeNameConstraints decodes the content of an id-ce-nameConstraints
// extension value.
func DecodeNameConstraints(content []byte) (NameConstraints, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return NameConstraints{}, err
	}
	var nc NameConstraints
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return NameConstraints{}, err
		}
		switch field.Header.Tag {
		case 0:
			nc.PermittedSubtrees, err = decodeGeneralSubtrees(field.Content)
		case 1:
			nc.ExcludedSubtrees, err = decodeGeneralSubtrees(field.Content)
		}
		if err != nil {
			return NameConstraints{}, err
		}
		rest = field.Rest
	}
	if len(nc.PermittedSubtrees) == 0 && len(nc.ExcludedSubtrees) == 0 {
		return NameConstraints{}, &der.Error{Kind: der.KindIncompleteInput, Where: "name-constraints", Reason: "at least one of permittedSubtrees/excludedSubtrees must appear"}
	}
	return nc, nil
}

func encodeGeneralSubtrees(subtrees []GeneralSubtree) ([]byte, error) {
	var content []byte
	for _, s := range subtrees {
		base, err := s.Base.Encode()
		if err != nil {
			return nil, err
		}
		content = append(content, append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(base)), base...)...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// Encode serializes nc to the Extension.Value bytes of id-ce-nameConstraints.
func (nc NameConstraints) Encode() ([]byte, error) {
	var content []byte
	if len(nc.PermittedSubtrees) > 0 {
		inner, err := encodeGeneralSubtrees(nc.PermittedSubtrees)
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(inner)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	if len(nc.ExcludedSubtrees) > 0 {
		inner, err := encodeGeneralSubtrees(nc.ExcludedSubtrees)
		if err != nil {
			return nil, err
		}
		tlv, err := der.ReadTLV(inner)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(tlv.Content))...)
		content = append(content, tlv.Content...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
