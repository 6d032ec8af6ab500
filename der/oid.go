package der

import (
	"strconv"
	"strings"
)

// OID is a dot-separated, non-negative-arc object identifier.
type OID []uint64

// String renders the OID in dotted-decimal notation.
func (o OID) String() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether o and other name the same arc sequence.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseOID parses a dotted-decimal string into an OID.
func ParseOID(s string) (OID, error) {
	if s == "" {
		return nil, newErr(KindInvalidContent, "oid", "empty OID string")
	}
	parts := strings.Split(s, ".")
	out := make(OID, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, wrapErr(KindInvalidContent, "oid", "non-numeric arc: "+p, err)
		}
		out[i] = v
	}
	return out, nil
}

// validateOID enforces the OID's structural invariants: arc0 in {0,1,2}; if
// arc0<2 then arc1<40; at least 2 arcs.
func validateOID(value OID) error {
	if len(value) < 2 {
		return newErr(KindInvalidContent, "oid", "fewer than 2 arcs")
	}
	if value[0] > 2 {
		return newErr(KindInvalidContent, "oid", "first arc greater than 2")
	}
	if value[0] < 2 && value[1] >= 40 {
		return newErr(KindInvalidContent, "oid", "second arc >= 40 with first arc < 2")
	}
	return nil
}

// EncodeOID encodes an OBJECT IDENTIFIER. The first two arcs are combined as
// 40*arc0+arc1; subsequent arcs are each encoded as a base-128 sequence via
// EncodeIntWithImplicitLength.
func EncodeOID(class Class, tag int, value OID) ([]byte, error) {
	if err := validateOID(value); err != nil {
		return nil, err
	}

	content := EncodeIntWithImplicitLength(40*value[0] + value[1])
	for _, arc := range value[2:] {
		content = append(content, EncodeIntWithImplicitLength(arc)...)
	}
	return append(EncodeHeader(class, false, tag, len(content)), content...), nil
}

// DecodeOID decodes OBJECT IDENTIFIER content into an OID.
func DecodeOID(content []byte) (OID, error) {
	if len(content) == 0 {
		return nil, newErr(KindInvalidContent, "oid", "empty content")
	}

	arcs, err := decodeBase128Sequence(content)
	if err != nil {
		return nil, err
	}
	if len(arcs) == 0 {
		return nil, newErr(KindInvalidContent, "oid", "no arcs decoded")
	}

	first := arcs[0]
	var arc0, arc1 uint64
	switch {
	case first < 40:
		arc0, arc1 = 0, first
	case first < 80:
		arc0, arc1 = 1, first-40
	default:
		arc0, arc1 = 2, first-80
	}

	out := append(OID{arc0, arc1}, arcs[1:]...)
	if err := validateOID(out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeRelativeOID encodes a RELATIVE-OID: like OID but without the
// first-two-arc fusion; every arc is encoded independently.
func EncodeRelativeOID(class Class, value OID) ([]byte, error) {
	if len(value) == 0 {
		return nil, newErr(KindInvalidContent, "relative-oid", "empty arc list")
	}
	var content []byte
	for _, arc := range value {
		content = append(content, EncodeIntWithImplicitLength(arc)...)
	}
	return append(EncodeHeader(class, false, TagRelativeOID, len(content)), content...), nil
}

// DecodeRelativeOID decodes RELATIVE-OID content into an OID.
func DecodeRelativeOID(content []byte) (OID, error) {
	if len(content) == 0 {
		return nil, newErr(KindInvalidContent, "relative-oid", "empty content")
	}
	arcs, err := decodeBase128Sequence(content)
	if err != nil {
		return nil, err
	}
	return OID(arcs), nil
}

// decodeBase128Sequence decodes a concatenation of base-128 big-endian
// arcs (as used for OID/RELATIVE-OID arcs and high tag numbers).
func decodeBase128Sequence(content []byte) ([]uint64, error) {
	var arcs []uint64
	var cur uint64
	started := false
	for i, b := range content {
		if !started && b == 0x80 {
			return nil, newErr(KindInvalidContent, "oid", "non-minimal arc encoding (leading 0x80)")
		}
		started = true
		cur = cur<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			arcs = append(arcs, cur)
			cur = 0
			started = false
		} else if i == len(content)-1 {
			return nil, newErr(KindIncompleteInput, "oid", "truncated arc (final byte has continuation bit set)")
		}
	}
	return arcs, nil
}
