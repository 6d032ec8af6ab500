package der

import "math/big"

// EncodeInteger encodes value as a minimum-length big-endian two's-complement
// DER INTEGER content, prefixed with a TLV header of the given class and the
// universal INTEGER tag. value must be non-empty; canonicalization strips a
// redundant leading 0x00 (when the next byte's MSB is clear) or a redundant
// leading 0xFF (when the next byte's MSB is set).
func EncodeInteger(class Class, value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, newErr(KindInvalidContent, "integer", "empty content")
	}
	content := canonicalizeInteger(value)
	return append(EncodeHeader(class, false, TagInteger, len(content)), content...), nil
}

// canonicalizeInteger strips redundant leading bytes so the result is the
// unique minimum-length two's-complement encoding of the same value.
func canonicalizeInteger(value []byte) []byte {
	v := value
	for len(v) > 1 {
		if v[0] == 0x00 && v[1]&0x80 == 0 {
			v = v[1:]
			continue
		}
		if v[0] == 0xFF && v[1]&0x80 != 0 {
			v = v[1:]
			continue
		}
		break
	}
	return v
}

// EncodeBigInt encodes a *big.Int as a minimum-length two's-complement DER
// INTEGER.
func EncodeBigInt(class Class, value *big.Int) ([]byte, error) {
	content := bigIntToTwosComplement(value)
	return EncodeInteger(class, content)
}

// bigIntToTwosComplement renders n in minimum-length big-endian two's
// complement form (the representation DER INTEGER content requires).
func bigIntToTwosComplement(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0x00}
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}

	// negative: two's complement of the smallest byte width that fits.
	bitLen := n.BitLen()
	nBytes := bitLen/8 + 1
	twos := new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8)))
	b := twos.Bytes()
	for len(b) < nBytes {
		b = append([]byte{0x00}, b...)
	}
	return b
}

// DecodeInteger decodes DER INTEGER content into a minimum-length
// two's-complement byte slice (the canonical form EncodeInteger would
// produce for the same value). It rejects empty content and non-minimal
// encodings, per DER's length-minimality invariant.
func DecodeInteger(content []byte) ([]byte, error) {
	if len(content) == 0 {
		return nil, newErr(KindInvalidContent, "integer", "empty content")
	}
	if len(content) > 1 {
		if (content[0] == 0x00 && content[1]&0x80 == 0) || (content[0] == 0xFF && content[1]&0x80 != 0) {
			return nil, newErr(KindInvalidContent, "integer", "non-minimal encoding")
		}
	}
	return content, nil
}

// DecodeBigInt decodes DER INTEGER content into a *big.Int.
func DecodeBigInt(content []byte) (*big.Int, error) {
	if _, err := DecodeInteger(content); err != nil {
		return nil, err
	}
	out := new(big.Int).SetBytes(content)
	if content[0]&0x80 != 0 {
		// negative: out currently holds the unsigned magnitude of the
		// two's-complement bit pattern; subtract 2^(8*len).
		out.Sub(out, new(big.Int).Lsh(big.NewInt(1), uint(8*len(content))))
	}
	return out, nil
}

// Enumerated mirrors ASN.1 ENUMERATED, which shares INTEGER's encoding rules
// under its own universal tag.
type Enumerated int64

// EncodeEnumerated encodes an ENUMERATED value using INTEGER's content rules
// under the ENUMERATED tag.
func EncodeEnumerated(class Class, value Enumerated) ([]byte, error) {
	content := bigIntToTwosComplement(big.NewInt(int64(value)))
	content = canonicalizeInteger(content)
	return append(EncodeHeader(class, false, TagEnumerated, len(content)), content...), nil
}

// DecodeEnumerated decodes ENUMERATED content into an Enumerated value.
func DecodeEnumerated(content []byte) (Enumerated, error) {
	v, err := DecodeBigInt(content)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, newErr(KindInvalidContent, "enumerated", "value exceeds int64 range")
	}
	return Enumerated(v.Int64()), nil
}
