package der

// EncodeBoolean encodes a BOOLEAN value: 0xFF for true, 0x00 for false, per
// DER's canonical single-byte encoding.
func EncodeBoolean(class Class, v bool) []byte {
	b := byte(0x00)
	if v {
		b = 0xFF
	}
	return append(EncodeHeader(class, false, TagBoolean, 1), b)
}

// DecodeBoolean decodes BOOLEAN content. DER requires exactly one content
// octet, 0x00 or 0xFF; any other non-zero value is accepted by BER but
// rejected here since the codec only speaks DER.
func DecodeBoolean(content []byte) (bool, error) {
	if len(content) != 1 {
		return false, newErr(KindInvalidContent, "boolean", "content must be exactly one octet")
	}
	switch content[0] {
	case 0x00:
		return false, nil
	case 0xFF:
		return true, nil
	default:
		return false, newErr(KindInvalidContent, "boolean", "non-canonical boolean octet")
	}
}

// EncodeNull returns the two-byte DER NULL encoding (05 00).
func EncodeNull() []byte {
	return []byte{0x05, 0x00}
}

// DecodeNull validates that content is empty, as NULL carries no data.
func DecodeNull(content []byte) error {
	if len(content) != 0 {
		return newErr(KindInvalidContent, "null", "NULL must have empty content")
	}
	return nil
}
