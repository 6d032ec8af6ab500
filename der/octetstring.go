package der

// EncodeOctetString encodes an OCTET STRING TLV.
func EncodeOctetString(class Class, value []byte) []byte {
	return append(EncodeHeader(class, false, TagOctetString, len(value)), value...)
}

// DecodeOctetString decodes OCTET STRING content; OCTET STRING places no
// restriction on its byte content.
func DecodeOctetString(content []byte) []byte {
	out := make([]byte, len(content))
	copy(out, content)
	return out
}
