package builder

import "github.com/dfi/dercert/der"

// ExtensionVisitor receives the push events for the DER content of a single
// X.509/OCSP extension value, keyed by the extension's OID. Extension
// grammars are extensible by nature and out of this package's scope;
// WalkExtension hands a caller-supplied Builder for the extension's content
// bytes instead of hard-coding every known extension shape here.
type ExtensionVisitor interface {
	// ForOID returns the Builder that should consume the extension content
	// identified by oid, or ok=false if the caller does not recognize it.
	ForOID(oid der.OID) (root Builder, ok bool)
}

// WalkExtension parses content (an extension's OCTET STRING payload, already
// unwrapped) against the builder ExtensionVisitor.ForOID returns for oid. If
// the visitor does not recognize oid, WalkExtension returns (false, nil) and
// leaves content unparsed - callers that need the raw bytes for unknown
// extensions should retain them separately rather than calling this at all.
func WalkExtension(oid der.OID, content []byte, v ExtensionVisitor) (recognized bool, err error) {
	root, ok := v.ForOID(oid)
	if !ok {
		return false, nil
	}
	if err := Walk(content, root); err != nil {
		return true, err
	}
	return true, nil
}
