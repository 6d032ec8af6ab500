package asn1struct

import (
	"bytes"
	"sort"

	"github.com/dfi/dercert/builder"
)

// ElementIdentifier is a local alias so every composite builder in this
// package can declare its iota blocks without repeating the builder.
// qualifier on every line.
type ElementIdentifier = builder.ElementIdentifier

// sortByteSlices sorts encoded member TLVs lexicographically in place, the
// canonical DER ordering every SET / SET OF encoder applies.
func sortByteSlices(encoded [][]byte) {
	sort.Slice(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i], encoded[j]) < 0
	})
}
