package builder

import "github.com/dfi/dercert/der"

// PrimitiveBuilder consumes exactly one primitive event of a declared shape
// and decodes it into T using the supplied decode function. It is the leaf
// of every builder tree: INTEGER, BOOLEAN, OCTET STRING, OID and the other
// §4.1 primitives all reach their typed value through one of these.
type PrimitiveBuilder[T any] struct {
	class   der.Class
	tag     int
	decode  func(content []byte) (T, error)
	value   T
	yielded bool
}

// NewPrimitiveBuilder returns a builder that accepts a primitive event of
// the given class/tag and decodes its content with decode.
func NewPrimitiveBuilder[T any](class der.Class, tag int, decode func([]byte) (T, error)) *PrimitiveBuilder[T] {
	return &PrimitiveBuilder[T]{class: class, tag: tag, decode: decode}
}

// OnPrimitive implements Builder.
func (b *PrimitiveBuilder[T]) OnPrimitive(class der.Class, tag int, content []byte) error {
	if class != b.class || tag != b.tag {
		return &der.Error{Kind: der.KindInvalidContent, Where: "primitive", Reason: "unexpected class/tag for primitive field"}
	}
	v, err := b.decode(content)
	if err != nil {
		return err
	}
	b.value = v
	b.yielded = true
	return nil
}

// OnConstructedOpen implements Builder; a primitive field never sees one.
func (b *PrimitiveBuilder[T]) OnConstructedOpen(der.Class, int) error {
	return &der.Error{Kind: der.KindInvalidContent, Where: "primitive", Reason: "constructed event delivered to a primitive field"}
}

// OnConstructedClose implements Builder; a primitive field never sees one.
func (b *PrimitiveBuilder[T]) OnConstructedClose() error {
	return &der.Error{Kind: der.KindInvalidContent, Where: "primitive", Reason: "close event delivered to a primitive field"}
}

// Reset implements Builder.
func (b *PrimitiveBuilder[T]) Reset() {
	var zero T
	b.value = zero
	b.yielded = false
}

// Yield returns the decoded value. It fails if no matching event was ever
// delivered.
func (b *PrimitiveBuilder[T]) Yield() (T, error) {
	if !b.yielded {
		var zero T
		return zero, &der.Error{Kind: der.KindIncompleteInput, Where: "primitive", Reason: "field never populated"}
	}
	return b.value, nil
}

// Yielded reports whether a value has been populated, for OPTIONAL/DEFAULT
// fields that need to fall back without treating absence as an error.
func (b *PrimitiveBuilder[T]) Yielded() bool {
	return b.yielded
}
