package builder

import "github.com/dfi/dercert/der"

// Element is the contract a SEQUENCE OF / SET OF member builder must
// satisfy: it is a Builder that can also hand back its decoded value.
type Element[T any] interface {
	Builder
	Yield() (T, error)
}

// SequenceOfBuilder accepts zero or more sibling elements of identical shape
// and appends each to an internally held, parse-order slice. It backs both
// SEQUENCE OF and SET OF fields - SET OF's unordered semantics only affect
// the encoder's canonical re-sort on the way back out, never the parser,
// which always preserves arrival order.
type SequenceOfBuilder[T any] struct {
	newElement func() Element[T]
	current    Element[T]
	depth      int
	values     []T
	opened     bool
}

// NewSequenceOfBuilder returns a builder whose elements are produced by
// newElement, called once per element encountered.
func NewSequenceOfBuilder[T any](newElement func() Element[T]) *SequenceOfBuilder[T] {
	return &SequenceOfBuilder[T]{newElement: newElement}
}

// OnPrimitive implements Builder: a primitive arriving while an element is
// mid-construct belongs to that element; otherwise it is a primitive-shaped
// element, complete in a single event.
func (b *SequenceOfBuilder[T]) OnPrimitive(class der.Class, tag int, content []byte) error {
	if b.current != nil {
		return b.current.OnPrimitive(class, tag, content)
	}
	el := b.newElement()
	if err := el.OnPrimitive(class, tag, content); err != nil {
		return err
	}
	v, err := el.Yield()
	if err != nil {
		return err
	}
	b.values = append(b.values, v)
	return nil
}

// OnConstructedOpen implements Builder. The first call is the SEQUENCE
// OF/SET OF's own wrapper open and is consumed here, never forwarded; every
// call after that belongs to a member element.
func (b *SequenceOfBuilder[T]) OnConstructedOpen(class der.Class, tag int) error {
	if !b.opened {
		b.opened = true
		return nil
	}
	if b.current == nil {
		b.current = b.newElement()
		b.depth = 0
	}
	b.depth++
	return b.current.OnConstructedOpen(class, tag)
}

// OnConstructedClose implements Builder. With no element mid-construct, this
// is the SEQUENCE OF/SET OF's own closing event (elements may be primitive
// and never open current at all, or the previous element already closed and
// cleared it).
func (b *SequenceOfBuilder[T]) OnConstructedClose() error {
	if b.current == nil {
		return nil
	}
	if err := b.current.OnConstructedClose(); err != nil {
		return err
	}
	b.depth--
	if b.depth == 0 {
		v, err := b.current.Yield()
		if err != nil {
			return err
		}
		b.values = append(b.values, v)
		b.current = nil
	}
	return nil
}

// Reset implements Builder.
func (b *SequenceOfBuilder[T]) Reset() {
	b.current = nil
	b.depth = 0
	b.values = nil
	b.opened = false
}

// Yield returns the accumulated elements in parse order. An empty SEQUENCE
// OF is legal and yields a nil slice with no error; callers that require at
// least one element (e.g. RDNSequence) check len() themselves.
func (b *SequenceOfBuilder[T]) Yield() ([]T, error) {
	return b.values, nil
}
