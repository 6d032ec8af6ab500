// Package builder implements a hierarchical, transition-table-driven builder
// state machine: given a root builder and a stream of primitive parse events
// (OnPrimitive / OnConstructedOpen / OnConstructedClose), it assembles a
// typed value by routing each event to the sub-builder its declared grammar
// names.
package builder

import "github.com/dfi/dercert/der"

// Builder is the capability every builder state implements: it consumes the
// three push events emitted while walking a DER byte stream, and can be
// reset for reuse.
type Builder interface {
	OnPrimitive(class der.Class, tag int, content []byte) error
	OnConstructedOpen(class der.Class, tag int) error
	OnConstructedClose() error
	Reset()
}

// ElementIdentifier names one sub-builder owned by a composite builder. It
// is opaque to the framework; concrete composite types define their own
// constants (typically an iota block) and map them to struct fields in
// CreateState.
type ElementIdentifier int

// ElementInput describes the class/constructed-flag/tag shape the grammar
// expects for one field, plus whether the field may be absent (Optional) or
// repeats zero or more times (Repeatable, for SEQUENCE OF / SET OF members).
// Any, when set, accepts any incoming event shape (the ASN.1 ANY case).
type ElementInput struct {
	Class       der.Class
	Constructed bool
	Tag         int
	Optional    bool
	Repeatable  bool
	Any         bool
}

// Matches reports whether an incoming event of the given shape satisfies e.
func (e ElementInput) Matches(class der.Class, constructed bool, tag int) bool {
	if e.Any {
		return true
	}
	return e.Class == class && e.Constructed == constructed && e.Tag == tag
}

// Transition pairs one expected field shape with the sub-builder identifier
// that consumes it. A composite type's Transitions() returns these in
// SEQUENCE declaration order; SetBuilder additionally tolerates them
// arriving out of order (see StateMachine and SetBuilder for the ordering
// rules each composite kind applies).
type Transition struct {
	Input  ElementInput
	Target ElementIdentifier
}

// Composite is implemented by every SEQUENCE/SET typed builder. A
// StateMachine drives any Composite through its static transition table;
// Composite only needs to declare the grammar (Transitions), hand back the
// sub-builder for a given element (CreateState), validate that all
// mandatory sub-builders were populated (DoYield) and reset its own
// sub-builders (DoReset). A plain interface stands in for what a
// virtual-dispatch base class would otherwise provide.
type Composite interface {
	Transitions() []Transition
	CreateState(id ElementIdentifier) Builder
	DoYield() error
	DoReset()
}

// MaxRecursionDepth bounds the TLV nesting depth within one Walk, as defense
// in depth against maliciously deep input. Every Walk (and so every Parse or
// WalkExtension call, including a nested re-parse of an inner DER blob)
// counts from zero; the depth is not carried across nested re-parses.
const MaxRecursionDepth = 32
