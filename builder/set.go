package builder

import "github.com/dfi/dercert/der"

// setRoute mirrors activeRoute but is keyed by transition index rather than
// sequence position, since a SET's fields may arrive in any order.
type setRoute struct {
	index      int
	child      Builder
	openDepth  int
	repeatable bool
}

// SetBuilder drives a Composite the way StateMachine does, except the
// incoming event order need not match Transitions() declaration order: the
// order in which child fields arrive is not constrained, and tie-breaks are
// by tag uniqueness within a SET. A
// non-repeatable transition that has already been consumed is a duplicate
// and rejected; an unrecognized event is also rejected, same as
// StateMachine.
type SetBuilder struct {
	composite Composite
	consumed  []bool
	active    *setRoute
	opened    bool
}

// NewSetBuilder returns a driver for composite.
func NewSetBuilder(composite Composite) *SetBuilder {
	return &SetBuilder{composite: composite, consumed: make([]bool, len(composite.Transitions()))}
}

func (sb *SetBuilder) find(class der.Class, constructed bool, tag int) (int, bool) {
	ts := sb.composite.Transitions()
	for i, t := range ts {
		if sb.consumed[i] && !t.Input.Repeatable {
			continue
		}
		if t.Input.Matches(class, constructed, tag) {
			return i, true
		}
	}
	return 0, false
}

func (sb *SetBuilder) accepting() bool {
	ts := sb.composite.Transitions()
	for i, t := range ts {
		if !sb.consumed[i] && !t.Input.Optional {
			return false
		}
	}
	return true
}

func duplicateTagErr() error {
	return &der.Error{Kind: der.KindConstraintCheckFail, Where: "set", Reason: "duplicate tag for a non-repeatable SET member"}
}

// OnPrimitive implements Builder.
func (sb *SetBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	if sb.active != nil {
		if sb.active.openDepth > 0 {
			return sb.active.child.OnPrimitive(class, tag, content)
		}
		ts := sb.composite.Transitions()
		if sb.active.repeatable && ts[sb.active.index].Input.Matches(class, false, tag) {
			return sb.active.child.OnPrimitive(class, tag, content)
		}
		sb.consumed[sb.active.index] = true
		sb.active = nil
	}

	idx, ok := sb.find(class, false, tag)
	if !ok {
		return unexpectedEvent("set")
	}
	ts := sb.composite.Transitions()
	if sb.consumed[idx] && !ts[idx].Input.Repeatable {
		return duplicateTagErr()
	}
	child := sb.composite.CreateState(ts[idx].Target)
	if err := child.OnPrimitive(class, tag, content); err != nil {
		return err
	}
	if ts[idx].Input.Repeatable {
		sb.active = &setRoute{index: idx, child: child, repeatable: true}
	} else {
		sb.consumed[idx] = true
	}
	return nil
}

// OnConstructedOpen implements Builder.
func (sb *SetBuilder) OnConstructedOpen(class der.Class, tag int) error {
	if !sb.opened {
		sb.opened = true
		return nil
	}
	if sb.active != nil {
		if sb.active.openDepth > 0 {
			sb.active.openDepth++
			return sb.active.child.OnConstructedOpen(class, tag)
		}
		ts := sb.composite.Transitions()
		if sb.active.repeatable && ts[sb.active.index].Input.Matches(class, true, tag) {
			if err := sb.active.child.OnConstructedOpen(class, tag); err != nil {
				return err
			}
			sb.active.openDepth = 1
			return nil
		}
		sb.consumed[sb.active.index] = true
		sb.active = nil
	}

	idx, ok := sb.find(class, true, tag)
	if !ok {
		return unexpectedEvent("set")
	}
	ts := sb.composite.Transitions()
	if sb.consumed[idx] && !ts[idx].Input.Repeatable {
		return duplicateTagErr()
	}
	child := sb.composite.CreateState(ts[idx].Target)
	if err := child.OnConstructedOpen(class, tag); err != nil {
		return err
	}
	sb.active = &setRoute{index: idx, child: child, openDepth: 1, repeatable: ts[idx].Input.Repeatable}
	return nil
}

// OnConstructedClose implements Builder.
func (sb *SetBuilder) OnConstructedClose() error {
	if sb.active != nil && sb.active.openDepth > 0 {
		if err := sb.active.child.OnConstructedClose(); err != nil {
			return err
		}
		sb.active.openDepth--
		if sb.active.openDepth == 0 && !sb.active.repeatable {
			sb.consumed[sb.active.index] = true
			sb.active = nil
		}
		return nil
	}

	if sb.active != nil && sb.active.repeatable {
		sb.consumed[sb.active.index] = true
		sb.active = nil
	}
	if !sb.accepting() {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "set", Reason: "end-of-content reached with mandatory SET members unsatisfied"}
	}
	return sb.composite.DoYield()
}

// Reset implements Builder.
func (sb *SetBuilder) Reset() {
	for i := range sb.consumed {
		sb.consumed[i] = false
	}
	sb.active = nil
	sb.opened = false
	sb.composite.DoReset()
}
