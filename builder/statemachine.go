package builder

import "github.com/dfi/dercert/der"

// activeRoute tracks the sub-builder currently consuming events, so that
// nested constructed content belonging to that sub-builder is not
// misinterpreted as a sibling field of the owning composite.
type activeRoute struct {
	target     ElementIdentifier
	child      Builder
	openDepth  int
	repeatable bool
}

// StateMachine drives a Composite through its declared Transitions in
// response to push events, walking the static transition table: a field is
// matched at the current position (skipping OPTIONAL fields that do not
// match), routed to its sub-builder for the whole of its own nested
// structure, and then the position advances - except
// for Repeatable fields, which keep matching the same position until a
// differently-shaped event or end-of-content arrives.
type StateMachine struct {
	composite Composite
	pos       int
	active    *activeRoute
	opened    bool
}

// NewStateMachine creates a driver for composite. Concrete SEQUENCE/SET
// typed builders embed a *StateMachine and forward the three Builder methods
// to it.
func NewStateMachine(composite Composite) *StateMachine {
	return &StateMachine{composite: composite}
}

func (sm *StateMachine) transitions() []Transition {
	return sm.composite.Transitions()
}

// accepting reports whether every remaining (unvisited) transition from the
// current position onward is optional, i.e. end-of-content is a legal event
// right now.
func (sm *StateMachine) accepting() bool {
	ts := sm.transitions()
	for i := sm.pos; i < len(ts); i++ {
		if !ts[i].Input.Optional {
			return false
		}
	}
	return true
}

// dispatch scans forward from pos for a transition matching the incoming
// event shape, skipping past optional fields that do not match. It does not
// mutate pos itself; callers advance pos once the matched field's consuming
// cycle is known.
func (sm *StateMachine) dispatch(class der.Class, constructed bool, tag int) (Transition, bool) {
	ts := sm.transitions()
	for sm.pos < len(ts) {
		t := ts[sm.pos]
		if t.Input.Matches(class, constructed, tag) {
			return t, true
		}
		if t.Input.Optional {
			sm.pos++
			continue
		}
		return Transition{}, false
	}
	return Transition{}, false
}

func unexpectedEvent(where string) error {
	return &der.Error{Kind: der.KindIncompleteInput, Where: where, Reason: "event does not match any expected field at the current position"}
}

// OnPrimitive implements Builder.
func (sm *StateMachine) OnPrimitive(class der.Class, tag int, content []byte) error {
	if sm.active != nil {
		if sm.active.openDepth > 0 {
			return sm.active.child.OnPrimitive(class, tag, content)
		}
		if sm.active.repeatable {
			if t, ok := sm.currentTransition(); ok && t.Input.Matches(class, false, tag) {
				return sm.active.child.OnPrimitive(class, tag, content)
			}
		}
		sm.pos++
		sm.active = nil
	}

	t, ok := sm.dispatch(class, false, tag)
	if !ok {
		return unexpectedEvent("sequence")
	}
	child := sm.composite.CreateState(t.Target)
	if err := child.OnPrimitive(class, tag, content); err != nil {
		return err
	}
	if t.Input.Repeatable {
		sm.active = &activeRoute{target: t.Target, child: child, repeatable: true}
	} else {
		sm.pos++
	}
	return nil
}

// OnConstructedOpen implements Builder.
func (sm *StateMachine) OnConstructedOpen(class der.Class, tag int) error {
	if !sm.opened {
		sm.opened = true
		return nil
	}
	if sm.active != nil {
		if sm.active.openDepth > 0 {
			sm.active.openDepth++
			return sm.active.child.OnConstructedOpen(class, tag)
		}
		if sm.active.repeatable {
			if t, ok := sm.currentTransition(); ok && t.Input.Matches(class, true, tag) {
				if err := sm.active.child.OnConstructedOpen(class, tag); err != nil {
					return err
				}
				sm.active.openDepth = 1
				return nil
			}
		}
		sm.pos++
		sm.active = nil
	}

	t, ok := sm.dispatch(class, true, tag)
	if !ok {
		return unexpectedEvent("sequence")
	}
	child := sm.composite.CreateState(t.Target)
	if err := child.OnConstructedOpen(class, tag); err != nil {
		return err
	}
	sm.active = &activeRoute{target: t.Target, child: child, openDepth: 1, repeatable: t.Input.Repeatable}
	return nil
}

// OnConstructedClose implements Builder.
func (sm *StateMachine) OnConstructedClose() error {
	if sm.active != nil && sm.active.openDepth > 0 {
		err := sm.active.child.OnConstructedClose()
		if err != nil {
			return err
		}
		sm.active.openDepth--
		if sm.active.openDepth == 0 && !sm.active.repeatable {
			sm.pos++
			sm.active = nil
		}
		return nil
	}

	// No sub-builder is mid-construct: this close is end-of-content for
	// the composite itself.
	if sm.active != nil && sm.active.repeatable {
		sm.pos++
		sm.active = nil
	}
	if !sm.accepting() {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "sequence", Reason: "end-of-content reached with mandatory fields unsatisfied"}
	}
	return sm.composite.DoYield()
}

// Reset implements Builder.
func (sm *StateMachine) Reset() {
	sm.pos = 0
	sm.active = nil
	sm.opened = false
	sm.composite.DoReset()
}

func (sm *StateMachine) currentTransition() (Transition, bool) {
	ts := sm.transitions()
	if sm.pos >= len(ts) {
		return Transition{}, false
	}
	return ts[sm.pos], true
}
