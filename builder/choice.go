package builder

import "github.com/dfi/dercert/der"

// ChoiceVariant names one alternative of a CHOICE type: the shape it is
// recognized by, and the sub-builder identifier CreateState resolves it to.
type ChoiceVariant struct {
	Input ElementInput
	ID    ElementIdentifier
}

// ChoiceComposite is implemented by every CHOICE typed builder, mirroring
// Composite but for mutually-exclusive alternatives rather than an ordered
// field list. Fallback, when it returns ok, names the sub-builder used when
// no declared variant matches (a raw-capture escape hatch, as GeneralName
// uses for any tag outside its declared alternatives).
type ChoiceComposite interface {
	Variants() []ChoiceVariant
	CreateState(id ElementIdentifier) Builder
	Fallback() (ElementIdentifier, bool)
}

// ChoiceBuilder selects exactly one variant based on the first event it
// sees and routes every subsequent event - including a constructed
// variant's own nested structure - to that single selected sub-builder.
type ChoiceBuilder struct {
	composite  ChoiceComposite
	selectedID ElementIdentifier
	child      Builder
	depth      int
	matched    bool
}

// NewChoiceBuilder returns a driver for composite.
func NewChoiceBuilder(composite ChoiceComposite) *ChoiceBuilder {
	return &ChoiceBuilder{composite: composite}
}

func (c *ChoiceBuilder) match(class der.Class, constructed bool, tag int) (ElementIdentifier, bool) {
	for _, v := range c.composite.Variants() {
		if v.Input.Matches(class, constructed, tag) {
			return v.ID, true
		}
	}
	return c.composite.Fallback()
}

// OnPrimitive implements Builder.
func (c *ChoiceBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	if c.matched {
		return c.child.OnPrimitive(class, tag, content)
	}
	id, ok := c.match(class, false, tag)
	if !ok {
		return &der.Error{Kind: der.KindUnsupportedFormat, Where: "choice", Reason: "no variant matches and no fallback declared"}
	}
	c.child = c.composite.CreateState(id)
	c.selectedID = id
	c.matched = true
	return c.child.OnPrimitive(class, tag, content)
}

// OnConstructedOpen implements Builder.
func (c *ChoiceBuilder) OnConstructedOpen(class der.Class, tag int) error {
	if c.matched {
		c.depth++
		return c.child.OnConstructedOpen(class, tag)
	}
	id, ok := c.match(class, true, tag)
	if !ok {
		return &der.Error{Kind: der.KindUnsupportedFormat, Where: "choice", Reason: "no variant matches and no fallback declared"}
	}
	c.child = c.composite.CreateState(id)
	c.selectedID = id
	c.matched = true
	c.depth = 1
	return c.child.OnConstructedOpen(class, tag)
}

// OnConstructedClose implements Builder.
func (c *ChoiceBuilder) OnConstructedClose() error {
	if !c.matched {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "choice", Reason: "close event before any variant was selected"}
	}
	if c.depth == 0 {
		return nil
	}
	if err := c.child.OnConstructedClose(); err != nil {
		return err
	}
	c.depth--
	return nil
}

// Reset implements Builder.
func (c *ChoiceBuilder) Reset() {
	c.child = nil
	c.depth = 0
	c.matched = false
	c.selectedID = 0
}

// Selected returns the variant identifier chosen for this parse and whether
// any variant has been chosen yet.
func (c *ChoiceBuilder) Selected() (ElementIdentifier, bool) {
	return c.selectedID, c.matched
}
