package builder

import "github.com/dfi/dercert/der"

// ExplicitContextTagged wraps an inner Builder with an EXPLICIT context tag
// envelope: [n] wraps exactly one complete TLV carrying the inner value's
// own natural tag. The outer open/close pair is consumed here and never
// forwarded to inner; everything in between is.
type ExplicitContextTagged struct {
	class der.Class
	tag   int
	inner Builder

	outerOpened bool
	depth       int
}

// NewExplicitContextTagged returns a wrapper expecting a constructed event
// of the given class/tag before inner ever sees anything.
func NewExplicitContextTagged(class der.Class, tag int, inner Builder) *ExplicitContextTagged {
	return &ExplicitContextTagged{class: class, tag: tag, inner: inner, depth: -1}
}

// OnPrimitive implements Builder.
func (c *ExplicitContextTagged) OnPrimitive(class der.Class, tag int, content []byte) error {
	if !c.outerOpened {
		return &der.Error{Kind: der.KindInvalidContent, Where: "context-tagged", Reason: "explicit wrapper must be constructed"}
	}
	return c.inner.OnPrimitive(class, tag, content)
}

// OnConstructedOpen implements Builder.
func (c *ExplicitContextTagged) OnConstructedOpen(class der.Class, tag int) error {
	if !c.outerOpened {
		if class != c.class || tag != c.tag {
			return &der.Error{Kind: der.KindInvalidContent, Where: "context-tagged", Reason: "tag mismatch on explicit wrapper"}
		}
		c.outerOpened = true
		return nil
	}
	if c.depth < 0 {
		c.depth = 0
	}
	c.depth++
	return c.inner.OnConstructedOpen(class, tag)
}

// OnConstructedClose implements Builder.
func (c *ExplicitContextTagged) OnConstructedClose() error {
	if !c.outerOpened {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "context-tagged", Reason: "close before open"}
	}
	if c.depth > 0 {
		if err := c.inner.OnConstructedClose(); err != nil {
			return err
		}
		c.depth--
		return nil
	}
	// depth <= 0: this is the outer wrapper's own close.
	return nil
}

// Reset implements Builder.
func (c *ExplicitContextTagged) Reset() {
	c.outerOpened = false
	c.depth = -1
	c.inner.Reset()
}

// ImplicitContextTagged wraps an inner Builder with an IMPLICIT context tag:
// the outer tag replaces the inner value's own tag on the wire, so the
// single incoming event is rewritten to the inner value's natural
// class/tag before being forwarded - no extra envelope exists to consume.
type ImplicitContextTagged struct {
	class        der.Class
	tag          int
	naturalClass der.Class
	naturalTag   int
	inner        Builder

	started bool
	depth   int
}

// NewImplicitContextTagged returns a wrapper that rewrites an event tagged
// (class, tag) to (naturalClass, naturalTag) before forwarding to inner.
func NewImplicitContextTagged(class der.Class, tag int, naturalClass der.Class, naturalTag int, inner Builder) *ImplicitContextTagged {
	return &ImplicitContextTagged{class: class, tag: tag, naturalClass: naturalClass, naturalTag: naturalTag, inner: inner}
}

// OnPrimitive implements Builder.
func (c *ImplicitContextTagged) OnPrimitive(class der.Class, tag int, content []byte) error {
	if class != c.class || tag != c.tag {
		return &der.Error{Kind: der.KindInvalidContent, Where: "context-tagged", Reason: "tag mismatch on implicit field"}
	}
	return c.inner.OnPrimitive(c.naturalClass, c.naturalTag, content)
}

// OnConstructedOpen implements Builder.
func (c *ImplicitContextTagged) OnConstructedOpen(class der.Class, tag int) error {
	if !c.started {
		if class != c.class || tag != c.tag {
			return &der.Error{Kind: der.KindInvalidContent, Where: "context-tagged", Reason: "tag mismatch on implicit field"}
		}
		c.started = true
		c.depth = 1
		return c.inner.OnConstructedOpen(c.naturalClass, c.naturalTag)
	}
	c.depth++
	return c.inner.OnConstructedOpen(class, tag)
}

// OnConstructedClose implements Builder.
func (c *ImplicitContextTagged) OnConstructedClose() error {
	if err := c.inner.OnConstructedClose(); err != nil {
		return err
	}
	c.depth--
	return nil
}

// Reset implements Builder.
func (c *ImplicitContextTagged) Reset() {
	c.started = false
	c.depth = 0
	c.inner.Reset()
}
