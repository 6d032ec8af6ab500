package builder

import "github.com/dfi/dercert/der"

// Tee forwards every event to inner while also reconstructing the exact DER
// bytes of the single element it receives, the way asn1.RawContent fields
// cache an input structure's raw bytes alongside its decoded form. It backs
// raw-byte accessors like Certificate.RawTBSCertificate and its siblings.
type Tee struct {
	inner Builder
	raw   *RawCapture
}

// NewTee returns a Tee that drives inner and separately captures the raw
// bytes of whatever single element is delivered to it.
func NewTee(inner Builder) *Tee {
	return &Tee{inner: inner, raw: NewRawCapture()}
}

func (t *Tee) OnPrimitive(class der.Class, tag int, content []byte) error {
	if err := t.raw.OnPrimitive(class, tag, content); err != nil {
		return err
	}
	return t.inner.OnPrimitive(class, tag, content)
}

func (t *Tee) OnConstructedOpen(class der.Class, tag int) error {
	if err := t.raw.OnConstructedOpen(class, tag); err != nil {
		return err
	}
	return t.inner.OnConstructedOpen(class, tag)
}

func (t *Tee) OnConstructedClose() error {
	if err := t.raw.OnConstructedClose(); err != nil {
		return err
	}
	return t.inner.OnConstructedClose()
}

func (t *Tee) Reset() {
	t.raw.Reset()
	t.inner.Reset()
}

// RawBytes returns the captured TLV bytes of the element seen so far.
func (t *Tee) RawBytes() ([]byte, error) {
	return t.raw.Yield()
}
