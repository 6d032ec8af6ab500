package builder

import "github.com/dfi/dercert/der"

// RawCapture reconstructs the exact DER bytes of whatever single element -
// primitive or arbitrarily nested constructed - it receives, without
// interpreting its grammar. It backs AlgorithmIdentifier.RawParameters,
// the hand-decoded CHOICE types (GeneralName, ResponderID, CertStatus),
// and any other field the asn1struct package deliberately leaves opaque.
type RawCapture struct {
	stack  []rawFrame
	result []byte
	got    bool
}

type rawFrame struct {
	class   der.Class
	tag     int
	content []byte
}

// NewRawCapture returns an empty capture, ready to receive one element.
func NewRawCapture() *RawCapture { return &RawCapture{} }

func (r *RawCapture) deliver(tlv []byte) {
	if len(r.stack) > 0 {
		top := &r.stack[len(r.stack)-1]
		top.content = append(top.content, tlv...)
		return
	}
	r.result = tlv
	r.got = true
}

// OnPrimitive implements Builder.
func (r *RawCapture) OnPrimitive(class der.Class, tag int, content []byte) error {
	tlv := append(der.EncodeHeader(class, false, tag, len(content)), content...)
	r.deliver(tlv)
	return nil
}

// OnConstructedOpen implements Builder.
func (r *RawCapture) OnConstructedOpen(class der.Class, tag int) error {
	r.stack = append(r.stack, rawFrame{class: class, tag: tag})
	return nil
}

// OnConstructedClose implements Builder.
func (r *RawCapture) OnConstructedClose() error {
	if len(r.stack) == 0 {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "raw-capture", Reason: "close event with nothing open"}
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	tlv := append(der.EncodeHeader(top.class, true, top.tag, len(top.content)), top.content...)
	r.deliver(tlv)
	return nil
}

// Reset implements Builder.
func (r *RawCapture) Reset() {
	r.stack = nil
	r.result = nil
	r.got = false
}

// Yield returns the captured TLV bytes. It fails if no element was ever
// delivered.
func (r *RawCapture) Yield() ([]byte, error) {
	if !r.got {
		return nil, &der.Error{Kind: der.KindIncompleteInput, Where: "raw-capture", Reason: "no element captured"}
	}
	return r.result, nil
}

// Yielded reports whether an element has been captured.
func (r *RawCapture) Yielded() bool { return r.got }
