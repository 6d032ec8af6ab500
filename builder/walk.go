package builder

import "github.com/dfi/dercert/der"

// Walk parses data as exactly one top-level TLV and delivers the resulting
// push events, in document order, to v. Any bytes left over after the
// single root element is a grammar error, not a second element - a root
// type is parsed once per Parse call.
func Walk(data []byte, v Builder) error {
	rest, err := walkOne(0, data, v)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return &der.Error{Kind: der.KindInvalidContent, Where: "walk", Reason: "trailing bytes after root structure"}
	}
	return nil
}

func walkOne(depth int, data []byte, v Builder) ([]byte, error) {
	if depth > MaxRecursionDepth {
		return nil, &der.Error{Kind: der.KindIncompleteInput, Where: "walk", Reason: "nesting depth exceeds MaxRecursionDepth"}
	}
	tlv, err := der.ReadTLV(data)
	if err != nil {
		return nil, err
	}
	if tlv.Header.Constructed {
		if err := v.OnConstructedOpen(tlv.Header.Class, tlv.Header.Tag); err != nil {
			return nil, err
		}
		if err := walkAll(depth+1, tlv.Content, v); err != nil {
			return nil, err
		}
		if err := v.OnConstructedClose(); err != nil {
			return nil, err
		}
	} else {
		if err := v.OnPrimitive(tlv.Header.Class, tlv.Header.Tag, tlv.Content); err != nil {
			return nil, err
		}
	}
	return tlv.Rest, nil
}

func walkAll(depth int, data []byte, v Builder) error {
	for len(data) > 0 {
		rest, err := walkOne(depth, data, v)
		if err != nil {
			return err
		}
		data = rest
	}
	return nil
}

// RootBuilder is a Builder that can also yield a finished value of type T
// and be reset for another parse, the contract every typed entry point
// (Certificate, CertificationRequest, OCSPResponse, ...) provides via its
// constructor function.
type RootBuilder[T any] interface {
	Builder
	Yield() (T, error)
}

// Parse drives newRoot() over data and returns the assembled value. newRoot
// is called once per invocation so repeated calls never share state.
func Parse[T any](data []byte, newRoot func() RootBuilder[T]) (T, error) {
	root := newRoot()
	if err := Walk(data, root); err != nil {
		var zero T
		return zero, err
	}
	return root.Yield()
}
