package asn1struct

import (
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// SubjectPublicKeyInfo is RFC 5280 §4.1.2.7: an AlgorithmIdentifier plus the
// encoded public key bits.
type SubjectPublicKeyInfo struct {
	Algorithm        AlgorithmIdentifier
	SubjectPublicKey der.BitString
}

const (
	spkiAlgorithm ElementIdentifier = iota
	spkiKey
)

func newSubjectPublicKeyInfoBuilder() *subjectPublicKeyInfoBuilder {
	b := &subjectPublicKeyInfoBuilder{
		algorithm: newAlgorithmIdentifierBuilder(),
		key:       builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagBitString, der.DecodeBitString),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type subjectPublicKeyInfoBuilder struct {
	sm        *builder.StateMachine
	algorithm *algorithmIdentifierBuilder
	key       *builder.PrimitiveBuilder[der.BitString]
}

func (b *subjectPublicKeyInfoBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Constructed: true, Tag: der.TagSequence}, Target: spkiAlgorithm},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagBitString}, Target: spkiKey},
	}
}

func (b *subjectPublicKeyInfoBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case spkiAlgorithm:
		return b.algorithm
	case spkiKey:
		return b.key
	}
	panic("asn1struct: unknown SubjectPublicKeyInfo element")
}

func (b *subjectPublicKeyInfoBuilder) DoYield() error { return nil }
func (b *subjectPublicKeyInfoBuilder) DoReset() {
	b.algorithm.Reset()
	b.key.Reset()
}

func (b *subjectPublicKeyInfoBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *subjectPublicKeyInfoBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *subjectPublicKeyInfoBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *subjectPublicKeyInfoBuilder) Reset()                    { b.sm.Reset() }

func (b *subjectPublicKeyInfoBuilder) Yield() (SubjectPublicKeyInfo, error) {
	alg, err := b.algorithm.Yield()
	if err != nil {
		return SubjectPublicKeyInfo{}, err
	}
	key, err := b.key.Yield()
	if err != nil {
		return SubjectPublicKeyInfo{}, err
	}
	return SubjectPublicKeyInfo{Algorithm: alg, SubjectPublicKey: key}, nil
}

// Encode serializes s.
func (s SubjectPublicKeyInfo) Encode() ([]byte, error) {
	algTLV, err := s.Algorithm.Encode()
	if err != nil {
		return nil, err
	}
	keyTLV, err := der.EncodeBitString(der.ClassUniversal, false, der.TagBitString, false, s.SubjectPublicKey)
	if err != nil {
		return nil, err
	}
	content := append(algTLV, keyTLV...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
