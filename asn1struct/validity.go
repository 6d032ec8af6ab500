package asn1struct

import (
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
)

// Validity is RFC 5280 §4.1.2.5: a notBefore/notAfter pair, each a CHOICE
// of UTCTime or GeneralizedTime. notBefore <= notAfter is a producer
// contract, not enforced by the codec.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

const (
	timeVariantUTC ElementIdentifier = iota
	timeVariantGeneralized
)

func timeChoiceVariants() []builder.ChoiceVariant {
	return []builder.ChoiceVariant{
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagUTCTime}, ID: timeVariantUTC},
		{Input: builder.ElementInput{Class: der.ClassUniversal, Tag: der.TagGeneralizedTime}, ID: timeVariantGeneralized},
	}
}

// timeChoiceBuilder assembles the Time CHOICE {utcTime, generalTime} shared
// by Validity and several other RFC 5280 time fields.
type timeChoiceBuilder struct {
	cb      *builder.ChoiceBuilder
	utc     *builder.PrimitiveBuilder[time.Time]
	general *builder.PrimitiveBuilder[time.Time]
}

func newTimeChoiceBuilder() *timeChoiceBuilder {
	b := &timeChoiceBuilder{
		utc:     builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagUTCTime, der.DecodeUTCTime),
		general: builder.NewPrimitiveBuilder(der.ClassUniversal, der.TagGeneralizedTime, der.DecodeGeneralizedTime),
	}
	b.cb = builder.NewChoiceBuilder(b)
	return b
}

func (b *timeChoiceBuilder) Variants() []builder.ChoiceVariant { return timeChoiceVariants() }
func (b *timeChoiceBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case timeVariantUTC:
		return b.utc
	case timeVariantGeneralized:
		return b.general
	}
	panic("asn1struct: unknown time-choice variant")
}
func (b *timeChoiceBuilder) Fallback() (ElementIdentifier, bool) { return 0, false }

func (b *timeChoiceBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.cb.OnPrimitive(class, tag, content)
}
func (b *timeChoiceBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.cb.OnConstructedOpen(class, tag)
}
func (b *timeChoiceBuilder) OnConstructedClose() error { return b.cb.OnConstructedClose() }
func (b *timeChoiceBuilder) Reset() {
	b.cb.Reset()
	b.utc.Reset()
	b.general.Reset()
}

func (b *timeChoiceBuilder) Yield() (time.Time, error) {
	id, ok := b.cb.Selected()
	if !ok {
		return time.Time{}, &der.Error{Kind: der.KindIncompleteInput, Where: "time", Reason: "no variant selected"}
	}
	switch id {
	case timeVariantUTC:
		return b.utc.Yield()
	default:
		return b.general.Yield()
	}
}

// encodeChoiceTime renders t as UTCTime when it fits the 2-digit-year range
// (RFC 5280 §4.1.2.5.1: dates through 2049 use UTCTime), GeneralizedTime
// otherwise.
func encodeChoiceTime(t time.Time) []byte {
	if t.Year() >= 1950 && t.Year() <= 2049 {
		return der.EncodeUTCTime(der.ClassUniversal, t)
	}
	return der.EncodeGeneralizedTime(der.ClassUniversal, t)
}

const (
	validityNotBefore ElementIdentifier = iota
	validityNotAfter
)

func newValidityBuilder() *validityBuilder {
	b := &validityBuilder{
		notBefore: newTimeChoiceBuilder(),
		notAfter:  newTimeChoiceBuilder(),
	}
	b.sm = builder.NewStateMachine(b)
	return b
}

type validityBuilder struct {
	sm        *builder.StateMachine
	notBefore *timeChoiceBuilder
	notAfter  *timeChoiceBuilder
}

func (b *validityBuilder) Transitions() []builder.Transition {
	return []builder.Transition{
		{Input: builder.ElementInput{Any: true}, Target: validityNotBefore},
		{Input: builder.ElementInput{Any: true}, Target: validityNotAfter},
	}
}

func (b *validityBuilder) CreateState(id ElementIdentifier) builder.Builder {
	switch id {
	case validityNotBefore:
		return b.notBefore
	case validityNotAfter:
		return b.notAfter
	}
	panic("asn1struct: unknown Validity element")
}

func (b *validityBuilder) DoYield() error { return nil }
func (b *validityBuilder) DoReset() {
	b.notBefore.Reset()
	b.notAfter.Reset()
}

func (b *validityBuilder) OnPrimitive(class der.Class, tag int, content []byte) error {
	return b.sm.OnPrimitive(class, tag, content)
}
func (b *validityBuilder) OnConstructedOpen(class der.Class, tag int) error {
	return b.sm.OnConstructedOpen(class, tag)
}
func (b *validityBuilder) OnConstructedClose() error { return b.sm.OnConstructedClose() }
func (b *validityBuilder) Reset()                    { b.sm.Reset() }

func (b *validityBuilder) Yield() (Validity, error) {
	nb, err := b.notBefore.Yield()
	if err != nil {
		return Validity{}, err
	}
	na, err := b.notAfter.Yield()
	if err != nil {
		return Validity{}, err
	}
	return Validity{NotBefore: nb, NotAfter: na}, nil
}

// Encode serializes v.
func (v Validity) Encode() ([]byte, error) {
	content := append(encodeChoiceTime(v.NotBefore), encodeChoiceTime(v.NotAfter)...)
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
