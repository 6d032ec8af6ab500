package builder

import (
	"math/big"
	"testing"

	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigFromInt(n int64) *big.Int { return big.NewInt(n) }

// testPair models SEQUENCE { a INTEGER, b OCTET STRING OPTIONAL } and
// exercises StateMachine's mandatory/optional field dispatch.
type testPair struct {
	sm *StateMachine
	a  *PrimitiveBuilder[int64]
	b  *PrimitiveBuilder[[]byte]
}

const (
	testPairA ElementIdentifier = iota
	testPairB
)

func newTestPair() *testPair {
	p := &testPair{
		a: NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
			n, err := der.DecodeBigInt(c)
			if err != nil {
				return 0, err
			}
			return n.Int64(), nil
		}),
		b: NewPrimitiveBuilder(der.ClassUniversal, der.TagOctetString, func(c []byte) ([]byte, error) {
			return der.DecodeOctetString(c), nil
		}),
	}
	p.sm = NewStateMachine(p)
	return p
}

func (p *testPair) Transitions() []Transition {
	return []Transition{
		{Input: ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger}, Target: testPairA},
		{Input: ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString, Optional: true}, Target: testPairB},
	}
}

func (p *testPair) CreateState(id ElementIdentifier) Builder {
	switch id {
	case testPairA:
		return p.a
	case testPairB:
		return p.b
	}
	panic("unknown element")
}

func (p *testPair) DoYield() error {
	if !p.a.Yielded() {
		return &der.Error{Kind: der.KindIncompleteInput, Where: "testPair", Reason: "a is mandatory"}
	}
	return nil
}

func (p *testPair) DoReset() {
	p.a.Reset()
	p.b.Reset()
}

func (p *testPair) OnPrimitive(class der.Class, tag int, content []byte) error {
	return p.sm.OnPrimitive(class, tag, content)
}
func (p *testPair) OnConstructedOpen(class der.Class, tag int) error {
	return p.sm.OnConstructedOpen(class, tag)
}
func (p *testPair) OnConstructedClose() error { return p.sm.OnConstructedClose() }
func (p *testPair) Reset()                    { p.sm.Reset() }

func (p *testPair) Yield() (struct {
	A int64
	B []byte
}, error) {
	return struct {
		A int64
		B []byte
	}{A: p.a.value, B: p.b.value}, nil
}

func TestStateMachineMandatoryAndOptionalFields(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	intTLV, err := der.EncodeBigInt(der.ClassUniversal, bigFromInt(7))
	require.NoError(err)
	octTLV := der.EncodeOctetString(der.ClassUniversal, []byte("hi"))

	content := append(append([]byte{}, intTLV...), octTLV...)
	whole := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content))
	whole = append(whole, content...)

	pair := newTestPair()
	result, err := Parse(whole, func() RootBuilder[struct {
		A int64
		B []byte
	}] {
		return pair
	})
	require.NoError(err)
	assert.Equal(int64(7), result.A)
	assert.Equal([]byte("hi"), result.B)
}

func TestStateMachineOptionalFieldAbsent(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	intTLV, err := der.EncodeBigInt(der.ClassUniversal, bigFromInt(3))
	require.NoError(err)
	whole := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(intTLV))
	whole = append(whole, intTLV...)

	pair := newTestPair()
	result, err := Parse(whole, func() RootBuilder[struct {
		A int64
		B []byte
	}] {
		return pair
	})
	require.NoError(err)
	assert.Equal(int64(3), result.A)
	assert.Nil(result.B)
}

func TestStateMachineMissingMandatoryFieldFails(t *testing.T) {
	octTLV := der.EncodeOctetString(der.ClassUniversal, []byte("x"))
	whole := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(octTLV))
	whole = append(whole, octTLV...)

	pair := newTestPair()
	_, err := Parse(whole, func() RootBuilder[struct {
		A int64
		B []byte
	}] {
		return pair
	})
	assert.Error(t, err)
}

// TestSequenceOfBuilderAccumulates models SEQUENCE OF INTEGER.
func TestSequenceOfBuilderAccumulates(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	var content []byte
	for _, n := range []int64{1, 2, 3} {
		enc, err := der.EncodeBigInt(der.ClassUniversal, bigFromInt(n))
		require.NoError(err)
		content = append(content, enc...)
	}
	whole := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content))
	whole = append(whole, content...)

	sob := NewSequenceOfBuilder(func() Element[int64] {
		return NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
			n, err := der.DecodeBigInt(c)
			if err != nil {
				return 0, err
			}
			return n.Int64(), nil
		})
	})

	require.NoError(sob.OnConstructedOpen(der.ClassUniversal, der.TagSequence))
	tlv, err := der.ReadTLV(whole)
	require.NoError(err)
	require.NoError(walkAll(0, tlv.Content, sob))
	require.NoError(sob.OnConstructedClose())

	values, err := sob.Yield()
	require.NoError(err)
	assert.Equal([]int64{1, 2, 3}, values)
}
