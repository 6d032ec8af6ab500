package builder

import (
	"testing"

	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSet models SET { a INTEGER OPTIONAL, b OCTET STRING }, exercising
// SetBuilder's order-independent dispatch and duplicate-tag rejection.
type testSet struct {
	sb *SetBuilder
	a  *PrimitiveBuilder[int64]
	b  *PrimitiveBuilder[[]byte]
}

const (
	testSetA ElementIdentifier = iota
	testSetB
)

func newTestSet() *testSet {
	s := &testSet{
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
	s.sb = NewSetBuilder(s)
	return s
}

func (s *testSet) Transitions() []Transition {
	return []Transition{
		{Input: ElementInput{Class: der.ClassUniversal, Tag: der.TagInteger, Optional: true}, Target: testSetA},
		{Input: ElementInput{Class: der.ClassUniversal, Tag: der.TagOctetString}, Target: testSetB},
	}
}

func (s *testSet) CreateState(id ElementIdentifier) Builder {
	switch id {
	case testSetA:
		return s.a
	case testSetB:
		return s.b
	}
	panic("unknown element")
}

func (s *testSet) DoYield() error { return nil }
func (s *testSet) DoReset() {
	s.a.Reset()
	s.b.Reset()
}

func (s *testSet) OnPrimitive(class der.Class, tag int, content []byte) error {
	return s.sb.OnPrimitive(class, tag, content)
}
func (s *testSet) OnConstructedOpen(class der.Class, tag int) error {
	return s.sb.OnConstructedOpen(class, tag)
}
func (s *testSet) OnConstructedClose() error { return s.sb.OnConstructedClose() }
func (s *testSet) Reset()                    { s.sb.Reset() }

func TestSetBuilderAcceptsOutOfOrderFields(t *testing.T) {
	require := require.New(t)

	octTLV := der.EncodeOctetString(der.ClassUniversal, []byte("hi"))
	intTLV, err := der.EncodeBigInt(der.ClassUniversal, bigFromInt(9))
	require.NoError(err)

	// octet string arrives before the integer - legal for a SET.
	s := newTestSet()
	require.NoError(s.OnConstructedOpen(der.ClassUniversal, der.TagSet))
	require.NoError(s.OnPrimitive(der.ClassUniversal, der.TagOctetString, octTLV[2:]))
	require.NoError(s.OnPrimitive(der.ClassUniversal, der.TagInteger, intTLV[2:]))
	require.NoError(s.OnConstructedClose())

	assert.Equal(t, int64(9), s.a.value)
	assert.Equal(t, []byte("hi"), s.b.value)
}

func TestSetBuilderRejectsDuplicateTag(t *testing.T) {
	s := newTestSet()
	require.NoError(t, s.OnConstructedOpen(der.ClassUniversal, der.TagSet))
	octTLV := der.EncodeOctetString(der.ClassUniversal, []byte("a"))
	require.NoError(t, s.OnPrimitive(der.ClassUniversal, der.TagOctetString, octTLV[2:]))
	octTLV2 := der.EncodeOctetString(der.ClassUniversal, []byte("b"))
	err := s.OnPrimitive(der.ClassUniversal, der.TagOctetString, octTLV2[2:])
	assert.Error(t, err)
}
