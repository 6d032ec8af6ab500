package builder

import (
	"testing"

	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oidKeyedVisitor struct {
	want der.OID
	b    *PrimitiveBuilder[int64]
}

func (v oidKeyedVisitor) ForOID(oid der.OID) (Builder, bool) {
	if len(oid) != len(v.want) {
		return nil, false
	}
	for i := range oid {
		if oid[i] != v.want[i] {
			return nil, false
		}
	}
	return v.b, true
}

func TestWalkExtensionRecognizedOID(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	oid, err := der.ParseOID("2.5.29.15")
	require.NoError(err)

	b := NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
		n, err := der.DecodeBigInt(c)
		if err != nil {
			return 0, err
		}
		return n.Int64(), nil
	})
	v := oidKeyedVisitor{want: oid, b: b}

	content := der.EncodeHeader(der.ClassUniversal, false, der.TagInteger, 1)
	content = append(content, 0x2A)

	recognized, err := WalkExtension(oid, content, v)
	require.NoError(err)
	assert.True(recognized)

	got, err := b.Yield()
	require.NoError(err)
	assert.Equal(int64(42), got)
}

func TestWalkExtensionUnrecognizedOID(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	want, err := der.ParseOID("2.5.29.15")
	require.NoError(err)
	other, err := der.ParseOID("2.5.29.19")
	require.NoError(err)

	b := NewPrimitiveBuilder(der.ClassUniversal, der.TagInteger, func(c []byte) (int64, error) {
		n, err := der.DecodeBigInt(c)
		if err != nil {
			return 0, err
		}
		return n.Int64(), nil
	})
	v := oidKeyedVisitor{want: want, b: b}

	content := der.EncodeHeader(der.ClassUniversal, false, der.TagInteger, 1)
	content = append(content, 0x2A)

	recognized, err := WalkExtension(other, content, v)
	require.NoError(err)
	assert.False(recognized)
}
