package builder

import (
	"testing"

	"github.com/dfi/dercert/der"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sinkBuilder accepts any push event without enforcing a grammar; it exists
// only to drive Walk directly for tests that care about framing, not shape.
type sinkBuilder struct{}

func (sinkBuilder) OnPrimitive(der.Class, int, []byte) error { return nil }
func (sinkBuilder) OnConstructedOpen(der.Class, int) error   { return nil }
func (sinkBuilder) OnConstructedClose() error                { return nil }
func (sinkBuilder) Reset()                                   {}

// nestedSequences wraps an INTEGER 0 in n levels of constructed SEQUENCE.
func nestedSequences(n int) []byte {
	content := der.EncodeHeader(der.ClassUniversal, false, der.TagInteger, 1)
	content = append(content, 0x00)
	for i := 0; i < n; i++ {
		hdr := der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content))
		content = append(hdr, content...)
	}
	return content
}

func TestWalkRecursionDepthBoundary(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// MaxRecursionDepth nested SEQUENCEs around the leaf INTEGER: the leaf
	// itself is read at depth == MaxRecursionDepth, which is accepted.
	err := Walk(nestedSequences(MaxRecursionDepth), sinkBuilder{})
	assert.NoError(err)

	// One more level of nesting pushes the leaf to MaxRecursionDepth+1,
	// which must be rejected as IncompleteInput per the recursion-depth
	// boundary.
	err = Walk(nestedSequences(MaxRecursionDepth+1), sinkBuilder{})
	require.Error(err)
	var derErr *der.Error
	require.ErrorAs(err, &derErr)
	assert.Equal(der.KindIncompleteInput, derErr.Kind)
}
