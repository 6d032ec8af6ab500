package oids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameAndNameRoundTrip(t *testing.T) {
	assert := assert.New(t)

	oid, ok := ByName("sha256WithRSAEncryption")
	assert.True(ok)
	assert.Equal("1.2.840.113549.1.1.11", oid.String())

	name, ok := Name(oid)
	assert.True(ok)
	assert.Equal("sha256WithRSAEncryption", name)
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("not-a-registered-oid")
	assert.False(t, ok)
}

func TestNamesNonEmpty(t *testing.T) {
	assert.NotEmpty(t, Names())
}
