package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "title", BuildKey("title", "", ""))
	assert.Equal(t, "body.42.heading", BuildKey("body", "42", "heading"))
	assert.Equal(t, "body.new1.inner.7.text", BuildKey("body", "new1", "inner.7.text"))
}

func TestParseKey_Leaf(t *testing.T) {
	handle, blockID, remainder, err := ParseKey("title")
	require.NoError(t, err)
	assert.Equal(t, "title", handle)
	assert.Empty(t, blockID)
	assert.Empty(t, remainder)
}

func TestParseKey_Nested(t *testing.T) {
	handle, blockID, remainder, err := ParseKey("body.42.heading")
	require.NoError(t, err)
	assert.Equal(t, "body", handle)
	assert.Equal(t, "42", blockID)
	assert.Equal(t, "heading", remainder)
}

func TestParseKey_DeeplyNestedRemainder(t *testing.T) {
	handle, blockID, remainder, err := ParseKey("body.new1.inner.7.text")
	require.NoError(t, err)
	assert.Equal(t, "body", handle)
	assert.Equal(t, "new1", blockID)
	assert.Equal(t, "inner.7.text", remainder)

	// The remainder is itself a parseable key
	handle, blockID, remainder, err = ParseKey(remainder)
	require.NoError(t, err)
	assert.Equal(t, "inner", handle)
	assert.Equal(t, "7", blockID)
	assert.Equal(t, "text", remainder)
}

func TestParseKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "body.42", "body..heading", ".42.heading", "body.42."} {
		_, _, _, err := ParseKey(key)
		assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := BuildKey("body", "new2", "caption")
	handle, blockID, remainder, err := ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, "body", handle)
	assert.Equal(t, "new2", blockID)
	assert.Equal(t, "caption", remainder)
}
