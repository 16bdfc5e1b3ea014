package fileformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	source := map[string]string{
		"title":           "About us",
		"intro":           "Welcome",
		"body.42.heading": "Our story",
	}
	target := map[string]string{
		"title":           "Ueber uns",
		"intro":           "Welcome",
		"body.new1.quote": "Bleib neugierig",
	}

	diff := Diff(source, target)

	assert.Equal(t, map[string]Delta{
		"title":           {Source: "About us", Target: "Ueber uns"},
		"body.42.heading": {Source: "Our story", Target: ""},
		"body.new1.quote": {Source: "", Target: "Bleib neugierig"},
	}, diff)
}

func TestDiff_Identical(t *testing.T) {
	flat := map[string]string{"title": "Same"}
	assert.Empty(t, Diff(flat, flat))
}

func TestDiff_MissingKeyComparesAsEmpty(t *testing.T) {
	// A source key holding an empty string and a target lacking the key
	// entirely are not a difference.
	diff := Diff(map[string]string{"intro": ""}, map[string]string{})
	assert.Empty(t, diff)

	diff = Diff(map[string]string{}, map[string]string{"intro": ""})
	assert.Empty(t, diff)
}

func TestCreateTMContent(t *testing.T) {
	blob, err := CreateTMContent(
		map[string]string{"title": "About us", "intro": "Welcome"},
		map[string]string{"title": "Ueber uns", "extra": "Nur hier"},
	)
	require.NoError(t, err)

	assert.Equal(t,
		"key,source,target\n"+
			"extra,,Nur hier\n"+
			"intro,Welcome,\n"+
			"title,About us,Ueber uns\n",
		string(blob))
}

func TestCreateTMContent_Empty(t *testing.T) {
	blob, err := CreateTMContent(map[string]string{}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "key,source,target\n", string(blob))
}
