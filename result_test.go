package remix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURI(t *testing.T) {
	uri := DataURI("image/png", []byte("hello"))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", uri)

	data, mimeType, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "image/png", mimeType)
}

func TestParseDataURI_Malformed(t *testing.T) {
	for _, uri := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64,***",
	} {
		_, _, err := ParseDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestGenerationResult_ImageBytes(t *testing.T) {
	var nilResult *GenerationResult
	assert.False(t, nilResult.HasImage())

	_, _, err := (&GenerationResult{Text: "caption only"}).ImageBytes()
	assert.ErrorIs(t, err, ErrNoResultImage)

	r := &GenerationResult{ImageURL: DataURI("image/jpeg", []byte{0xFF, 0xD8})}
	data, mimeType, err := r.ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, data)
	assert.Equal(t, "image/jpeg", mimeType)
}
