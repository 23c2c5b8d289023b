package komga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ParsesBytesOnce(t *testing.T) {
	raw, err := Normalize([]byte(`{"id":"s1","name":"Berserk"}`))
	require.NoError(t, err)

	parsed, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s1", parsed["id"])

	// A second pass over already-decoded data must not re-parse.
	again, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestNormalize_String(t *testing.T) {
	raw, err := Normalize(`[1,2,3]`)
	require.NoError(t, err)
	assert.Len(t, raw, 3)
}

func TestNormalize_MalformedBytes(t *testing.T) {
	_, err := Normalize([]byte(`{"unterminated`))
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
	assert.False(t, IsTransport(err))
}

func TestDecodeInto_Bytes(t *testing.T) {
	var series Series
	err := DecodeInto([]byte(`{"id":"s1","name":"Berserk","booksCount":41}`), &series)
	require.NoError(t, err)
	assert.Equal(t, "s1", series.ID)
	assert.Equal(t, 41, series.BooksCount)
}

func TestDecodeInto_StructuredValue(t *testing.T) {
	raw := map[string]any{"id": "s1", "metadata": map[string]any{"status": "ONGOING"}}

	var series Series
	err := DecodeInto(raw, &series)
	require.NoError(t, err)
	assert.Equal(t, "s1", series.ID)
	assert.Equal(t, "ONGOING", series.Metadata.Status)
}

func TestDecodeInto_MalformedIsTyped(t *testing.T) {
	var series Series
	err := DecodeInto("not json at all", &series)
	assert.True(t, IsMalformed(err))
}

func TestDecodeInto_PageEnvelope(t *testing.T) {
	body := `{"content":[{"id":"s1"},{"id":"s2"}],"number":0,"totalPages":3,"first":true,"last":false}`

	var page Page[Series]
	err := DecodeInto([]byte(body), &page)
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "s2", page.Content[1].ID)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
}
