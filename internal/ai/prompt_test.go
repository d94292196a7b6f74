package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectPrompt_IsSingleString(t *testing.T) {
	parts := CorrectPrompt("i has a apple")

	require.Len(t, parts, 1)
	assert.False(t, parts[0].IsBlob())
	assert.Contains(t, parts[0].Text, "Correct grammar")
	assert.Contains(t, parts[0].Text, "\n\nText: i has a apple")
}

func TestSummarizePrompt_HasTwoParts(t *testing.T) {
	parts := SummarizePrompt("long text")

	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "three lengths")
	assert.Equal(t, "Text: long text", parts[1].Text)
}

func TestImagePrompt(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4e, 0x47}

	parts := ImagePrompt("image/png", data)

	require.Len(t, parts, 2)
	assert.False(t, parts[0].IsBlob())
	assert.True(t, parts[1].IsBlob())
	assert.Equal(t, "image/png", parts[1].MIMEType)
	assert.Equal(t, data, parts[1].Data)
}

func TestImagePrompt_DefaultsMIMEType(t *testing.T) {
	parts := ImagePrompt("", []byte("x"))

	assert.Equal(t, DefaultImageMIMEType, parts[1].MIMEType)
}
