package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewText(t *testing.T) {
	t.Parallel()

	text, err := NewText("Der Herbst war schon immer meine liebste Jahreszeit.")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, text.ID)
	assert.NotEmpty(t, text.ContentDigest)
	assert.Nil(t, text.Language)
	assert.Nil(t, text.Level)
}

func TestNewTextEmptyContent(t *testing.T) {
	t.Parallel()

	_, err := NewText("")
	assert.ErrorIs(t, err, ErrEmptyTextContent)
}

func TestDigestContent(t *testing.T) {
	t.Parallel()

	first := DigestContent("identical content")
	second := DigestContent("identical content")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex sha256

	assert.NotEqual(t, first, DigestContent("different content"))
}

func TestTextSetLanguage(t *testing.T) {
	t.Parallel()

	text, err := NewText("some content")
	require.NoError(t, err)
	assert.False(t, text.IsLanguageIdentified())

	require.NoError(t, text.SetLanguage(LanguageDE))
	assert.True(t, text.IsLanguageIdentified())
	assert.Equal(t, LanguageDE, *text.Language)

	assert.ErrorIs(t, text.SetLanguage(Language("XX")), ErrInvalidTextLanguage)
	assert.Equal(t, LanguageDE, *text.Language)
}

func TestTextSetLevel(t *testing.T) {
	t.Parallel()

	text, err := NewText("some content")
	require.NoError(t, err)
	assert.False(t, text.IsLevelIdentified())

	require.NoError(t, text.SetLevel(LevelC1))
	assert.True(t, text.IsLevelIdentified())

	assert.ErrorIs(t, text.SetLevel(Level("Z9")), ErrInvalidTextLevel)
}
