package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	data, ext, err := DecodeDataURI("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
	assert.Equal(t, "png", ext)

	_, ext, err = DecodeDataURI("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", ext)
}

func TestDecodeDataURIMalformed(t *testing.T) {
	var valErr *ValidationError
	for _, input := range []string{
		"",
		"plain text",
		"data:image/png,no-base64-marker",
		"data:image/;base64,AAAA",
		"data:image/png;base64,@@not-base64@@",
	} {
		_, _, err := DecodeDataURI(input)
		assert.ErrorAs(t, err, &valErr, "input %q", input)
	}
}

func TestSaveDataURILocal(t *testing.T) {
	dir := t.TempDir()
	svc := NewImageService(nil, dir, "")
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	location, err := svc.SaveDataURI(context.Background(), "recipes", "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(location, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, "recipes", filepath.Base(location)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), stored)
}

func TestSaveDataURIBaseURL(t *testing.T) {
	svc := NewImageService(nil, t.TempDir(), "https://media.example.com/")
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	location, err := svc.SaveDataURI(context.Background(), "users", "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "https://media.example.com/users/"))
}
