package helpers

import (
	"context"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,AAAA"))
	assert.True(t, IsDataURI(" data:image/svg+xml;charset=utf-8;base64,PHN2Zz4= "))
	assert.False(t, IsDataURI("/etc/passwd"))
	assert.False(t, IsDataURI("./uploads/photo.png"))
	assert.False(t, IsDataURI("data:image/png,not-base64"))
	assert.False(t, IsDataURI("https://res.cloudinary.com/x.png"))
	assert.False(t, IsDataURI(""))
}

func TestUploadImages_RejectsLocalPaths(t *testing.T) {
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	require.NoError(t, err)

	for _, path := range []string{"/etc/passwd", "C:\\Windows\\win.ini", "relative/file.jpg"} {
		urls, err := UploadImages(context.Background(), cld, []string{path}, EventsFolder)
		assert.Error(t, err, path)
		assert.Nil(t, urls, path)
	}
}

func TestUploadImages_NilClient(t *testing.T) {
	_, err := UploadImages(context.Background(), nil, []string{"data:image/png;base64,AAAA"}, EventsFolder)
	assert.Error(t, err)
}
