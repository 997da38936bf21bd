package rcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportsVideoCodecAcceptsListedCombination(t *testing.T) {
	assert.True(t, SupportsVideoCodec(ContainerMP4, VideoAVC, 1920, 1080))
	assert.True(t, SupportsVideoCodec(ContainerWebM, VideoVP9, 1280, 720))
	assert.False(t, SupportsVideoCodec(ContainerMP4, VideoVP9, 1920, 1080))
}

func TestSupportsVideoCodecRejectsOddDimensions(t *testing.T) {
	assert.False(t, SupportsVideoCodec(ContainerMP4, VideoAVC, 1921, 1080))
	assert.False(t, SupportsVideoCodec(ContainerMP4, VideoAVC, 1920, 1081))
}

func TestMimeTypeIncludesCodecStringForMP4(t *testing.T) {
	mime, err := MimeType(ContainerMP4, VideoAVC)
	require.NoError(t, err)
	assert.Equal(t, `video/mp4; codecs="avc1.42E01E"`, mime)
}

func TestMimeTypeForAudioOnlyContainerHasNoCodecSuffix(t *testing.T) {
	mime, err := MimeType(ContainerWAV, "")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", mime)
}

func TestMimeTypeUnsupportedContainerErrors(t *testing.T) {
	_, err := MimeType(Container("flv"), "")
	assert.Error(t, err)
}
