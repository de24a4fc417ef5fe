package adapters

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0x40, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestProcessResizesToTargetDimensions(t *testing.T) {
	processor := NewImagingProcessor(NewZerologWrapper())
	source := encodeTestPNG(t, 1024, 1024)
	dims := domain.Dimensions{Width: 640, Height: 480}

	colored, grayscale, err := processor.Process(source, dims)
	require.NoError(t, err)

	coloredImg, err := imaging.Decode(bytes.NewReader(colored))
	require.NoError(t, err)
	assert.Equal(t, dims.Width, coloredImg.Bounds().Dx())
	assert.Equal(t, dims.Height, coloredImg.Bounds().Dy())

	grayImg, err := imaging.Decode(bytes.NewReader(grayscale))
	require.NoError(t, err)
	assert.Equal(t, dims.Width, grayImg.Bounds().Dx())
	assert.Equal(t, dims.Height, grayImg.Bounds().Dy())
}

func TestProcessRejectsUndecodableInput(t *testing.T) {
	processor := NewImagingProcessor(NewZerologWrapper())

	_, _, err := processor.Process([]byte("not an image"), domain.Dimensions{Width: 640, Height: 480})
	assert.Error(t, err)
}

func TestPlaceholderIsDecodableAndUploadable(t *testing.T) {
	processor := NewImagingProcessor(NewZerologWrapper())
	dims := domain.Dimensions{Width: 640, Height: 480}

	colored, grayscale, err := processor.Placeholder(3, dims)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(colored))
	require.NoError(t, err)
	assert.Equal(t, dims.Width, img.Bounds().Dx())
	assert.Equal(t, dims.Height, img.Bounds().Dy())

	// The store rejects blobs under its minimum size, a placeholder must
	// always clear it.
	assert.GreaterOrEqual(t, len(colored), 1000)
	assert.GreaterOrEqual(t, len(grayscale), 1000)
}

func TestPlaceholderIsDeterministicPerScene(t *testing.T) {
	processor := NewImagingProcessor(NewZerologWrapper())
	dims := domain.Dimensions{Width: 320, Height: 240}

	first, _, err := processor.Placeholder(2, dims)
	require.NoError(t, err)
	second, _, err := processor.Placeholder(2, dims)
	require.NoError(t, err)
	other, _, err := processor.Placeholder(3, dims)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same scene must render the same placeholder")
	assert.NotEqual(t, first, other, "different scenes use different palette entries")
}
