package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestValidateImageAcceptsJPEGAndPNG(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(encodePNG(t, 10, 10)))
	assert.NoError(t, p.ValidateImage(encodeJPEG(t, 10, 10)))
}

func TestValidateImageRejectsNonImages(t *testing.T) {
	p := NewImageProcessor()

	// a lying Content-Type never reaches this layer; the bytes decide
	err := p.ValidateImage([]byte("definitely not pixels"))
	assert.Error(t, err)

	err = p.ValidateImage(nil)
	assert.Error(t, err)
}

func TestValidateImageRejectsOversized(t *testing.T) {
	p := &ImageProcessor{MaxSize: 16}

	err := p.ValidateImage(encodePNG(t, 10, 10))
	assert.ErrorContains(t, err, "exceeds")
}

func TestProcessImageRendersAllVariants(t *testing.T) {
	p := NewImageProcessor()

	variants, err := p.ProcessImage(encodePNG(t, 400, 200))
	require.NoError(t, err)
	require.Len(t, variants, 3)

	for _, name := range []string{"large", "medium", "thumbnail"} {
		data, ok := variants[name]
		require.True(t, ok, "missing variant %s", name)

		img, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format, "variants are re-encoded as JPEG")
		assert.LessOrEqual(t, img.Bounds().Dx(), 400, "fit never upscales")
	}

	thumb, _, err := image.Decode(bytes.NewReader(variants["thumbnail"]))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 150, thumb.Bounds().Dy(), "aspect ratio is preserved")
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	p := NewImageProcessor()

	_, err := p.ProcessImage([]byte("garbage"))
	assert.Error(t, err)
}
