package leakmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		wantW, wantH int
	}{
		{"wide landscape", 400, 200, 100, 50},
		{"tall portrait", 200, 400, 50, 100},
		{"square", 300, 300, 100, 100},
		{"already small", 60, 40, 60, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.srcW, tt.srcH))
			dst := scaleToFit(src, maxThumbnailDim)
			assert.Equal(t, tt.wantW, dst.Bounds().Dx())
			assert.Equal(t, tt.wantH, dst.Bounds().Dy())
		})
	}
}

func TestThumbnailDataURI(t *testing.T) {
	uri, err := thumbnailDataURI(testPNG(t, 400, 300))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
}

func TestThumbnailDataURIRejectsGarbage(t *testing.T) {
	_, err := thumbnailDataURI([]byte("not an image"))
	assert.ErrorContains(t, err, "decode photo")
}
