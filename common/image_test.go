package common

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeImageFile_PNG(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	staging, err := DecodeImageFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(3), staging.Width)
	require.Equal(t, uint32(2), staging.Height)
	require.Len(t, staging.Pixels, 3*2*4)
	require.Equal(t, byte(255), staging.Pixels[0], "first pixel red channel")
	require.Equal(t, byte(255), staging.Pixels[3], "first pixel alpha channel")
}

func TestDecodeImageFile_JPEG(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(t.TempDir(), "img.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	staging, err := DecodeImageFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(4), staging.Width)
	require.Equal(t, uint32(4), staging.Height)
	require.Len(t, staging.Pixels, 4*4*4)
}

func TestDecodeImageFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := DecodeImageFile(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

func TestScaleRGBA(t *testing.T) {
	t.Parallel()

	pixels := make([]byte, 4*4*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = 128
		pixels[i+1] = 64
		pixels[i+2] = 32
		pixels[i+3] = 255
	}
	src := TextureStagingData{Pixels: pixels, Width: 4, Height: 4}

	dst := ScaleRGBA(src, 2, 2)
	require.Equal(t, uint32(2), dst.Width)
	require.Equal(t, uint32(2), dst.Height)
	require.Len(t, dst.Pixels, 2*2*4)
	// Uniform source stays uniform after bilinear resampling.
	require.Equal(t, byte(128), dst.Pixels[0])
	require.Equal(t, byte(64), dst.Pixels[1])
	require.Equal(t, byte(32), dst.Pixels[2])
	require.Equal(t, byte(255), dst.Pixels[3])
}

func TestScaleRGBA_NoOpAtSameSize(t *testing.T) {
	t.Parallel()

	src := TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
	dst := ScaleRGBA(src, 2, 2)
	require.Equal(t, src, dst)
}

func TestSliceToBytes(t *testing.T) {
	t.Parallel()

	floats := []float32{1, 2, 3}
	require.Len(t, SliceToBytes(floats), 12)

	require.Nil(t, SliceToBytes[float32](nil))
}

func TestCoalesce(t *testing.T) {
	t.Parallel()

	require.Equal(t, 5, Coalesce(0, 5))
	require.Equal(t, 3, Coalesce(3, 5))
	require.Equal(t, "fallback", Coalesce("", "fallback"))
}
