package common

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// DecodeImageFile decodes an image file on disk to raw RGBA staging data.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - TextureStagingData: raw RGBA pixel data (4 bytes per pixel, row-major order) with dimensions
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}

	return imageToStaging(img), nil
}

// ScaleRGBA resamples staging data to the given dimensions using bilinear filtering.
// Used when a texture dictionary entry declares an explicit size different from the source image.
//
// Parameters:
//   - src: the source staging data
//   - width: the target width in pixels
//   - height: the target height in pixels
//
// Returns:
//   - TextureStagingData: the resampled staging data
func ScaleRGBA(src TextureStagingData, width, height uint32) TextureStagingData {
	if src.Width == width && src.Height == height {
		return src
	}

	srcImg := &image.RGBA{
		Pix:    src.Pixels,
		Stride: int(src.Width) * 4,
		Rect:   image.Rect(0, 0, int(src.Width), int(src.Height)),
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.BiLinear.Scale(dst, dst.Rect, srcImg, srcImg.Rect, draw.Src, nil)

	return TextureStagingData{
		Pixels: dst.Pix,
		Width:  width,
		Height: height,
	}
}

// imageToStaging converts any decoded image to RGBA staging data.
func imageToStaging(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
