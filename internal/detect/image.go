package detect

import (
	"image"
	"image/draw"
	"os"

	"github.com/nfnt/resize"

	// Register decoders for the recognized image formats. The enumeration
	// filter in the engine package admits exactly these formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeFile reads and decodes the image file at path.
// Failures are reported as a DecodeError carrying the path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from the enumeration walk
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Grayscale converts img to 8-bit grayscale using the standard luma
// weights (ITU-R 601, the same conversion PIL applies for mode "L").
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// Downscale shrinks img by factor with bilinear interpolation, preserving
// the aspect ratio. A factor of 1.0 (or anything outside (0, 1)) returns
// img unchanged.
func Downscale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		return img
	}

	width := uint(float64(img.Bounds().Dx()) * factor)
	if width == 0 {
		width = 1
	}
	return resize.Resize(width, 0, img, resize.Bilinear)
}
