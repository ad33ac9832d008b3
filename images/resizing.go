package images

import (
	"image"

	"github.com/nfnt/resize"
)

// ResizeToImage resizes img to exactly width x height using the Lanczos3
// algorithm. Detector inputs are produced with this; aspect ratio is not
// preserved, matching the square-input models we run.
func ResizeToImage(img image.Image, width, height uint) image.Image {
	return resize.Resize(width, height, img, resize.Lanczos3)
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, preserving
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}
