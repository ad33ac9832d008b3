package images

import (
	"image"
	"image/draw"
)

// ToRGBA returns a *image.RGBA view of src anchored at the origin with
// stride = width*4, the exact layout the filter engine mutates. If src is
// already such an RGBA image it is returned directly; otherwise it is
// redrawn into a fresh buffer.
func ToRGBA(src image.Image) *image.RGBA {
	if r, ok := src.(*image.RGBA); ok {
		if r.Rect.Min == (image.Point{}) && r.Stride == r.Rect.Dx()*4 {
			return r
		}
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

// CloneRGBA always copies, so the caller's image survives in-place
// filtering of the result.
func CloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}
