// Package common - detection geometry shared by the region providers and the
// redaction pipeline.
package common

import (
	"fmt"
	"image"

	"github.com/blur-ai/go-blurcore/blurcore"
)

// BoundingBox represents a detected region with its label, confidence, and
// corner coordinates in source-image pixel space.
type BoundingBox struct {
	Label          string
	Confidence     float32
	X1, Y1, X2, Y2 float32
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("Object %s (confidence %f): (%f, %f), (%f, %f)",
		b.Label, b.Confidence, b.X1, b.Y1, b.X2, b.Y2)
}

// ToRect converts the bounding box to an image.Rectangle.
//
// This loses precision, but the box has already been scaled up to the
// original image's dimensions, so only fractional pixels around the edges
// are dropped.
func (b *BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2)).Canon()
}

// ToBlurRect converts the bounding box to the filter engine's rect form
// (top-left corner plus extent).
func (b *BoundingBox) ToBlurRect() blurcore.Rect {
	r := b.ToRect()
	return blurcore.Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// RectArea returns the area of b in pixels, after converting to an
// image.Rectangle.
func (b *BoundingBox) RectArea() int {
	size := b.ToRect().Size()
	return size.X * size.Y
}

// Pad returns a copy of b grown by margin pixels on every side. Redaction
// boxes are usually padded so blurred hair, chin, or plate frames don't leak
// around a tight detector box. The result may extend past the image; the
// filter engine clamps it.
func (b *BoundingBox) Pad(margin float32) BoundingBox {
	return BoundingBox{
		Label:      b.Label,
		Confidence: b.Confidence,
		X1:         b.X1 - margin,
		Y1:         b.Y1 - margin,
		X2:         b.X2 + margin,
		Y2:         b.Y2 + margin,
	}
}

// IOU returns intersection over union of the two boxes.
//
// This won't be entirely precise due to conversion to the integral
// rectangles from the image.Image library, but we're only using it to
// estimate which boxes are overlapping too much, so some imprecision
// should be OK.
func (b *BoundingBox) IOU(other *BoundingBox) float32 {
	return b.Intersection(other) / b.Union(other)
}

// Intersection calculates the intersection area between two boxes in pixels.
func (b *BoundingBox) Intersection(other *BoundingBox) float32 {
	r1 := b.ToRect()
	r2 := other.ToRect()
	intersected := r1.Intersect(r2).Canon().Size()
	return float32(intersected.X * intersected.Y)
}

// Union calculates the union area between two boxes in pixels.
func (b *BoundingBox) Union(other *BoundingBox) float32 {
	intersectArea := b.Intersection(other)
	totalArea := float32(b.RectArea() + other.RectArea())
	return totalArea - intersectArea
}

// ToBlurRects converts boxes to engine rects, preserving order.
func ToBlurRects(boxes []BoundingBox) []blurcore.Rect {
	if len(boxes) == 0 {
		return nil
	}
	rects := make([]blurcore.Rect, len(boxes))
	for i := range boxes {
		rects[i] = boxes[i].ToBlurRect()
	}
	return rects
}

// Filter narrows a set of detections before redaction.
type Filter func([]BoundingBox) []BoundingBox

// NewAreaFilter returns a Filter that drops boxes below a minimum pixel
// area. Tiny boxes are usually detector noise and pixelate to nothing
// useful anyway.
func NewAreaFilter(area int) Filter {
	return func(in []BoundingBox) []BoundingBox {
		out := make([]BoundingBox, 0, len(in))
		for _, b := range in {
			if b.RectArea() >= area {
				out = append(out, b)
			}
		}
		return out
	}
}

// NewConfidenceFilter returns a Filter that drops boxes below a confidence
// floor.
func NewConfidenceFilter(threshold float32) Filter {
	return func(in []BoundingBox) []BoundingBox {
		out := make([]BoundingBox, 0, len(in))
		for _, b := range in {
			if b.Confidence >= threshold {
				out = append(out, b)
			}
		}
		return out
	}
}

// NewLabelFilter returns a Filter that keeps only boxes whose label is in
// the allowlist. An empty allowlist keeps everything.
func NewLabelFilter(labels ...string) Filter {
	if len(labels) == 0 {
		return func(in []BoundingBox) []BoundingBox { return in }
	}
	allowed := make(map[string]bool, len(labels))
	for _, l := range labels {
		allowed[l] = true
	}
	return func(in []BoundingBox) []BoundingBox {
		out := make([]BoundingBox, 0, len(in))
		for _, b := range in {
			if allowed[b.Label] {
				out = append(out, b)
			}
		}
		return out
	}
}
