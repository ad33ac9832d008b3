package common

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blur-ai/go-blurcore/blurcore"
)

func TestBoundingBoxToRect(t *testing.T) {
	b := BoundingBox{X1: 10.7, Y1: 20.2, X2: 110.9, Y2: 80.1}
	assert.Equal(t, image.Rect(10, 20, 110, 80), b.ToRect(), "fractional corners should truncate")

	// Swapped corners canonicalize.
	b = BoundingBox{X1: 50, Y1: 60, X2: 10, Y2: 20}
	assert.Equal(t, image.Rect(10, 20, 50, 60), b.ToRect())
}

func TestBoundingBoxToBlurRect(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 80}
	assert.Equal(t, blurcore.Rect{X: 10, Y: 20, W: 100, H: 60}, b.ToBlurRect())
}

func TestBoundingBoxPad(t *testing.T) {
	b := BoundingBox{Label: "face", Confidence: 0.9, X1: 10, Y1: 10, X2: 20, Y2: 30}
	p := b.Pad(5)
	assert.Equal(t, BoundingBox{Label: "face", Confidence: 0.9, X1: 5, Y1: 5, X2: 25, Y2: 35}, p)
	assert.Equal(t, float32(10), b.X1, "Pad should not mutate the receiver")

	// Negative coordinates are fine; the engine clamps them later.
	p = b.Pad(100)
	assert.Equal(t, float32(-90), p.X1)
}

func TestBoundingBoxIOU(t *testing.T) {
	b1 := BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100}
	b2 := BoundingBox{X1: 50, Y1: 50, X2: 150, Y2: 150}

	assert.InDelta(t, 2500.0, float64(b1.Intersection(&b2)), 0.001)
	assert.InDelta(t, 17500.0, float64(b1.Union(&b2)), 0.001)
	assert.InDelta(t, 2500.0/17500.0, float64(b1.IOU(&b2)), 0.0001)

	b3 := BoundingBox{X1: 200, Y1: 200, X2: 300, Y2: 300}
	assert.Equal(t, float32(0), b1.Intersection(&b3), "disjoint boxes should not intersect")
}

func TestToBlurRects(t *testing.T) {
	assert.Nil(t, ToBlurRects(nil))

	boxes := []BoundingBox{
		{X1: 0, Y1: 0, X2: 4, Y2: 4},
		{X1: 8, Y1: 8, X2: 10, Y2: 16},
	}
	rects := ToBlurRects(boxes)
	require.Len(t, rects, 2)
	assert.Equal(t, blurcore.Rect{X: 0, Y: 0, W: 4, H: 4}, rects[0])
	assert.Equal(t, blurcore.Rect{X: 8, Y: 8, W: 2, H: 8}, rects[1])
}

func TestFilters(t *testing.T) {
	boxes := []BoundingBox{
		{Label: "face", Confidence: 0.9, X1: 0, Y1: 0, X2: 100, Y2: 100},
		{Label: "face", Confidence: 0.3, X1: 0, Y1: 0, X2: 10, Y2: 10},
		{Label: "car", Confidence: 0.8, X1: 0, Y1: 0, X2: 2, Y2: 2},
	}

	byArea := NewAreaFilter(50)(boxes)
	require.Len(t, byArea, 2, "area filter should drop the 2x2 box")

	byConfidence := NewConfidenceFilter(0.5)(boxes)
	require.Len(t, byConfidence, 2, "confidence filter should drop the 0.3 box")

	byLabel := NewLabelFilter("face")(boxes)
	require.Len(t, byLabel, 2, "label filter should keep only faces")

	all := NewLabelFilter()(boxes)
	assert.Len(t, all, 3, "empty allowlist should keep everything")
}
