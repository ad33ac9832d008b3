package redact

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blur-ai/go-blurcore/blurcore"
	"github.com/blur-ai/go-blurcore/common"
	"github.com/blur-ai/go-blurcore/detector"
	"github.com/blur-ai/go-blurcore/images"
	"github.com/pkg/errors"
)

// failingProvider always errors, for propagation tests.
type failingProvider struct{}

func (failingProvider) Regions(image.Image) ([]common.BoundingBox, error) {
	return nil, errors.New("boom")
}

func checkerFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestRedactImagePixelatesProvidedRegion(t *testing.T) {
	src := checkerFrame(16, 16)
	r := &Redactor{
		Provider: &detector.Static{Boxes: []common.BoundingBox{
			{Label: "face", Confidence: 1, X1: 0, Y1: 0, X2: 8, Y2: 8},
		}},
		Mode:     blurcore.ModePixelate,
		Strength: 8,
	}

	out, boxes, err := r.RedactImage(src)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	// The 8x8 checker region collapses to one flat mean color.
	first := out.RGBAAt(0, 0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, first, out.RGBAAt(x, y), "pixel (%d,%d) should be flattened", x, y)
		}
	}
	// Outside the region the checker survives.
	assert.Equal(t, src.RGBAAt(12, 12), out.RGBAAt(12, 12))
	// And the source frame itself is untouched.
	assert.Equal(t, color.RGBA{R: 255, A: 255}, src.RGBAAt(0, 0))
}

func TestRedactImageNoRegionsReturnsUnchangedCopy(t *testing.T) {
	src := checkerFrame(8, 8)
	r := &Redactor{Provider: &detector.Static{}, Mode: blurcore.ModeBoxBlur, Strength: 3}

	out, boxes, err := r.RedactImage(src)
	require.NoError(t, err)
	assert.Empty(t, boxes)
	assert.Equal(t, src.Pix, out.Pix, "no regions should leave the copy byte-identical")
}

func TestRedactorMinAreaAndPadding(t *testing.T) {
	src := checkerFrame(32, 32)
	r := &Redactor{
		Provider: &detector.Static{Boxes: []common.BoundingBox{
			{Label: "face", Confidence: 1, X1: 10, Y1: 10, X2: 20, Y2: 20},
			{Label: "face", Confidence: 1, X1: 0, Y1: 0, X2: 2, Y2: 2},
		}},
		Mode:     blurcore.ModePixelate,
		Strength: 64,
		Padding:  2,
		MinArea:  50,
	}

	out, boxes, err := r.RedactImage(src)
	require.NoError(t, err)
	require.Len(t, boxes, 1, "the 2x2 box should be dropped before padding")
	assert.Equal(t, float32(8), boxes[0].X1, "surviving box should be padded")
	assert.Equal(t, float32(22), boxes[0].X2)

	// Padded region [8,22) flattened, outside untouched.
	assert.Equal(t, out.RGBAAt(8, 8), out.RGBAAt(21, 21))
	assert.Equal(t, src.RGBAAt(0, 0), out.RGBAAt(0, 0), "the small box region should be untouched")
}

func TestRedactInPlace(t *testing.T) {
	frame := checkerFrame(16, 16)
	r := &Redactor{
		Provider: &detector.Static{Boxes: []common.BoundingBox{
			{X1: 0, Y1: 0, X2: 16, Y2: 16},
		}},
		Mode:     blurcore.ModePixelate,
		Strength: 16,
	}

	boxes, err := r.RedactInPlace(frame)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, frame.RGBAAt(0, 0), frame.RGBAAt(15, 15), "whole frame should be flattened in place")

	_, err = r.RedactInPlace(nil)
	assert.Error(t, err, "nil frame should be rejected")

	sub := checkerFrame(16, 16).SubImage(image.Rect(2, 2, 10, 10)).(*image.RGBA)
	_, err = r.RedactInPlace(sub)
	assert.Error(t, err, "shifted sub-image should be rejected")
}

func TestRedactorProviderErrors(t *testing.T) {
	r := &Redactor{Provider: failingProvider{}}
	_, _, err := r.RedactImage(checkerFrame(8, 8))
	assert.Error(t, err)

	r = &Redactor{}
	_, _, err = r.RedactImage(checkerFrame(8, 8))
	assert.Error(t, err, "missing provider should be an error")
}

func TestRedactBytesRoundTrip(t *testing.T) {
	data, err := images.Encode(checkerFrame(16, 16), images.FormatPNG)
	require.NoError(t, err)

	r := &Redactor{
		Provider: &detector.Static{Boxes: []common.BoundingBox{
			{X1: 0, Y1: 0, X2: 16, Y2: 16},
		}},
		Mode:     blurcore.ModePixelate,
		Strength: 16,
	}
	out, boxes, err := r.RedactBytes(data)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	img, format, err := images.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, images.FormatPNG, format, "output keeps the source format")

	rgba := images.ToRGBA(img)
	assert.Equal(t, rgba.RGBAAt(0, 0), rgba.RGBAAt(15, 15), "decoded output should be flattened")

	_, _, err = r.RedactBytes([]byte("garbage"))
	assert.Error(t, err)
}

func TestFramePoolReusesMatchingBounds(t *testing.T) {
	var pool FramePool
	bounds := image.Rect(0, 0, 64, 64)

	a := pool.GetRGBA(bounds)
	pool.PutRGBA(a)
	b := pool.GetRGBA(bounds)
	assert.Same(t, a, b, "matching bounds should reuse the pooled buffer")

	c := pool.GetRGBA(image.Rect(0, 0, 32, 32))
	assert.NotSame(t, a, c, "different bounds should allocate fresh")

	var nilPool *FramePool
	assert.NotNil(t, nilPool.GetRGBA(bounds), "nil pool should still allocate")
	nilPool.PutRGBA(a)
}
