// Package redact - orchestration between region providers and the filter
// engine: run detection, shape the boxes, filter the frame.
package redact

import (
	"image"
	"sync"

	"github.com/pkg/errors"

	"github.com/blur-ai/go-blurcore/blurcore"
	"github.com/blur-ai/go-blurcore/common"
	"github.com/blur-ai/go-blurcore/detector"
	"github.com/blur-ai/go-blurcore/images"
)

// Redactor pairs a region provider with filter settings. The zero Strength
// and an unset Mode fall through to the engine's defaults (strength coerced
// to 1, mode 0 = box blur).
type Redactor struct {
	// Provider proposes the regions to redact.
	Provider detector.Provider
	// Mode selects the filter (blur or pixelate).
	Mode blurcore.Mode
	// Strength is the blur radius or pixelate block edge.
	Strength int
	// Padding grows every surviving box by this many pixels per side before
	// filtering, so the effect covers more than the tight detector box.
	Padding float32
	// MinArea drops boxes below this pixel area before padding; 0 keeps all.
	MinArea int
}

// regions runs the provider and shapes its output: area filter first (on
// the tight boxes), then padding.
func (r *Redactor) regions(img image.Image) ([]common.BoundingBox, error) {
	if r.Provider == nil {
		return nil, errors.New("redact: no region provider configured")
	}
	boxes, err := r.Provider.Regions(img)
	if err != nil {
		return nil, errors.Wrap(err, "redact: region provider failed")
	}
	if r.MinArea > 0 {
		boxes = common.NewAreaFilter(r.MinArea)(boxes)
	}
	if r.Padding > 0 {
		for i := range boxes {
			boxes[i] = boxes[i].Pad(r.Padding)
		}
	}
	return boxes, nil
}

// RedactImage returns a redacted copy of img together with the boxes that
// were filtered. The input image is never mutated.
func (r *Redactor) RedactImage(img image.Image) (*image.RGBA, []common.BoundingBox, error) {
	boxes, err := r.regions(img)
	if err != nil {
		return nil, nil, err
	}
	out := images.CloneRGBA(img)
	if len(boxes) > 0 {
		err = blurcore.ApplyRegions(
			out.Pix, out.Rect.Dx(), out.Rect.Dy(),
			common.ToBlurRects(boxes), r.Mode, r.Strength,
		)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, boxes, nil
}

// RedactInPlace mutates an origin-anchored RGBA frame directly. This is the
// per-frame video path: no copy, same buffer shown or encoded afterwards.
func (r *Redactor) RedactInPlace(frame *image.RGBA) ([]common.BoundingBox, error) {
	if frame == nil {
		return nil, errors.WithStack(blurcore.ErrInvalidBuffer)
	}
	if frame.Rect.Min != (image.Point{}) || frame.Stride != frame.Rect.Dx()*4 {
		return nil, errors.New("redact: frame must be origin-anchored with a tight stride")
	}
	boxes, err := r.regions(frame)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, nil
	}
	err = blurcore.ApplyRegions(
		frame.Pix, frame.Rect.Dx(), frame.Rect.Dy(),
		common.ToBlurRects(boxes), r.Mode, r.Strength,
	)
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

// RedactBytes decodes an encoded frame, redacts it, and re-encodes it in
// the source format.
func (r *Redactor) RedactBytes(data []byte) ([]byte, []common.BoundingBox, error) {
	img, format, err := images.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	out, boxes, err := r.RedactImage(img)
	if err != nil {
		return nil, nil, err
	}
	encoded, err := images.Encode(out, format)
	if err != nil {
		return nil, nil, err
	}
	return encoded, boxes, nil
}

// FramePool lets the video loop reuse RGBA frame buffers to reduce GC
// pressure at 30-60 FPS rates. A nil pool allocates fresh buffers.
type FramePool struct {
	rgba sync.Pool
}

// GetRGBA returns a frame buffer with the given bounds. Pooled buffers with
// a different shape are discarded.
func (p *FramePool) GetRGBA(bounds image.Rectangle) *image.RGBA {
	if p == nil {
		return image.NewRGBA(bounds)
	}
	if v := p.rgba.Get(); v != nil {
		img := v.(*image.RGBA)
		if img.Rect == bounds {
			return img
		}
	}
	return image.NewRGBA(bounds)
}

// PutRGBA returns a frame buffer to the pool. Clearing is skipped; the next
// writer fully overwrites.
func (p *FramePool) PutRGBA(img *image.RGBA) {
	if p == nil || img == nil {
		return
	}
	p.rgba.Put(img)
}
