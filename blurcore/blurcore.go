// Package blurcore - in-place region redaction filters for RGBA8888 pixel buffers.
//
// The engine mutates a caller-owned buffer directly: it validates the buffer,
// walks the requested rectangles in input order, and dispatches each one to a
// box-blur or pixelate kernel confined to the clamped rectangle. Later
// rectangles observe the output of earlier ones; there is no snapshot
// isolation between regions and no rollback on error. This sequential
// visibility is part of the contract, not an accident.
package blurcore

import (
	"errors"
	"fmt"
)

// Version identifies the filter engine build. The managed bridge of the
// original app polled this before dispatching work.
const Version = "blurcore 1.0.0"

// Mode selects the pixel transform applied inside each region.
type Mode int

const (
	// ModeBoxBlur is a two-pass separable unweighted mean filter, a cheap
	// Gaussian approximation. Strength is the blur radius.
	ModeBoxBlur Mode = 0
	// ModePixelate is a block-average mosaic fill. Strength is the block
	// edge length.
	ModePixelate Mode = 1
)

// SupportedModes returns the modes ApplyRegions accepts.
func SupportedModes() []Mode {
	return []Mode{ModeBoxBlur, ModePixelate}
}

// Rect is an axis-aligned region in pixel coordinates. X,Y is the top-left
// corner, W,H the extent. Rects may be empty, overlap each other, or extend
// past the buffer; the engine clamps or skips them per rect.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

var (
	// ErrInvalidBuffer reports a nil buffer, non-positive dimensions, or a
	// buffer shorter than width*height*4 bytes. Nothing is mutated.
	ErrInvalidBuffer = errors.New("blurcore: invalid buffer")

	// ErrUnsupportedMode reports a mode outside {ModeBoxBlur, ModePixelate}.
	// Rects processed before the failing check remain mutated; callers must
	// treat the error as "partially applied, do not retry blindly".
	ErrUnsupportedMode = errors.New("blurcore: unsupported mode")
)

// ApplyRegions applies the selected filter to every rect of pix, in place
// and in input order. pix is RGBA8888, row-major, stride = width*4.
//
// A nil or empty rect list is a successful no-op. Rects with non-positive
// extent, or lying entirely outside the buffer, are skipped; the rest are
// clamped to buffer bounds. strength is coerced to at least 1 before use.
func ApplyRegions(pix []uint8, width, height int, rects []Rect, mode Mode, strength int) error {
	if pix == nil || width <= 0 || height <= 0 || len(pix) < width*height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidBuffer, width, height, len(pix))
	}
	if len(rects) == 0 {
		return nil
	}
	if strength < 1 {
		strength = 1
	}

	for _, r := range rects {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		// A rect entirely outside the buffer would clamp onto a one-pixel
		// strip at the border; reject it before clamping instead.
		if r.X >= width || r.Y >= height || r.X+r.W <= 0 || r.Y+r.H <= 0 {
			continue
		}
		x0 := clampInt(r.X, 0, width-1)
		y0 := clampInt(r.Y, 0, height-1)
		x1 := clampInt(r.X+r.W-1, 0, width-1)
		y1 := clampInt(r.Y+r.H-1, 0, height-1)

		switch mode {
		case ModeBoxBlur:
			boxBlurRGBA(pix, width, strength, strength, x0, y0, x1, y1)
		case ModePixelate:
			pixelateRGBA(pix, width, strength, x0, y0, x1, y1)
		default:
			return fmt.Errorf("%w: %d", ErrUnsupportedMode, mode)
		}
	}
	return nil
}

// boxBlurRGBA runs a separable two-pass mean filter over the clamped window
// [x0,x1]x[y0,y1]. Sampling never leaves the window: out-of-window neighbor
// coordinates clamp to the window's own edge pixels (edge replication). The
// divisor is fixed at 2r+1 per pass, so clamped duplicate samples still
// count and edges weigh slightly higher. Channel means use truncating
// integer division.
func boxBlurRGBA(pix []uint8, stride, rx, ry, x0, y0, x1, y1 int) {
	w := x1 - x0 + 1
	h := y1 - y0 + 1

	// Copy the sub-rect into scratch so both passes read stable input.
	tmp := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		src := ((y0+y)*stride + x0) * 4
		copy(tmp[y*w*4:(y+1)*w*4], pix[src:src+w*4])
	}

	// Horizontal pass.
	horiz := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as, cnt int
			for k := -rx; k <= rx; k++ {
				xx := clampInt(x+k, 0, w-1)
				s := tmp[(y*w+xx)*4 : (y*w+xx)*4+4]
				rs += int(s[0])
				gs += int(s[1])
				bs += int(s[2])
				as += int(s[3])
				cnt++
			}
			d := horiz[(y*w+x)*4 : (y*w+x)*4+4]
			d[0] = uint8(rs / cnt)
			d[1] = uint8(gs / cnt)
			d[2] = uint8(bs / cnt)
			d[3] = uint8(as / cnt)
		}
	}

	// Vertical pass back into tmp.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as, cnt int
			for k := -ry; k <= ry; k++ {
				yy := clampInt(y+k, 0, h-1)
				s := horiz[(yy*w+x)*4 : (yy*w+x)*4+4]
				rs += int(s[0])
				gs += int(s[1])
				bs += int(s[2])
				as += int(s[3])
				cnt++
			}
			d := tmp[(y*w+x)*4 : (y*w+x)*4+4]
			d[0] = uint8(rs / cnt)
			d[1] = uint8(gs / cnt)
			d[2] = uint8(bs / cnt)
			d[3] = uint8(as / cnt)
		}
	}

	// Blit the twice-filtered window back.
	for y := 0; y < h; y++ {
		dst := ((y0+y)*stride + x0) * 4
		copy(pix[dst:dst+w*4], tmp[y*w*4:(y+1)*w*4])
	}
}

// pixelateRGBA fills the clamped window with a block-average mosaic. Blocks
// tile from the window's top-left corner; the last row/column of blocks may
// be smaller where it meets the window edge. Each block is overwritten with
// its own truncating per-channel integer mean.
func pixelateRGBA(pix []uint8, stride, block, x0, y0, x1, y1 int) {
	for by := y0; by <= y1; by += block {
		bh := min(block, y1-by+1)
		for bx := x0; bx <= x1; bx += block {
			bw := min(block, x1-bx+1)

			var rs, gs, bs, as int
			for y := by; y < by+bh; y++ {
				off := (y*stride + bx) * 4
				for x := 0; x < bw; x++ {
					p := pix[off+x*4 : off+x*4+4]
					rs += int(p[0])
					gs += int(p[1])
					bs += int(p[2])
					as += int(p[3])
				}
			}
			n := bw * bh
			r8 := uint8(rs / n)
			g8 := uint8(gs / n)
			b8 := uint8(bs / n)
			a8 := uint8(as / n)

			for y := by; y < by+bh; y++ {
				off := (y*stride + bx) * 4
				for x := 0; x < bw; x++ {
					p := pix[off+x*4 : off+x*4+4]
					p[0], p[1], p[2], p[3] = r8, g8, b8, a8
				}
			}
		}
	}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
