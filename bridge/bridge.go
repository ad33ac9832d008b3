// Package bridge - flat-array boundary for the region filter engine.
//
// Host-side callers (the original app's managed layer, FFI consumers, test
// harnesses) hand rectangles over as one packed int32 array, [x,y,w,h]*N,
// and expect an integer status back instead of a Go error. This package owns
// that marshalling so the engine can keep a typed API.
package bridge

import (
	"errors"

	"github.com/blur-ai/go-blurcore/blurcore"
)

// Status codes returned by Apply. Zero is success; negative values are
// caller programming errors surfaced without retry or recovery.
const (
	StatusOK              = 0
	StatusInvalidBuffer   = -1
	StatusUnsupportedMode = -2
)

// UnpackRects decodes a packed [x,y,w,h]*N array into rects. A trailing
// partial quad is ignored, matching how the original bridge truncated the
// array length to a whole rect count.
func UnpackRects(packed []int32) []blurcore.Rect {
	n := len(packed) / 4
	if n == 0 {
		return nil
	}
	rects := make([]blurcore.Rect, n)
	for i := 0; i < n; i++ {
		rects[i] = blurcore.Rect{
			X: int(packed[i*4+0]),
			Y: int(packed[i*4+1]),
			W: int(packed[i*4+2]),
			H: int(packed[i*4+3]),
		}
	}
	return rects
}

// PackRects is the inverse of UnpackRects.
func PackRects(rects []blurcore.Rect) []int32 {
	if len(rects) == 0 {
		return nil
	}
	packed := make([]int32, 0, len(rects)*4)
	for _, r := range rects {
		packed = append(packed, int32(r.X), int32(r.Y), int32(r.W), int32(r.H))
	}
	return packed
}

// Apply unpacks the rect array and runs the engine over pix in place.
// An empty packed array is a successful no-op.
func Apply(pix []uint8, width, height int, packed []int32, mode, strength int) int {
	err := blurcore.ApplyRegions(pix, width, height, UnpackRects(packed), blurcore.Mode(mode), strength)
	return Status(err)
}

// Status maps an engine error to its bridge status code.
func Status(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, blurcore.ErrInvalidBuffer):
		return StatusInvalidBuffer
	case errors.Is(err, blurcore.ErrUnsupportedMode):
		return StatusUnsupportedMode
	default:
		return StatusInvalidBuffer
	}
}
