// Package detector - region providers for the redaction pipeline.
//
// A provider proposes bounding boxes worth redacting in a frame. The ONNX
// provider runs a YOLO-family model through onnxruntime; Static serves fixed
// boxes for manual redaction and tests. Segmentation quality is not this
// package's concern, only producing rectangles for the filter engine.
package detector

import (
	"image"

	"github.com/blur-ai/go-blurcore/common"
)

// Provider proposes redaction regions for a single frame.
type Provider interface {
	Regions(img image.Image) ([]common.BoundingBox, error)
}

// Static is a Provider returning the same boxes for every frame. It backs
// manual redaction (caller-supplied rectangles) and pipeline tests.
type Static struct {
	Boxes []common.BoundingBox
}

// Regions returns the configured boxes unchanged.
func (s *Static) Regions(image.Image) ([]common.BoundingBox, error) {
	return s.Boxes, nil
}

// Filtered wraps a Provider and narrows its output with a detection filter
// (label allowlist, confidence floor, area minimum, or a composition).
type Filtered struct {
	Provider Provider
	Filter   common.Filter
}

// Regions runs the wrapped provider and applies the filter.
func (f *Filtered) Regions(img image.Image) ([]common.BoundingBox, error) {
	boxes, err := f.Provider.Regions(img)
	if err != nil {
		return nil, err
	}
	if f.Filter == nil {
		return boxes, nil
	}
	return f.Filter(boxes), nil
}

// YOLOClasses maps YOLO class indices to their labels.
var YOLOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}
