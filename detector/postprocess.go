package detector

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/blur-ai/go-blurcore/common"
)

const (
	// inputSize is the square model input edge (1x3x640x640).
	inputSize = 640
	// numAnchors is the number of candidate boxes in the model output
	// (1x84x8400).
	numAnchors = 8400
	// numClasses is the number of class scores per candidate.
	numClasses = 80
)

// DecodeOutput converts a raw 1x84x8400 YOLO output tensor into bounding
// boxes in original-image pixel space. Candidates below the confidence
// threshold are dropped; the survivors are sorted by confidence and greedily
// de-duplicated, discarding any box whose IOU with an already-kept box
// exceeds iouThreshold. Box corners are clamped to the image.
func DecodeOutput(output []float32, originalWidth, originalHeight int,
	confidenceThreshold, iouThreshold float32, labels []string,
) []common.BoundingBox {
	if len(output) < (numClasses+4)*numAnchors {
		return nil
	}

	candidates := make([]common.BoundingBox, 0, 64)
	for idx := 0; idx < numAnchors; idx++ {
		// Best class score for this candidate.
		classID := 0
		probability := float32(-1e9)
		for col := 0; col < numClasses; col++ {
			if p := output[numAnchors*(col+4)+idx]; p > probability {
				probability = p
				classID = col
			}
		}
		if probability < confidenceThreshold {
			continue
		}

		// Center/extent in model space, scaled to the original image.
		xc, yc := output[idx], output[numAnchors+idx]
		w, h := output[2*numAnchors+idx], output[3*numAnchors+idx]
		x1 := (xc - w/2) / inputSize * float32(originalWidth)
		y1 := (yc - h/2) / inputSize * float32(originalHeight)
		x2 := (xc + w/2) / inputSize * float32(originalWidth)
		y2 := (yc + h/2) / inputSize * float32(originalHeight)

		candidates = append(candidates, common.BoundingBox{
			Label:      labelFor(labels, classID),
			Confidence: probability,
			X1:         math32.Max(0, x1),
			Y1:         math32.Max(0, y1),
			X2:         math32.Min(float32(originalWidth), x2),
			Y2:         math32.Min(float32(originalHeight), y2),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	// Greedy suppression: keep the most confident box of each overlapping
	// cluster.
	merged := make([]common.BoundingBox, 0, len(candidates))
	for _, candidate := range candidates {
		overlaps := false
		for i := range merged {
			if candidate.IOU(&merged[i]) > iouThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			merged = append(merged, candidate)
		}
	}
	return merged
}

// labelFor resolves a class index against the label table, falling back to
// a synthetic name for out-of-range indices.
func labelFor(labels []string, classID int) string {
	if classID >= 0 && classID < len(labels) {
		return labels[classID]
	}
	return fmt.Sprintf("class-%d", classID)
}
