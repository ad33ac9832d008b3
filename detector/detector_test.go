package detector

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blur-ai/go-blurcore/common"
	"github.com/pkg/errors"
)

type erroringProvider struct{}

func (erroringProvider) Regions(image.Image) ([]common.BoundingBox, error) {
	return nil, errors.New("model exploded")
}

func TestFilteredProvider(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	inner := &Static{Boxes: []common.BoundingBox{
		{Label: "person", Confidence: 0.9, X1: 0, Y1: 0, X2: 10, Y2: 10},
		{Label: "car", Confidence: 0.8, X1: 0, Y1: 0, X2: 10, Y2: 10},
	}}

	f := &Filtered{Provider: inner, Filter: common.NewLabelFilter("person")}
	boxes, err := f.Regions(frame)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "person", boxes[0].Label)

	f = &Filtered{Provider: inner}
	boxes, err = f.Regions(frame)
	require.NoError(t, err)
	assert.Len(t, boxes, 2, "nil filter should pass everything through")

	f = &Filtered{Provider: erroringProvider{}, Filter: common.NewLabelFilter("person")}
	_, err = f.Regions(frame)
	assert.Error(t, err, "provider errors should propagate")
}

func TestNewONNXValidation(t *testing.T) {
	_, err := NewONNX(Config{})
	assert.Error(t, err, "missing model path should be rejected")

	_, err = NewONNX(Config{ModelPath: "/nonexistent/model.onnx"})
	assert.Error(t, err, "missing model file should be rejected")
}
