package detector

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/blur-ai/go-blurcore/common"
	"github.com/blur-ai/go-blurcore/images"
)

// Config configures the ONNX region provider.
type Config struct {
	// ModelPath is the path to the YOLO-family ONNX model file.
	ModelPath string
	// LibraryPath optionally points at the onnxruntime shared library. If
	// empty, the path already set on the runtime (or its default lookup) is
	// used.
	LibraryPath string
	// InputName and OutputName override the model's tensor names. Defaults
	// are "images" and "output0", the ultralytics export convention.
	InputName  string
	OutputName string
	// ConfidenceThreshold drops candidate boxes below this score (default 0.5).
	ConfidenceThreshold float32
	// IOUThreshold controls duplicate suppression (default 0.7).
	IOUThreshold float32
	// Labels maps class indices to names. Defaults to YOLOClasses.
	Labels []string
}

// ONNX is a Provider backed by an onnxruntime session. It is safe for use
// from one goroutine at a time; Regions serializes access internally since
// the session's input/output tensors are preallocated.
type ONNX struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	cfg     Config
}

// NewONNX loads the model and prepares a reusable inference session with
// preallocated input (1x3x640x640) and output (1x84x8400) tensors.
func NewONNX(cfg Config) (*ONNX, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("detector: model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "detector: model not found at %s", cfg.ModelPath)
	}
	if cfg.InputName == "" {
		cfg.InputName = "images"
	}
	if cfg.OutputName == "" {
		cfg.OutputName = "output0"
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.5
	}
	if cfg.IOUThreshold == 0 {
		cfg.IOUThreshold = 0.7
	}
	if cfg.Labels == nil {
		cfg.Labels = YOLOClasses
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "detector: error initializing ORT environment")
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, inputSize, inputSize))
	if err != nil {
		return nil, errors.Wrap(err, "detector: error creating input tensor")
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, numClasses+4, numAnchors))
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "detector: error creating output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "detector: error creating ORT session options")
	}
	defer options.Destroy()

	// A value of 0 would use the runtime default thread counts; these match
	// what we ship on the reference devices.
	options.SetIntraOpNumThreads(4)
	options.SetInterOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "detector: error creating ORT session")
	}

	return &ONNX{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
		cfg:     cfg,
	}, nil
}

// Regions runs one inference pass and returns the surviving boxes scaled to
// the frame's pixel space.
func (d *ONNX) Regions(img image.Image) ([]common.BoundingBox, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session == nil {
		return nil, errors.New("detector: session closed")
	}
	if err := prepareInput(img, d.input); err != nil {
		return nil, err
	}
	if err := d.session.Run(); err != nil {
		return nil, errors.Wrap(err, "detector: inference failed")
	}

	b := img.Bounds()
	return DecodeOutput(
		d.output.GetData(), b.Dx(), b.Dy(),
		d.cfg.ConfidenceThreshold, d.cfg.IOUThreshold, d.cfg.Labels,
	), nil
}

// Close releases the session and its tensors. Regions fails after Close.
func (d *ONNX) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
}

// prepareInput fills the session's input tensor with the frame resized to
// the model edge, planar RGB, scaled to [0, 1].
func prepareInput(img image.Image, dst *ort.Tensor[float32]) error {
	data := dst.GetData()
	channelSize := inputSize * inputSize
	if len(data) < channelSize*3 {
		return fmt.Errorf("detector: input tensor holds %d floats, needs %d",
			len(data), channelSize*3)
	}
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	resized := images.ResizeToImage(img, inputSize, inputSize)

	i := 0
	for y := 0; y < inputSize; y++ {
		for x := 0; x < inputSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
