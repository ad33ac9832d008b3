package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/blur-ai/go-blurcore/blurcore"
	"github.com/blur-ai/go-blurcore/bridge"
	"github.com/blur-ai/go-blurcore/common"
	"github.com/blur-ai/go-blurcore/detector"
	"github.com/blur-ai/go-blurcore/images"
	"github.com/blur-ai/go-blurcore/profiler"
	"github.com/blur-ai/go-blurcore/redact"
	"github.com/blur-ai/go-blurcore/util"
)

const (
	// deviceID is the default video capture device.
	deviceID = 0
	// DefaultOutputDir receives redacted frames and images.
	DefaultOutputDir = "redacted"
	// DefaultStrength is the blur radius / pixelate block edge.
	DefaultStrength = 12
)

// InputType represents the type of input being processed.
type InputType int

const (
	InputCamera InputType = iota
	InputVideo
	InputImage
	InputFrameDir
)

// InputConfig holds the resolved input selection.
type InputConfig struct {
	Type     InputType
	Path     string
	DeviceID int
}

func main() {
	var (
		imagePath   string
		videoPath   string
		framesDir   string
		modeName    string
		strength    int
		padding     int
		minArea     int
		modelPath   string
		ortLibPath  string
		confidence  float64
		classesFlag string
		rectsFlag   string
		outputDir   string
		showWindow  bool
	)
	flag.StringVar(&imagePath, "image", "", "Path to image file (.jpg, .jpeg, .png, .webp)")
	flag.StringVar(&videoPath, "video", "", "Path to video file (.mp4, .avi, .mov)")
	flag.StringVar(&framesDir, "frames", "", "Directory of frame-N.<ext> images to redact in order")
	flag.StringVar(&modeName, "mode", "blur", "Filter mode: blur or pixelate")
	flag.IntVar(&strength, "strength", DefaultStrength, "Blur radius or pixelate block size")
	flag.IntVar(&padding, "padding", 8, "Pixels added around each detected box before filtering")
	flag.IntVar(&minArea, "min-area", 400, "Minimum box area in pixels; smaller detections are ignored")
	flag.StringVar(&modelPath, "model", "", "Path to YOLO ONNX model; empty disables detection")
	flag.StringVar(&ortLibPath, "ort-lib", "", "Path to the onnxruntime shared library")
	flag.Float64Var(&confidence, "confidence", 0.5, "Detection confidence threshold")
	flag.StringVar(&classesFlag, "classes", "person", "Comma-separated labels to redact")
	flag.StringVar(&rectsFlag, "rects", "", "Manual regions as packed x,y,w,h,... ints (used when -model is empty)")
	flag.StringVar(&outputDir, "output-dir", DefaultOutputDir, "Output directory for redacted files")
	flag.BoolVar(&showWindow, "show-window", false, "Show a preview window for video input")
	flag.Parse()

	mode, err := parseMode(modeName)
	if err != nil {
		log.Fatal(err)
	}
	inputConfig, err := validateInputFlags(videoPath, imagePath, framesDir)
	if err != nil {
		log.Fatal(err)
	}

	provider, closeProvider, err := buildProvider(modelPath, ortLibPath, float32(confidence), classesFlag, rectsFlag)
	if err != nil {
		log.Fatalf("Failed to build region provider: %v", err)
	}
	defer closeProvider()

	redactor := &redact.Redactor{
		Provider: provider,
		Mode:     mode,
		Strength: strength,
		Padding:  float32(padding),
		MinArea:  minArea,
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Printf("\n🚀 Region Redaction Started (%s)\n", blurcore.Version)
	fmt.Printf("=====================================\n")
	fmt.Printf("⚙️  Configuration:\n")
	fmt.Printf("   🎛️  Mode: %s (strength %d)\n", modeName, strength)
	fmt.Printf("   📦 Padding: %dpx, minimum area: %dpx²\n", padding, minArea)
	if modelPath != "" {
		fmt.Printf("   🤖 Detection: ✅ %s (confidence %.2f, classes: %s)\n", modelPath, confidence, classesFlag)
	} else {
		fmt.Printf("   🤖 Detection: ❌ Disabled (manual rects: %q)\n", rectsFlag)
	}
	fmt.Printf("   💾 Output directory: %s\n", outputDir)

	track := profiler.New()
	switch inputConfig.Type {
	case InputImage:
		runImage(redactor, track, inputConfig.Path, outputDir)
	case InputFrameDir:
		runFrameDir(redactor, track, inputConfig.Path, outputDir)
	default:
		runVideo(redactor, track, inputConfig, outputDir, showWindow)
	}

	fmt.Printf("\n📈 Timing summary:\n%s", track.Report())
}

// parseMode maps the -mode flag to an engine mode.
func parseMode(name string) (blurcore.Mode, error) {
	switch strings.ToLower(name) {
	case "blur":
		return blurcore.ModeBoxBlur, nil
	case "pixelate":
		return blurcore.ModePixelate, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want blur or pixelate)", name)
	}
}

// validateInputFlags resolves the input selection; image, video, and frames
// are mutually exclusive and camera capture is the fallback.
func validateInputFlags(videoPath, imagePath, framesDir string) (InputConfig, error) {
	set := 0
	for _, p := range []string{videoPath, imagePath, framesDir} {
		if p != "" {
			set++
		}
	}
	if set > 1 {
		return InputConfig{}, fmt.Errorf("only one of -video, -image, -frames may be set")
	}

	switch {
	case imagePath != "":
		if _, err := os.Stat(imagePath); err != nil {
			return InputConfig{}, fmt.Errorf("image file not found: %s", imagePath)
		}
		return InputConfig{Type: InputImage, Path: imagePath}, nil
	case videoPath != "":
		if _, err := os.Stat(videoPath); err != nil {
			return InputConfig{}, fmt.Errorf("video file not found: %s", videoPath)
		}
		return InputConfig{Type: InputVideo, Path: videoPath}, nil
	case framesDir != "":
		return InputConfig{Type: InputFrameDir, Path: framesDir}, nil
	default:
		return InputConfig{Type: InputCamera, DeviceID: deviceID}, nil
	}
}

// buildProvider wires the detection provider: an ONNX session when a model
// is given, otherwise the manual rect list.
func buildProvider(modelPath, ortLibPath string, confidence float32, classesFlag, rectsFlag string,
) (detector.Provider, func(), error) {
	if modelPath != "" {
		onnx, err := detector.NewONNX(detector.Config{
			ModelPath:           modelPath,
			LibraryPath:         ortLibPath,
			ConfidenceThreshold: confidence,
		})
		if err != nil {
			return nil, nil, err
		}
		labels := strings.Split(classesFlag, ",")
		for i := range labels {
			labels[i] = strings.TrimSpace(labels[i])
		}
		filtered := &detector.Filtered{
			Provider: onnx,
			Filter:   common.NewLabelFilter(labels...),
		}
		return filtered, onnx.Close, nil
	}

	boxes, err := parseManualRects(rectsFlag)
	if err != nil {
		return nil, nil, err
	}
	if len(boxes) == 0 {
		return nil, nil, fmt.Errorf("no -model and no -rects: nothing to redact")
	}
	return &detector.Static{Boxes: boxes}, func() {}, nil
}

// parseManualRects decodes the -rects flag, a flat x,y,w,h,... int list,
// through the same packed-array path the host bridge uses.
func parseManualRects(rectsFlag string) ([]common.BoundingBox, error) {
	if rectsFlag == "" {
		return nil, nil
	}
	fields := strings.Split(rectsFlag, ",")
	packed := make([]int32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad -rects value %q: %w", f, err)
		}
		packed = append(packed, int32(v))
	}
	if len(packed)%4 != 0 {
		return nil, fmt.Errorf("-rects needs groups of four ints, got %d values", len(packed))
	}

	rects := bridge.UnpackRects(packed)
	boxes := make([]common.BoundingBox, len(rects))
	for i, r := range rects {
		boxes[i] = common.BoundingBox{
			Label:      "manual",
			Confidence: 1,
			X1:         float32(r.X),
			Y1:         float32(r.Y),
			X2:         float32(r.X + r.W),
			Y2:         float32(r.Y + r.H),
		}
	}
	return boxes, nil
}

// runImage redacts a single still image and writes it next to the output dir.
func runImage(redactor *redact.Redactor, track *profiler.Tracker, path, outputDir string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}

	stop := track.Time("redact")
	out, boxes, err := redactor.RedactBytes(data)
	stop()
	if err != nil {
		log.Fatalf("Redaction failed: %v", err)
	}

	for i := range boxes {
		fmt.Printf("   🔲 %s\n", boxes[i].String())
	}

	outPath := filepath.Join(outputDir, redactedName(path))
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("✅ Redacted %d region(s) -> %s\n", len(boxes), outPath)
}

// runFrameDir redacts an extracted frame directory in frame order.
func runFrameDir(redactor *redact.Redactor, track *profiler.Tracker, dir, outputDir string) {
	frames, err := util.LoadDirectoryImageFiles(dir)
	if err != nil {
		log.Fatalf("Failed to load frames: %v", err)
	}
	fmt.Printf("🎞️  Loaded %d frame(s) from %s\n", len(frames), dir)

	total := 0
	for _, frame := range frames {
		stop := track.Time("redact")
		out, boxes, err := redactor.RedactBytes(frame.Data)
		stop()
		if err != nil {
			log.Fatalf("Frame %d: redaction failed: %v", frame.Frame, err)
		}
		total += len(boxes)

		outPath := filepath.Join(outputDir, redactedName(frame.Path))
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			log.Fatalf("Frame %d: failed to write output: %v", frame.Frame, err)
		}
	}
	fmt.Printf("✅ Redacted %d region(s) across %d frame(s)\n", total, len(frames))
}

// runVideo redacts a video file or live camera feed frame by frame,
// saving redacted frames as JPEGs and optionally previewing them.
func runVideo(redactor *redact.Redactor, track *profiler.Tracker, input InputConfig, outputDir string, showWindow bool) {
	var capture *gocv.VideoCapture
	var err error
	switch input.Type {
	case InputCamera:
		capture, err = gocv.OpenVideoCapture(input.DeviceID)
		if err != nil {
			log.Fatalf("Error opening video capture device: %v", input.DeviceID)
		}
		fmt.Printf("🎥 Capturing from camera device %d\n", input.DeviceID)
	default:
		capture, err = gocv.OpenVideoCapture(input.Path)
		if err != nil {
			log.Fatalf("Error opening video file: %v", input.Path)
		}
		fmt.Printf("🎥 Processing video: %s\n", input.Path)
	}
	defer capture.Close()

	var window *gocv.Window
	if showWindow {
		window = gocv.NewWindow("redacted")
		defer window.Close()
	}

	mat := gocv.NewMat()
	defer mat.Close()

	var pool redact.FramePool
	frameIdx := 0
	start := time.Now()
	for {
		if ok := capture.Read(&mat); !ok || mat.Empty() {
			break
		}

		src, err := mat.ToImage()
		if err != nil {
			log.Fatalf("Frame %d: Mat conversion failed: %v", frameIdx, err)
		}
		frame := pool.GetRGBA(image.Rect(0, 0, mat.Cols(), mat.Rows()))
		draw.Draw(frame, frame.Rect, src, src.Bounds().Min, draw.Src)

		stop := track.Time("redact")
		boxes, err := redactor.RedactInPlace(frame)
		stop()
		if err != nil {
			log.Fatalf("Frame %d: redaction failed: %v", frameIdx, err)
		}

		if len(boxes) > 0 {
			if err := writeFrameJPEG(frame, outputDir, frameIdx); err != nil {
				log.Fatalf("Frame %d: failed to write output: %v", frameIdx, err)
			}
		}
		if window != nil {
			out, err := gocv.ImageToMatRGBA(frame)
			if err == nil {
				bgr := gocv.NewMat()
				gocv.CvtColor(out, &bgr, gocv.ColorRGBAToBGR)
				window.IMShow(bgr)
				bgr.Close()
				out.Close()
				if window.WaitKey(1) == 27 { // ESC
					pool.PutRGBA(frame)
					break
				}
			}
		}
		pool.PutRGBA(frame)
		frameIdx++
	}

	elapsed := time.Since(start)
	fps := float64(frameIdx) / elapsed.Seconds()
	fmt.Printf("✅ Processed %d frame(s) in %s (%.1f FPS)\n", frameIdx, elapsed.Round(time.Millisecond), fps)
}

// writeFrameJPEG encodes one redacted frame as frame-N.jpg in the output dir.
func writeFrameJPEG(frame *image.RGBA, outputDir string, idx int) error {
	data, err := images.Encode(frame, images.FormatJPEG)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, fmt.Sprintf("frame-%d.jpg", idx)), data, 0o644)
}

// redactedName appends -redacted before the extension of a source file name.
func redactedName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-redacted" + ext
}
