package ml

import (
	"image"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"

	"drishti/pkg/errors"
)

const (
	inputSize    = 640
	numClasses   = 80
	numAnchors   = 8400
	iouThreshold = 0.45
)

// YOLODetector wraps an ONNX Runtime session running a YOLOv8 detection
// model. Sessions are not safe for concurrent Run calls, so inference is
// serialized with a mutex; vision cycles are slow enough that this never
// contends in practice.
type YOLODetector struct {
	session *onnxruntime.DynamicAdvancedSession
	mu      sync.Mutex
}

// LoadYOLODetector loads the detection model from file.
func LoadYOLODetector(modelPath string) (*YOLODetector, error) {
	// Initialize ONNX runtime environment (only once)
	err := onnxruntime.InitializeEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize ONNX runtime")
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	// YOLOv8 export: input "images" [1,3,640,640], output "output0" [1,84,8400]
	session, err := onnxruntime.NewDynamicAdvancedSession(modelPath,
		[]string{"images"}, []string{"output0"}, options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load detection model")
	}

	return &YOLODetector{session: session}, nil
}

// Detect runs object detection on a frame and returns boxes above the
// confidence threshold, in original-frame pixel coordinates.
func (d *YOLODetector) Detect(frame image.Image, confThreshold float32) ([]Box, error) {
	if d == nil || d.session == nil {
		return nil, errors.ErrDetectorUnavailable
	}

	bounds := frame.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty frame")
	}

	lb := newLetterbox(srcW, srcH, inputSize)
	input := preprocess(frame, lb)

	inputShape := onnxruntime.NewShape(1, 3, inputSize, inputSize)
	inputTensor, err := onnxruntime.NewTensor(inputShape, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input tensor")
	}
	defer inputTensor.Destroy()

	output := make([]float32, (4+numClasses)*numAnchors)
	outputShape := onnxruntime.NewShape(1, 4+numClasses, numAnchors)
	outputTensor, err := onnxruntime.NewTensor(outputShape, output)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output tensor")
	}
	defer outputTensor.Destroy()

	d.mu.Lock()
	err = d.session.Run(
		[]onnxruntime.Value{inputTensor},
		[]onnxruntime.Value{outputTensor},
	)
	d.mu.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "inference failed")
	}

	boxes := decodeOutput(output, numClasses, numAnchors, confThreshold, lb, srcW, srcH)
	return nms(boxes, iouThreshold), nil
}

// Destroy cleans up the ONNX session.
func (d *YOLODetector) Destroy() {
	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
}

// preprocess letterboxes the frame into a 640x640 CHW float32 tensor scaled
// to [0,1]. Sampling is nearest-neighbor; detection quality is insensitive
// to the interpolation kernel at this resolution.
func preprocess(frame image.Image, lb letterbox) []float32 {
	bounds := frame.Bounds()
	data := make([]float32, 3*inputSize*inputSize)

	// Gray padding like the reference preprocessing
	const pad = float32(114.0 / 255.0)
	for i := range data {
		data[i] = pad
	}

	dstW := int(float64(bounds.Dx()) * lb.scale)
	dstH := int(float64(bounds.Dy()) * lb.scale)
	offX := int(lb.padX)
	offY := int(lb.padY)

	plane := inputSize * inputSize
	for dy := 0; dy < dstH; dy++ {
		sy := bounds.Min.Y + int(float64(dy)/lb.scale)
		if sy >= bounds.Max.Y {
			sy = bounds.Max.Y - 1
		}
		for dx := 0; dx < dstW; dx++ {
			sx := bounds.Min.X + int(float64(dx)/lb.scale)
			if sx >= bounds.Max.X {
				sx = bounds.Max.X - 1
			}

			r, g, b, _ := frame.At(sx, sy).RGBA()
			idx := (dy+offY)*inputSize + (dx + offX)
			data[0*plane+idx] = float32(r>>8) / 255.0
			data[1*plane+idx] = float32(g>>8) / 255.0
			data[2*plane+idx] = float32(b>>8) / 255.0
		}
	}

	return data
}
