package perception

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drishti/internal/adapters/config"
	"drishti/internal/ml"
	apperrors "drishti/pkg/errors"
)

type stubDetector struct {
	boxes []ml.Box
	err   error
}

func (s *stubDetector) Detect(frame image.Image, confThreshold float32) ([]ml.Box, error) {
	return s.boxes, s.err
}

type stubCamera struct {
	frame image.Image
	err   error
}

func (s *stubCamera) Capture(ctx context.Context) (image.Image, error) {
	return s.frame, s.err
}

func testConfig() config.VisionConfig {
	return config.VisionConfig{Confidence: 0.30, CloseRatio: 0.25}
}

func TestDetectBuckets(t *testing.T) {
	// 900x600 frame, thirds at x=300 and x=600
	frame := image.NewRGBA(image.Rect(0, 0, 900, 600))
	det := &stubDetector{boxes: []ml.Box{
		{Label: "person", Confidence: 0.9, X1: 50, Y1: 50, X2: 250, Y2: 550},
		{Label: "chair", Confidence: 0.6, X1: 400, Y1: 200, X2: 500, Y2: 300},
		{Label: "car", Confidence: 0.7, X1: 700, Y1: 0, X2: 900, Y2: 600},
	}}
	svc := NewService(&stubCamera{frame: frame}, det, testConfig())

	items, err := svc.CaptureAndDetect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, DirectionLeft, items[0].Direction)
	assert.Equal(t, DirectionAhead, items[1].Direction)
	assert.Equal(t, DirectionRight, items[2].Direction)

	// person box covers 200x500 of 900x600 = 0.185 -> far
	assert.Equal(t, DistanceFar, items[0].Distance)
	// car box covers 200x600 of 900x600 = 0.222 -> far
	assert.Equal(t, DistanceFar, items[2].Distance)
	assert.InDelta(t, 0.185, items[0].SizeRatio, 0.001)
}

func TestDetectCloseObject(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	det := &stubDetector{boxes: []ml.Box{
		{Label: "person", Confidence: 0.9, X1: 10, Y1: 10, X2: 70, Y2: 70},
	}}
	svc := NewService(&stubCamera{frame: frame}, det, testConfig())

	items, err := svc.Detect(frame)
	require.NoError(t, err)
	require.Len(t, items, 1)
	// 60x60 of 100x100 = 0.36 > 0.25
	assert.Equal(t, DistanceClose, items[0].Distance)
}

func TestCaptureAndDetectErrors(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))

	t.Run("no detector", func(t *testing.T) {
		svc := NewService(&stubCamera{frame: frame}, nil, testConfig())
		_, err := svc.CaptureAndDetect(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrDetectorUnavailable)
	})

	t.Run("camera failure", func(t *testing.T) {
		svc := NewService(&stubCamera{err: apperrors.ErrCameraUnavailable}, &stubDetector{}, testConfig())
		_, err := svc.CaptureAndDetect(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrCameraUnavailable)
	})

	t.Run("detector failure", func(t *testing.T) {
		svc := NewService(&stubCamera{frame: frame}, &stubDetector{err: apperrors.New("inference failed")}, testConfig())
		_, err := svc.CaptureAndDetect(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrNoDetectionResult)
	})
}

func TestDescribeEmptyScene(t *testing.T) {
	assert.Equal(t, "Path is clear.", Describe(nil, "en"))
	assert.Equal(t, "रास्ता साफ है।", Describe(nil, "hi"))
	assert.Equal(t, "Path is clear.", Describe(nil, "fr"), "unsupported language falls back to English")
}

func TestDescribeRanksByPriority(t *testing.T) {
	items := []Item{
		{Label: "chair", Direction: DirectionLeft, SizeRatio: 0.9},
		{Label: "person", Direction: DirectionAhead, SizeRatio: 0.1},
		{Label: "dog", Direction: DirectionRight, SizeRatio: 0.2},
	}

	// person (10) beats dog (7) beats chair (6) regardless of size
	assert.Equal(t, "I see person ahead, dog on your right.", Describe(items, "en"))
}

func TestDescribeTieBreakBySize(t *testing.T) {
	items := []Item{
		{Label: "bottle", Direction: DirectionLeft, SizeRatio: 0.05},
		{Label: "cup", Direction: DirectionRight, SizeRatio: 0.20},
	}

	// both default priority, larger first
	assert.Equal(t, "I see cup on your right, bottle on your left.", Describe(items, "en"))
}

func TestDescribeDedupesLabels(t *testing.T) {
	items := []Item{
		{Label: "person", Direction: DirectionAhead, SizeRatio: 0.3},
		{Label: "person", Direction: DirectionLeft, SizeRatio: 0.1},
		{Label: "car", Direction: DirectionRight, SizeRatio: 0.2},
	}

	assert.Equal(t, "I see person ahead, car on your right.", Describe(items, "en"))
}

func TestDescribeLocalized(t *testing.T) {
	items := []Item{{Label: "person", Direction: DirectionAhead, SizeRatio: 0.3}}

	assert.Equal(t, "मुझे दिख रहा है person सामने.", Describe(items, "hi"))
	assert.Equal(t, "मुझे दिख रहा है person सामने.", Describe(items, "hi-IN"), "regional tags normalize")
}

func TestItemPosition(t *testing.T) {
	it := Item{Direction: DirectionAhead, Distance: DistanceClose}
	assert.Equal(t, "ahead - very close", it.Position("en"))
	assert.Equal(t, "सामने - बहुत नजदीक", it.Position("hi"))
}
