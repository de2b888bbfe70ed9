package perception

import (
	"context"
	"image"
	"sort"
	"strings"

	"drishti/internal/adapters/config"
	"drishti/internal/domain/lang"
	"drishti/internal/metrics"
	"drishti/internal/ml"
	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

// FrameSource acquires single camera frames.
type FrameSource interface {
	Capture(ctx context.Context) (image.Image, error)
}

// Detector runs object detection on one frame.
type Detector interface {
	Detect(frame image.Image, confThreshold float32) ([]ml.Box, error)
}

// Item is one detected object with its spatial buckets.
type Item struct {
	Label      string
	Confidence float32
	Direction  string
	Distance   string
	SizeRatio  float64
}

// Position renders the localized "direction - distance" descriptor.
func (it Item) Position(code string) string {
	return Phrase(code, it.Direction) + " - " + Phrase(code, it.Distance)
}

// labelPriority ranks labels by how much a pedestrian cares about them.
var labelPriority = map[string]int{
	"person": 10,
	"car":    8,
	"truck":  8,
	"dog":    7,
	"chair":  6,
}

const defaultPriority = 3

// Service turns camera frames into ranked, language-tagged scene items.
type Service struct {
	camera     FrameSource
	detector   Detector
	cfg        config.VisionConfig
	log        *logger.Logger
	closeRatio float64
}

func NewService(camera FrameSource, detector Detector, cfg config.VisionConfig) *Service {
	return &Service{
		camera:     camera,
		detector:   detector,
		cfg:        cfg,
		log:        logger.Get().With("component", "perception"),
		closeRatio: cfg.CloseRatio,
	}
}

// Available reports whether a detector is loaded.
func (s *Service) Available() bool {
	return s.detector != nil
}

// CaptureAndDetect grabs one frame and detects objects in it.
func (s *Service) CaptureAndDetect(ctx context.Context) ([]Item, error) {
	if s.detector == nil {
		return nil, errors.ErrDetectorUnavailable
	}
	if s.camera == nil {
		return nil, errors.ErrCameraUnavailable
	}

	frame, err := s.camera.Capture(ctx)
	if err != nil {
		return nil, err
	}

	return s.Detect(frame)
}

// Detect runs the detector over a caller-supplied frame.
func (s *Service) Detect(frame image.Image) ([]Item, error) {
	if s.detector == nil {
		return nil, errors.ErrDetectorUnavailable
	}

	boxes, err := s.detector.Detect(frame, s.cfg.Confidence)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNoDetectionResult, err.Error())
	}

	bounds := frame.Bounds()
	items := s.bucketize(boxes, bounds.Dx(), bounds.Dy())

	metrics.DetectedObjects.Observe(float64(len(items)))
	return items, nil
}

// bucketize converts raw boxes into Items with direction and distance
// buckets relative to the frame geometry.
func (s *Service) bucketize(boxes []ml.Box, frameW, frameH int) []Item {
	frameArea := float64(frameW) * float64(frameH)
	if frameArea <= 0 {
		return nil
	}

	items := make([]Item, 0, len(boxes))
	for _, b := range boxes {
		ratio := b.Area() / frameArea
		items = append(items, Item{
			Label:      b.Label,
			Confidence: b.Confidence,
			Direction:  direction(b.CenterX(), float64(frameW)),
			Distance:   distance(ratio, s.closeRatio),
			SizeRatio:  ratio,
		})
	}
	return items
}

// direction splits the frame width into three equal zones.
func direction(centerX, frameW float64) string {
	third := frameW / 3
	switch {
	case centerX < third:
		return DirectionLeft
	case centerX < 2*third:
		return DirectionAhead
	default:
		return DirectionRight
	}
}

func distance(sizeRatio, closeRatio float64) string {
	if sizeRatio > closeRatio {
		return DistanceClose
	}
	return DistanceFar
}

// Describe composes a short natural-language description of the scene in the
// target language. Items are ranked by label priority, ties broken by size,
// deduped by label, and at most two mentioned.
func Describe(items []Item, code string) string {
	code = lang.Normalize(code)
	if len(items) == 0 {
		return ClearPhrase(code)
	}

	ranked := make([]Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := priority(ranked[i].Label), priority(ranked[j].Label)
		if pi != pj {
			return pi > pj
		}
		return ranked[i].SizeRatio > ranked[j].SizeRatio
	})

	seen := make(map[string]bool)
	var parts []string
	for _, it := range ranked {
		if seen[it.Label] {
			continue
		}
		seen[it.Label] = true
		parts = append(parts, it.Label+" "+Phrase(code, it.Direction))
		if len(parts) == 2 {
			break
		}
	}

	if len(parts) == 0 {
		return ClearPhrase(code)
	}
	return Phrase(code, "see") + " " + strings.Join(parts, ", ") + "."
}

func priority(label string) int {
	if p, ok := labelPriority[label]; ok {
		return p
	}
	return defaultPriority
}
