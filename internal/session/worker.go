package session

import (
	"context"
	"math"
	"time"

	"drishti/internal/domain/emotion"
	"drishti/internal/domain/lang"
	"drishti/internal/metrics"
	"drishti/internal/services/perception"
)

// maxReportedDetections caps how many objects one result lists.
const maxReportedDetections = 5

// runWorker is the per-session monitoring loop. One cycle captures a frame,
// detects objects, composes a result and pushes it into the session queue.
// Cancellation is observed at cycle boundaries.
func (m *Manager) runWorker(ctx context.Context, s *Session) {
	defer close(s.done)

	log := m.log.With("session_id", s.ID)
	log.Infow("Vision worker started", "language", s.Language)

	ticker := time.NewTicker(m.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		m.runCycle(ctx, s)

		select {
		case <-ctx.Done():
			log.Info("Vision worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// runCycle produces exactly one Result. It never lets a panic or error kill
// the worker loop.
func (m *Manager) runCycle(ctx context.Context, s *Session) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorw("Vision cycle panicked", "session_id", s.ID, "panic", r)
		}
	}()

	if ctx.Err() != nil {
		return
	}

	items, err := m.perceptor.CaptureAndDetect(ctx)

	var result Result
	switch {
	case err != nil:
		metrics.SessionCycles.WithLabelValues("error").Inc()
		result = Result{
			Status:           StatusError,
			Timestamp:        now(),
			Response:         err.Error(),
			Detections:       []Detection{},
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
		}

	case len(items) == 0:
		metrics.SessionCycles.WithLabelValues("clear").Inc()
		result = Result{
			Status:           StatusClear,
			Timestamp:        now(),
			Response:         "Path clear.",
			Detections:       []Detection{},
			Emotion:          emotion.Happy,
			EmotionIntensity: 0.8,
		}

	default:
		metrics.SessionCycles.WithLabelValues("detection").Inc()
		result = m.detectionResult(ctx, s, items)
	}

	s.queue.Push(result)
}

// detectionResult shapes one cycle's detections. The natural-language
// response is produced in English only; the poll path localizes it.
func (m *Manager) detectionResult(ctx context.Context, s *Session, items []perception.Item) Result {
	detections := make([]Detection, 0, maxReportedDetections)
	for _, it := range items {
		if len(detections) == maxReportedDetections {
			break
		}
		detections = append(detections, Detection{
			Label:      it.Label,
			Confidence: round2(float64(it.Confidence)),
			Position:   it.Position(s.Language),
		})
	}

	scene := perception.Describe(items, lang.English)
	response, err := m.describer.Describe(ctx, scene)
	if err != nil {
		m.log.Warnw("Scene narration failed, using composed description",
			"session_id", s.ID, "error", err)
		response = scene
	}

	label, intensity := emotion.FromReply(response)

	return Result{
		Status:           StatusDetection,
		Timestamp:        now(),
		Response:         response,
		Detections:       detections,
		ObjectsCount:     len(detections),
		Emotion:          label,
		EmotionIntensity: intensity,
	}
}

func now() float64 {
	return float64(time.Now().UnixMilli()) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
