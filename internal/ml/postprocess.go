package ml

import "sort"

// Box is one detected object in original-frame pixel coordinates.
type Box struct {
	ClassIndex int
	Label      string
	Confidence float32
	X1, Y1     float64
	X2, Y2     float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns the box height.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.X1 + b.X2) / 2 }

// Area returns the box area.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// letterbox describes how a frame was fitted into the model input square.
type letterbox struct {
	scale      float64
	padX, padY float64
}

func newLetterbox(srcW, srcH, dst int) letterbox {
	scale := float64(dst) / float64(srcW)
	if s := float64(dst) / float64(srcH); s < scale {
		scale = s
	}
	return letterbox{
		scale: scale,
		padX:  (float64(dst) - float64(srcW)*scale) / 2,
		padY:  (float64(dst) - float64(srcH)*scale) / 2,
	}
}

// decodeOutput converts the raw model tensor into candidate boxes above the
// confidence threshold. The tensor is attribute-major: 4 box coordinates
// (cx, cy, w, h in input space) followed by one score per class, each
// spanning numAnchors values.
func decodeOutput(data []float32, numClasses, numAnchors int, confThreshold float32, lb letterbox, srcW, srcH int) []Box {
	var boxes []Box

	for a := 0; a < numAnchors; a++ {
		bestClass := -1
		bestScore := float32(0)
		for c := 0; c < numClasses; c++ {
			score := data[(4+c)*numAnchors+a]
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}
		if bestScore < confThreshold || bestClass < 0 {
			continue
		}

		cx := float64(data[0*numAnchors+a])
		cy := float64(data[1*numAnchors+a])
		w := float64(data[2*numAnchors+a])
		h := float64(data[3*numAnchors+a])

		// Undo the letterbox transform back to source pixels.
		x1 := clamp((cx-w/2-lb.padX)/lb.scale, 0, float64(srcW))
		y1 := clamp((cy-h/2-lb.padY)/lb.scale, 0, float64(srcH))
		x2 := clamp((cx+w/2-lb.padX)/lb.scale, 0, float64(srcW))
		y2 := clamp((cy+h/2-lb.padY)/lb.scale, 0, float64(srcH))

		if x2 <= x1 || y2 <= y1 {
			continue
		}

		boxes = append(boxes, Box{
			ClassIndex: bestClass,
			Label:      ClassName(bestClass),
			Confidence: bestScore,
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
		})
	}

	return boxes
}

// nms applies greedy per-class non-maximum suppression.
func nms(boxes []Box, iouThreshold float64) []Box {
	sort.Slice(boxes, func(i, j int) bool {
		return boxes[i].Confidence > boxes[j].Confidence
	})

	var kept []Box
	suppressed := make([]bool, len(boxes))

	for i := range boxes {
		if suppressed[i] {
			continue
		}
		kept = append(kept, boxes[i])
		for j := i + 1; j < len(boxes); j++ {
			if suppressed[j] || boxes[j].ClassIndex != boxes[i].ClassIndex {
				continue
			}
			if iou(boxes[i], boxes[j]) > iouThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}

func iou(a, b Box) float64 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
