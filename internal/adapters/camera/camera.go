package camera

import (
	"context"
	"image"
	"strings"
	"time"

	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

// Source is one capture backend yielding single frames.
type Source interface {
	// Name identifies the backend for logging.
	Name() string

	// Grab acquires one frame.
	Grab(ctx context.Context) (image.Image, error)
}

// Camera acquires frames by trying its sources in a fixed preference order,
// first success wins. A small number of warmup frames is discarded before
// the frame actually used, letting exposure and focus settle.
type Camera struct {
	sources      []Source
	warmupFrames int
	timeout      time.Duration
	log          *logger.Logger
}

// New creates a Camera over the given source specs. A spec starting with
// "http" becomes a snapshot source; anything else is treated as a filesystem
// path written by an external capture process.
func New(specs []string, warmupFrames int, timeout time.Duration) *Camera {
	var sources []Source
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
			sources = append(sources, NewSnapshotSource(spec, timeout))
		} else {
			sources = append(sources, NewFileSource(spec))
		}
	}

	return &Camera{
		sources:      sources,
		warmupFrames: warmupFrames,
		timeout:      timeout,
		log:          logger.Get().With("component", "camera"),
	}
}

// Capture returns one settled frame from the first working source.
func (c *Camera) Capture(ctx context.Context) (image.Image, error) {
	if len(c.sources) == 0 {
		return nil, errors.ErrCameraUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for _, src := range c.sources {
		frame, err := c.captureFrom(ctx, src)
		if err != nil {
			c.log.Debugf("Source %s failed: %v", src.Name(), err)
			continue
		}
		return frame, nil
	}

	return nil, errors.ErrCameraUnavailable
}

func (c *Camera) captureFrom(ctx context.Context, src Source) (image.Image, error) {
	// Warm up: grab and discard
	for i := 0; i < c.warmupFrames; i++ {
		if _, err := src.Grab(ctx); err != nil {
			return nil, err
		}
	}

	frame, err := src.Grab(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFrameCapture, err.Error())
	}
	return frame, nil
}
