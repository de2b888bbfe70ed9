package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drishti/internal/adapters/ai"
	"drishti/internal/adapters/camera"
	"drishti/internal/adapters/config"
	"drishti/internal/adapters/errors/noop"
	"drishti/internal/adapters/errors/sentry"
	"drishti/internal/adapters/translate"
	"drishti/internal/api"
	"drishti/internal/metrics"
	"drishti/internal/ml"
	"drishti/internal/services/dialogue"
	"drishti/internal/services/perception"
	"drishti/internal/session"
	"drishti/internal/workers"
	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	// Adapters
	translator := initTranslator(cfg, log)
	provider := initDialogueProvider(cfg)
	detector := initDetector(cfg, log)
	cam := camera.New(cfg.Vision.Sources, cfg.Vision.WarmupFrames, cfg.Vision.CaptureTimeout)

	// Services
	dialogueSvc := dialogue.New(provider, translator, cfg.Dialogue)
	perceptionSvc := perception.NewService(cam, detectorOrNil(detector), cfg.Vision)
	sessions := session.NewManager(perceptionSvc, dialogueSvc, translator, cfg.Session)

	// Background workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(session.NewSweepWorker(sessions, cfg.Session.SweepInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	handler := api.NewHandler(dialogueSvc, translator, perceptionSvc, sessions)
	server := api.NewServer(cfg.Server, handler)

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, log)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP shutdown: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Warnf("Worker shutdown: %v", err)
	}
	sessions.Shutdown()
	if detector != nil {
		detector.Destroy()
	}

	if err := errorTracker.Flush(shutdownCtx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}

	log.Info("Shutdown complete")
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initTranslator wires the translation engine, or a disabled pass-through
// translator when turned off.
func initTranslator(cfg *config.Config, log *logger.Logger) *translate.Translator {
	if !cfg.Translator.Enabled {
		log.Warn("Translator disabled, responses stay in their source language")
		return translate.New(nil)
	}

	engine := translate.NewGoogleEngine(cfg.Translator.Endpoint, cfg.Translator.Timeout, cfg.Translator.ReqPerMinute)
	return translate.New(engine)
}

func initDialogueProvider(cfg *config.Config) ai.ChatProvider {
	limiter := ai.NewTokenBucketLimiter(cfg.Dialogue.ReqPerMinute, cfg.Dialogue.Burst)
	return ai.NewOllamaProvider(cfg.Dialogue.Host, cfg.Dialogue.Model, cfg.Dialogue.Timeout, limiter)
}

// initDetector loads the object-detection model. The service starts without
// it; vision endpoints then report the detector as unavailable.
func initDetector(cfg *config.Config, log *logger.Logger) *ml.YOLODetector {
	detector, err := ml.LoadYOLODetector(cfg.Vision.ModelPath)
	if err != nil {
		log.Warnf("Object detection unavailable: %v", err)
		return nil
	}

	log.Infof("Detection model loaded from %s", cfg.Vision.ModelPath)
	return detector
}

// detectorOrNil keeps a typed nil out of the perception service's interface
// field.
func detectorOrNil(d *ml.YOLODetector) perception.Detector {
	if d == nil {
		return nil
	}
	return d
}

// waitForShutdown blocks until a termination signal arrives or the root
// context is cancelled.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down...")
	case <-ctx.Done():
		log.Info("Shutting down after internal error...")
	}

	cancel()
}
