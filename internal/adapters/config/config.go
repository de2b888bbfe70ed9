package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"drishti/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Dialogue      DialogueConfig
	Translator    TranslatorConfig
	Vision        VisionConfig
	Session       SessionConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"drishti"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port      int    `envconfig:"PORT" default:"5000"`
	SecretKey string `envconfig:"SECRET_KEY" default:"change-this-in-production"`
	// MaxBodyBytes bounds inbound request bodies (camera frames arrive base64-encoded)
	MaxBodyBytes int64 `envconfig:"MAX_CONTENT_LENGTH" default:"20971520"`
}

// DialogueConfig describes the conversational inference runtime.
// Sampling defaults keep replies short and varied.
type DialogueConfig struct {
	Host         string        `envconfig:"DIALOGUE_HOST" default:"http://localhost:11434"`
	Model        string        `envconfig:"DIALOGUE_MODEL" default:"phi"`
	Temperature  float64       `envconfig:"DIALOGUE_TEMPERATURE" default:"0.8"`
	MaxTokens    int           `envconfig:"DIALOGUE_MAX_TOKENS" default:"80"`
	TopK         int           `envconfig:"DIALOGUE_TOP_K" default:"40"`
	TopP         float64       `envconfig:"DIALOGUE_TOP_P" default:"0.9"`
	Timeout      time.Duration `envconfig:"DIALOGUE_TIMEOUT" default:"20s"`
	MaxRetries   int           `envconfig:"DIALOGUE_MAX_RETRIES" default:"1"`
	RetryDelay   time.Duration `envconfig:"DIALOGUE_RETRY_DELAY" default:"1s"`
	ReqPerMinute float64       `envconfig:"DIALOGUE_REQ_PER_MINUTE" default:"120"`
	Burst        int           `envconfig:"DIALOGUE_BURST" default:"10"`
}

type TranslatorConfig struct {
	Enabled      bool          `envconfig:"TRANSLATOR_ENABLED" default:"true"`
	Endpoint     string        `envconfig:"TRANSLATOR_ENDPOINT" default:"https://translate.googleapis.com/translate_a/single"`
	Timeout      time.Duration `envconfig:"TRANSLATOR_TIMEOUT" default:"10s"`
	ReqPerMinute float64       `envconfig:"TRANSLATOR_REQ_PER_MINUTE" default:"60"`
}

type VisionConfig struct {
	ModelPath string `envconfig:"VISION_MODEL_PATH" default:"yolov8n.onnx"`
	// Sources are tried in order until one yields a frame
	Sources        []string      `envconfig:"CAMERA_SOURCES" default:"http://127.0.0.1:8080/shot.jpg"`
	Confidence     float32       `envconfig:"VISION_CONFIDENCE" default:"0.30"`
	WarmupFrames   int           `envconfig:"CAMERA_WARMUP_FRAMES" default:"3"`
	CloseRatio     float64       `envconfig:"VISION_CLOSE_RATIO" default:"0.25"`
	CaptureTimeout time.Duration `envconfig:"CAMERA_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	QueueSize     int           `envconfig:"SESSION_QUEUE_SIZE" default:"5"`
	CycleInterval time.Duration `envconfig:"SESSION_CYCLE_INTERVAL" default:"5s"`
	IdleTimeout   time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"300s"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"60s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
