package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"strings"
	"time"

	"drishti/internal/domain/emotion"
	"drishti/internal/domain/lang"
	"drishti/internal/services/dialogue"
	"drishti/internal/services/perception"
	"drishti/internal/session"
	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

// Dialoguer is the conversational surface the API depends on.
type Dialoguer interface {
	AskWithEmotion(ctx context.Context, message, language string) (string, string, float64)
	Available(ctx context.Context) bool
}

// Translator is the explicit-translation surface. Unlike the fail-open path
// used inside the dialogue pipeline, errors here propagate to the client.
type Translator interface {
	TranslateStrict(ctx context.Context, text, source, target string) (string, error)
	Available() bool
}

// Scenery runs one perception pass, either from the camera or from a
// client-supplied frame.
type Scenery interface {
	CaptureAndDetect(ctx context.Context) ([]perception.Item, error)
	Detect(frame image.Image) ([]perception.Item, error)
	Available() bool
}

// Handler carries the service dependencies for all HTTP endpoints.
type Handler struct {
	dialogue   Dialoguer
	translator Translator
	scenery    Scenery
	sessions   *session.Manager
	log        *logger.Logger
}

func NewHandler(d Dialoguer, t Translator, sc Scenery, sm *session.Manager) *Handler {
	return &Handler{
		dialogue:   d,
		translator: t,
		scenery:    sc,
		sessions:   sm,
		log:        logger.Get().With("component", "api"),
	}
}

// writeJSON writes v with HTML escaping off so non-Latin text stays readable.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	return true
}

// HandleIndex serves the bundled web UI.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

// HandleHealth reports service status. Doubles as an opportunistic cleanup
// point for idle sessions.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.sessions.Sweep()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "healthy",
		"timestamp":              unixNow(),
		"active_vision_sessions": h.sessions.ActiveCount(),
		"dialogue_available":     h.dialogue.Available(r.Context()),
		"translator_available":   h.translator.Available(),
	})
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// HandleTranslate translates text between languages.
func (h *Handler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req translateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No text provided"})
		return
	}

	source := req.Source
	if source == "" {
		source = lang.Auto
	}
	target := req.Target
	if target == "" {
		target = lang.English
	}

	translated, err := h.translator.TranslateStrict(r.Context(), req.Text, source, target)
	if err != nil {
		h.log.Errorf("Translation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"translated_text": translated,
		"source_lang":     source,
		"target_lang":     target,
	})
}

type chatRequest struct {
	UserInput string `json:"user_input"`
	Message   string `json:"message"`
	Text      string `json:"text"`
	Language  string `json:"language"`
}

func (c chatRequest) input() string {
	for _, s := range []string{c.UserInput, c.Message, c.Text} {
		if s != "" {
			return s
		}
	}
	return ""
}

type chatResponse struct {
	Response         string  `json:"response"`
	Emotion          string  `json:"emotion"`
	EmotionIntensity float64 `json:"emotion_intensity"`
	Gesture          string  `json:"gesture,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// HandleChat is the main conversational endpoint with automatic translation.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Response:         "Invalid request.",
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
		})
		return
	}

	input := req.input()
	if input == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Response:         "Please provide a message.",
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
		})
		return
	}

	if !h.dialogue.Available(r.Context()) {
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Response:         "AI module failed. Is the model server running?",
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
			Error:            errors.ErrUnavailable.Error(),
		})
		return
	}

	language := req.Language
	if language == "" {
		language = lang.English
	}

	reply, label, intensity := h.dialogue.AskWithEmotion(r.Context(), input, language)

	writeJSON(w, http.StatusOK, chatResponse{
		Response:         reply,
		Emotion:          label,
		EmotionIntensity: intensity,
		Gesture:          dialogue.DetectGesture(input),
	})
}

type visionRequest struct {
	ImageData string `json:"image_data"`
	UserInput string `json:"user_input"`
	Language  string `json:"language"`
}

type visionResponse struct {
	Response         string              `json:"response"`
	Emotion          string              `json:"emotion"`
	EmotionIntensity float64             `json:"emotion_intensity"`
	Source           string              `json:"source"`
	Detections       []session.Detection `json:"detections"`
	ObjectsCount     int                 `json:"objects_count"`
	Error            string              `json:"error,omitempty"`
}

// HandleVision runs a single perception pass and describes the scene in the
// requested language. Accepts either a client-supplied base64 frame or,
// absent one, a live camera capture.
func (h *Handler) HandleVision(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req visionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if !h.scenery.Available() {
		writeJSON(w, http.StatusInternalServerError, visionResponse{
			Response:         "Vision module not available.",
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
			Source:           "vision_error",
			Detections:       []session.Detection{},
			Error:            errors.ErrDetectorUnavailable.Error(),
		})
		return
	}

	code := lang.Normalize(req.Language)

	items, err := h.detectOnce(r.Context(), req.ImageData)
	if err != nil {
		writeJSON(w, http.StatusOK, visionResponse{
			Response:         err.Error(),
			Emotion:          emotion.Neutral,
			EmotionIntensity: emotion.DefaultIntensity,
			Source:           "vision_error",
			Detections:       []session.Detection{},
		})
		return
	}

	if len(items) == 0 {
		label, intensity := emotion.FromScene(perception.Describe(nil, lang.English))
		writeJSON(w, http.StatusOK, visionResponse{
			Response:         perception.ClearPhrase(code),
			Emotion:          label,
			EmotionIntensity: intensity,
			Source:           "vision_clear",
			Detections:       []session.Detection{},
		})
		return
	}

	detections := make([]session.Detection, 0, 5)
	for _, it := range items {
		if len(detections) == 5 {
			break
		}
		detections = append(detections, session.Detection{
			Label:      it.Label,
			Confidence: round2(float64(it.Confidence)),
			Position:   it.Position(code),
		})
	}

	// Emotion comes from the English rendering; the response itself is
	// composed directly in the target language.
	label, intensity := emotion.FromScene(perception.Describe(items, lang.English))

	writeJSON(w, http.StatusOK, visionResponse{
		Response:         perception.Describe(items, code),
		Emotion:          label,
		EmotionIntensity: intensity,
		Source:           "vision_detection",
		Detections:       detections,
		ObjectsCount:     len(detections),
	})
}

// detectOnce runs exactly one perception pass for HandleVision.
func (h *Handler) detectOnce(ctx context.Context, imageData string) ([]perception.Item, error) {
	if imageData == "" {
		return h.scenery.CaptureAndDetect(ctx)
	}

	frame, err := decodeFrame(imageData)
	if err != nil {
		return nil, err
	}
	return h.scenery.Detect(frame)
}

// decodeFrame parses a base64 image, tolerating a data URL prefix.
func decodeFrame(data string) (image.Image, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid base64 image")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "unsupported image format")
	}
	return img, nil
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

// HandleVisionStart registers a continuous-monitoring session.
func (h *Handler) HandleVisionStart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	language := req.Language
	if language == "" {
		language = "en-US"
	}

	id := h.sessions.Start(req.SessionID, language)

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "started",
		"session_id": id,
		"message":    "Vision monitoring active",
	})
}

// HandleVisionPoll destructively reads the oldest queued result.
func (h *Handler) HandleVisionPoll(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req sessionRequest
	if err := decodeBody(r, &req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "no_session", "detections": []session.Detection{}})
		return
	}

	result, err := h.sessions.Poll(r.Context(), req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "no_session", "detections": []session.Detection{}})
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "no_data", "detections": []session.Detection{}})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleVisionStop halts a session and removes it from the registry.
func (h *Handler) HandleVisionStop(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req sessionRequest
	if err := decodeBody(r, &req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	if err := h.sessions.Stop(req.SessionID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func unixNow() float64 {
	return float64(time.Now().UnixMilli()) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
