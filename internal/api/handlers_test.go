package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drishti/internal/adapters/config"
	"drishti/internal/services/perception"
	"drishti/internal/session"
	apperrors "drishti/pkg/errors"
)

type fakeDialoguer struct {
	reply     string
	emotion   string
	intensity float64
	available bool
	gotLang   string
	gotInput  string
}

func (f *fakeDialoguer) AskWithEmotion(ctx context.Context, message, language string) (string, string, float64) {
	f.gotInput = message
	f.gotLang = language
	return f.reply, f.emotion, f.intensity
}

func (f *fakeDialoguer) Available(ctx context.Context) bool { return f.available }

type fakeTranslator struct {
	err       error
	available bool
}

func (f *fakeTranslator) TranslateStrict(ctx context.Context, text, source, target string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "[" + source + ">" + target + "]" + text, nil
}

func (f *fakeTranslator) Available() bool { return f.available }

type fakeScenery struct {
	items      []perception.Item
	err        error
	available  bool
	detectUsed bool
}

func (f *fakeScenery) CaptureAndDetect(ctx context.Context) ([]perception.Item, error) {
	return f.items, f.err
}

func (f *fakeScenery) Detect(frame image.Image) ([]perception.Item, error) {
	f.detectUsed = true
	return f.items, f.err
}

func (f *fakeScenery) Available() bool { return f.available }

// idlePerceptor blocks until its session is cancelled, so tests never see a
// completed monitoring cycle.
type idlePerceptor struct{}

func (idlePerceptor) CaptureAndDetect(ctx context.Context) ([]perception.Item, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type idleDescriber struct{}

func (idleDescriber) Describe(ctx context.Context, scene string) (string, error) {
	return scene, nil
}

type passTranslator struct{}

func (passTranslator) Translate(ctx context.Context, text, source, target string) string {
	return text
}

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(idlePerceptor{}, idleDescriber{}, passTranslator{}, config.SessionConfig{
		QueueSize:     5,
		CycleInterval: time.Hour,
		IdleTimeout:   time.Hour,
		SweepInterval: time.Hour,
	})
	t.Cleanup(m.Shutdown)
	return m
}

func newTestHandler(t *testing.T, d *fakeDialoguer, tr *fakeTranslator, sc *fakeScenery) *Handler {
	t.Helper()
	if d == nil {
		d = &fakeDialoguer{reply: "Hello there.", emotion: "happy", intensity: 0.8, available: true}
	}
	if tr == nil {
		tr = &fakeTranslator{available: true}
	}
	if sc == nil {
		sc = &fakeScenery{available: true}
	}
	return NewHandler(d, tr, sc, newTestSessions(t))
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestHandleIndex(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Drishti")

	rec = httptest.NewRecorder()
	h.HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(0), body["active_vision_sessions"])
	assert.Equal(t, true, body["dialogue_available"])
	assert.Equal(t, true, body["translator_available"])
	assert.Greater(t, body["timestamp"], float64(0))
}

func TestHandleTranslate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newTestHandler(t, nil, nil, nil)
		rec := postJSON(t, h.HandleTranslate, `{"text":"नमस्ते","source":"hi","target":"en"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, "[hi>en]नमस्ते", body["translated_text"])
		assert.Equal(t, "hi", body["source_lang"])
		assert.Equal(t, "en", body["target_lang"])
	})

	t.Run("defaults", func(t *testing.T) {
		h := newTestHandler(t, nil, nil, nil)
		rec := postJSON(t, h.HandleTranslate, `{"text":"hola"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, "auto", body["source_lang"])
		assert.Equal(t, "en", body["target_lang"])
	})

	t.Run("missing text", func(t *testing.T) {
		h := newTestHandler(t, nil, nil, nil)
		rec := postJSON(t, h.HandleTranslate, `{"source":"hi","target":"en"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No text provided", decodeResponse(t, rec)["error"])
	})

	t.Run("engine failure", func(t *testing.T) {
		h := newTestHandler(t, nil, &fakeTranslator{err: apperrors.ErrExternal, available: true}, nil)
		rec := postJSON(t, h.HandleTranslate, `{"text":"hello","target":"hi"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		h := newTestHandler(t, nil, nil, nil)
		rec := httptest.NewRecorder()
		h.HandleTranslate(rec, httptest.NewRequest(http.MethodGet, "/api/translate", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleChatEnglish(t *testing.T) {
	d := &fakeDialoguer{reply: "Hello! How can I help?", emotion: "happy", intensity: 0.8, available: true}
	h := newTestHandler(t, d, nil, nil)

	rec := postJSON(t, h.HandleChat, `{"user_input":"Hello","language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.NotEmpty(t, body["response"])
	assert.Contains(t, []string{"neutral", "happy", "sad", "surprised", "curious"}, body["emotion"])
	assert.Equal(t, "wave", body["gesture"])
	assert.Equal(t, "en", d.gotLang)
	assert.Equal(t, "Hello", d.gotInput)
}

func TestHandleChatInputFallbacks(t *testing.T) {
	for _, body := range []string{
		`{"user_input":"Hello"}`,
		`{"message":"Hello"}`,
		`{"text":"Hello"}`,
	} {
		d := &fakeDialoguer{reply: "Hi.", emotion: "neutral", intensity: 0.5, available: true}
		h := newTestHandler(t, d, nil, nil)

		rec := postJSON(t, h.HandleChat, body)
		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "Hello", d.gotInput)
		assert.Equal(t, "en", d.gotLang, "missing language defaults to English")
	}
}

func TestHandleChatMissingMessage(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)
	rec := postJSON(t, h.HandleChat, `{"language":"en"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide a message.", decodeResponse(t, rec)["response"])
}

func TestHandleChatInvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)
	rec := postJSON(t, h.HandleChat, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request.", decodeResponse(t, rec)["response"])
}

func TestHandleChatProviderDown(t *testing.T) {
	d := &fakeDialoguer{available: false}
	h := newTestHandler(t, d, nil, nil)

	rec := postJSON(t, h.HandleChat, `{"user_input":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "neutral", body["emotion"])
	assert.NotEmpty(t, body["error"])
}

func TestHandleVisionClear(t *testing.T) {
	h := newTestHandler(t, nil, nil, &fakeScenery{available: true})

	rec := postJSON(t, h.HandleVision, `{"language":"hi-IN"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "रास्ता साफ है।", body["response"])
	assert.Equal(t, "vision_clear", body["source"])
	assert.Equal(t, "happy", body["emotion"])
	assert.Equal(t, float64(0), body["objects_count"])
	assert.Empty(t, body["detections"])
}

func TestHandleVisionDetection(t *testing.T) {
	sc := &fakeScenery{available: true, items: []perception.Item{
		{Label: "person", Confidence: 0.91, Direction: perception.DirectionAhead, Distance: perception.DistanceClose, SizeRatio: 0.4},
		{Label: "chair", Confidence: 0.55, Direction: perception.DirectionLeft, Distance: perception.DistanceFar, SizeRatio: 0.05},
	}}
	h := newTestHandler(t, nil, nil, sc)

	rec := postJSON(t, h.HandleVision, `{"language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "I see person ahead, chair on your left.", body["response"])
	assert.Equal(t, "vision_detection", body["source"])
	assert.Equal(t, float64(2), body["objects_count"])

	detections := body["detections"].([]any)
	require.Len(t, detections, 2)
	first := detections[0].(map[string]any)
	assert.Equal(t, "person", first["label"])
	assert.Equal(t, 0.91, first["confidence"])
	assert.Equal(t, "ahead - very close", first["position"])
}

func TestHandleVisionCapsDetections(t *testing.T) {
	var items []perception.Item
	for i := 0; i < 8; i++ {
		items = append(items, perception.Item{Label: "chair", Confidence: 0.5, Direction: perception.DirectionAhead, Distance: perception.DistanceFar})
	}
	h := newTestHandler(t, nil, nil, &fakeScenery{available: true, items: items})

	rec := postJSON(t, h.HandleVision, `{"language":"en"}`)

	body := decodeResponse(t, rec)
	assert.Equal(t, float64(5), body["objects_count"])
	assert.Len(t, body["detections"].([]any), 5)
}

func TestHandleVisionCameraError(t *testing.T) {
	h := newTestHandler(t, nil, nil, &fakeScenery{available: true, err: apperrors.ErrCameraUnavailable})

	rec := postJSON(t, h.HandleVision, `{"language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "camera not accessible", body["response"])
	assert.Equal(t, "vision_error", body["source"])
	assert.Equal(t, "neutral", body["emotion"])
}

func TestHandleVisionUnavailable(t *testing.T) {
	h := newTestHandler(t, nil, nil, &fakeScenery{available: false})

	rec := postJSON(t, h.HandleVision, `{"language":"en"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Vision module not available.", decodeResponse(t, rec)["response"])
}

func TestHandleVisionSuppliedFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	sc := &fakeScenery{available: true}
	h := newTestHandler(t, nil, nil, sc)

	payload, err := json.Marshal(map[string]string{
		"image_data": "data:image/jpeg;base64," + encoded,
		"language":   "en",
	})
	require.NoError(t, err)

	rec := postJSON(t, h.HandleVision, string(payload))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sc.detectUsed, "client frame goes through Detect, not the camera")
}

func TestHandleVisionBadFrame(t *testing.T) {
	h := newTestHandler(t, nil, nil, &fakeScenery{available: true})

	rec := postJSON(t, h.HandleVision, `{"image_data":"!!not-base64!!","language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "vision_error", body["source"])
}

func TestVisionSessionLifecycle(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := postJSON(t, h.HandleVisionStart, `{"session_id":"s1","language":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "started", body["status"])
	assert.Equal(t, "s1", body["session_id"])

	// Immediate poll before the first cycle completes
	rec = postJSON(t, h.HandleVisionPoll, `{"session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeResponse(t, rec)
	assert.Equal(t, "no_data", body["status"])
	assert.Empty(t, body["detections"])

	rec = postJSON(t, h.HandleVisionStop, `{"session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stopped", decodeResponse(t, rec)["status"])

	rec = postJSON(t, h.HandleVisionPoll, `{"session_id":"s1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_session", decodeResponse(t, rec)["status"])
}

func TestVisionStartGeneratesID(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := postJSON(t, h.HandleVisionStart, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeResponse(t, rec)["session_id"])
}

func TestVisionPollUnknownSession(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := postJSON(t, h.HandleVisionPoll, `{"session_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "no_session", body["status"])
	assert.Empty(t, body["detections"])
}

func TestVisionStopUnknownSession(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)

	rec := postJSON(t, h.HandleVisionStop, `{"session_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeResponse(t, rec)["status"])
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/phi", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimitMiddleware(t *testing.T) {
	h := newTestHandler(t, nil, nil, nil)
	handler := chain(http.HandlerFunc(h.HandleChat), bodyLimitMiddleware(64))

	big := `{"user_input":"` + strings.Repeat("x", 256) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/phi", strings.NewReader(big))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "oversized body rejected at decode")
}

func TestNonEnglishTextNotEscaped(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"response": "क्षमा करें"})
	assert.Contains(t, rec.Body.String(), "क्षमा करें")
}
