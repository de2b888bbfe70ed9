package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"drishti/pkg/errors"
)

// GoogleEngine translates text through the public Google Translate web
// endpoint. The endpoint is unauthenticated, so requests are paced to stay
// well under its informal quota.
type GoogleEngine struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGoogleEngine creates an engine against the given endpoint
// (translate_a/single compatible).
func NewGoogleEngine(endpoint string, timeout time.Duration, reqPerMinute float64) *GoogleEngine {
	if reqPerMinute <= 0 {
		reqPerMinute = 60
	}
	return &GoogleEngine{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(reqPerMinute/60.0), 5),
	}
}

// Translate implements Engine.
func (e *GoogleEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "translation rate limit wait cancelled")
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "create translation request")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "send translation request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read translation response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(errors.ErrExternal, "translation API error (%d): %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decodeTranslation(body)
}

// decodeTranslation extracts the translated text from the endpoint's nested
// JSON array payload: [[["translated","original",...],...],...].
func decodeTranslation(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errors.Wrap(err, "unmarshal translation response")
	}
	if len(payload) == 0 {
		return "", errors.Wrapf(errors.ErrExternal, "empty translation payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", errors.Wrap(err, "unmarshal translation segments")
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	out := sb.String()
	if out == "" {
		return "", errors.Wrapf(errors.ErrExternal, "translation payload had no text")
	}
	return out, nil
}
