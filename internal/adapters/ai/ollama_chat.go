package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"drishti/pkg/errors"
)

// Ensure OllamaProvider implements ChatProvider
var _ ChatProvider = (*OllamaProvider)(nil)

// OllamaProvider talks to an Ollama-compatible model runtime over its native
// /api/chat endpoint.
type OllamaProvider struct {
	host        string
	model       string
	timeout     time.Duration
	rateLimiter RateLimiter
}

// NewOllamaProvider creates a provider for the runtime at host (e.g.
// "http://localhost:11434") serving the named model.
func NewOllamaProvider(host, model string, timeout time.Duration, limiter RateLimiter) *OllamaProvider {
	if limiter == nil {
		limiter = NewNoOpLimiter()
	}
	return &OllamaProvider{
		host:        strings.TrimRight(host, "/"),
		model:       model,
		timeout:     timeout,
		rateLimiter: limiter,
	}
}

// Model returns the configured model name.
func (p *OllamaProvider) Model() string { return p.model }

// Available probes the runtime's version endpoint.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.host+"/api/version", nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Chat sends a chat completion request to the runtime.
func (p *OllamaProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if p.host == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "runtime host not configured")
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	ollamaReq := ollamaChatRequest{
		Model:  model,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
			TopK:        req.TopK,
			TopP:        req.TopP,
		},
	}
	for _, msg := range req.Messages {
		ollamaReq.Messages = append(ollamaReq.Messages, ollamaMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(ollamaReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: p.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send chat request")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read chat response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, errors.Wrapf(errors.ErrExternal, "runtime error (%d): %s",
				resp.StatusCode, errResp.Error)
		}
		return nil, errors.Wrapf(errors.ErrExternal, "runtime error (%d): %s",
			resp.StatusCode, string(respBody))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		return nil, errors.Wrap(err, "unmarshal chat response")
	}

	content := strings.TrimSpace(ollamaResp.Message.Content)
	if content == "" {
		return nil, errors.Wrapf(errors.ErrExternal, "runtime returned empty reply")
	}

	return &ChatResponse{
		Model:   ollamaResp.Model,
		Content: content,
		Done:    ollamaResp.Done,
	}, nil
}

// Native Ollama request/response types

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}
