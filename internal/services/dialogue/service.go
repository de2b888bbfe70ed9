package dialogue

import (
	"context"
	"strings"
	"time"

	"drishti/internal/adapters/ai"
	"drishti/internal/adapters/config"
	"drishti/internal/domain/emotion"
	"drishti/internal/domain/lang"
	"drishti/internal/metrics"
	"drishti/pkg/logger"
)

// Translator is the narrow translation contract the pipeline needs.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// Service wraps the inference runtime with the translate-call-translate
// pipeline, retry policy and emotion inference. Its public operations never
// return an error: every failure path yields a valid reply triple.
type Service struct {
	provider   ai.ChatProvider
	translator Translator
	cfg        config.DialogueConfig
	log        *logger.Logger

	// sleep is swappable in tests to avoid real retry delays
	sleep func(ctx context.Context, d time.Duration)
}

// New creates the dialogue service.
func New(provider ai.ChatProvider, translator Translator, cfg config.DialogueConfig) *Service {
	return &Service{
		provider:   provider,
		translator: translator,
		cfg:        cfg,
		log:        logger.Get().With("component", "dialogue"),
		sleep:      sleepCtx,
	}
}

// Available reports whether the inference runtime is reachable.
func (s *Service) Available(ctx context.Context) bool {
	return s.provider.Available(ctx)
}

// AskWithEmotion produces a reply in the user's language with an inferred
// emotion. Non-English input is translated to English before inference and
// the reply translated back. Inference failure after retry yields a canned
// per-language apology; this method never fails.
func (s *Service) AskWithEmotion(ctx context.Context, message, language string) (string, string, float64) {
	code := lang.Normalize(language)

	msg := message
	if code != lang.English {
		msg = s.translator.Translate(ctx, msg, code, lang.English)
	}

	reply, err := s.chatWithRetry(ctx, instruction(code), msg, s.cfg.MaxTokens)
	if err != nil {
		s.log.Errorf("All inference attempts failed: %v", err)
		metrics.DialogueFallbacks.Inc()
		return Apology(code), emotion.Neutral, emotion.DefaultIntensity
	}

	reply = TruncateSentences(reply, 2)

	if code != lang.English {
		reply = s.translator.Translate(ctx, reply, lang.English, code)
	}

	label, intensity := emotion.FromReply(reply)
	return reply, label, intensity
}

// Describe asks the runtime for a one-sentence English description of a
// camera scene. Used by the vision worker; unlike AskWithEmotion it reports
// failure so the caller can fall back to its own composed description.
func (s *Service) Describe(ctx context.Context, scene string) (string, error) {
	sys := "Respond in English. Be very brief (1 sentence)."
	reply, err := s.chatWithRetry(ctx, sys, "Describe this scene: "+scene, 40)
	if err != nil {
		return "", err
	}
	return TruncateSentences(reply, 1), nil
}

func (s *Service) chatWithRetry(ctx context.Context, system, user string, maxTokens int) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			s.log.Infof("Retrying inference (attempt %d)", attempt+1)
			metrics.DialogueCalls.WithLabelValues(s.provider.Model(), "retry").Inc()
			s.sleep(ctx, s.cfg.RetryDelay)
		}

		start := time.Now()
		resp, err := s.provider.Chat(ctx, ai.ChatRequest{
			Messages: []ai.Message{
				{Role: ai.RoleSystem, Content: system},
				{Role: ai.RoleUser, Content: user},
			},
			Temperature: s.cfg.Temperature,
			MaxTokens:   maxTokens,
			TopK:        s.cfg.TopK,
			TopP:        s.cfg.TopP,
		})
		metrics.RecordDialogueCall(s.provider.Model(), time.Since(start), err)

		if err != nil {
			s.log.Warnf("Inference attempt %d failed: %v", attempt+1, err)
			lastErr = err
			continue
		}

		return resp.Content, nil
	}

	return "", lastErr
}

// TruncateSentences keeps at most max sentences, splitting on Latin
// terminators and the Devanagari danda.
func TruncateSentences(text string, max int) string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '।' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	if len(sentences) <= max {
		return strings.TrimSpace(text)
	}
	return strings.Join(sentences[:max], " ")
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
