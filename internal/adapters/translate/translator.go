package translate

import (
	"context"
	"strings"

	"drishti/internal/domain/lang"
	"drishti/internal/metrics"
	"drishti/pkg/logger"
)

// Translator wraps an Engine with the service's fail-open policy: the
// assistant must always answer, so a failed translation yields the original
// text rather than an error. Fallbacks are counted as a metric so silent
// recovery stays observable.
type Translator struct {
	engine Engine
	log    *logger.Logger
}

// New creates a Translator. A nil engine means translation is disabled and
// every call is an identity pass-through.
func New(engine Engine) *Translator {
	return &Translator{
		engine: engine,
		log:    logger.Get().With("component", "translator"),
	}
}

// Available reports whether an engine is configured.
func (t *Translator) Available() bool {
	return t.engine != nil
}

// Translate converts text between languages, never failing.
// Fast paths return the input unchanged: disabled engine, blank text, or
// identical normalized languages (unless source is the auto wildcard).
func (t *Translator) Translate(ctx context.Context, text, source, target string) string {
	out, err := t.translate(ctx, text, source, target)
	if err != nil {
		t.log.Warnf("Translation failed, returning original text: %v", err)
		metrics.TranslationFallbacks.WithLabelValues("error").Inc()
		return text
	}
	return out
}

// TranslateStrict behaves like Translate but propagates engine failures.
// Used by the explicit translation endpoint where hard failures should
// surface to the client.
func (t *Translator) TranslateStrict(ctx context.Context, text, source, target string) (string, error) {
	return t.translate(ctx, text, source, target)
}

func (t *Translator) translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	src := lang.Normalize(source)
	tgt := lang.Normalize(target)

	if src == tgt && src != lang.Auto {
		return text, nil
	}

	if t.engine == nil {
		t.log.Debug("Translator disabled, returning original text")
		metrics.TranslationFallbacks.WithLabelValues("disabled").Inc()
		return text, nil
	}

	t.log.Debugf("Translating [%s] -> [%s]: %.50q", src, tgt, text)

	out, err := t.engine.Translate(ctx, text, src, tgt)
	if err != nil {
		metrics.TranslationCalls.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.TranslationCalls.WithLabelValues("success").Inc()
	return out, nil
}
