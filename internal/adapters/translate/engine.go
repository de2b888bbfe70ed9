package translate

import "context"

// Engine is the narrow contract over an external translation capability.
type Engine interface {
	// Translate converts text from source to target language.
	// source may be "auto" to let the backend detect the language.
	Translate(ctx context.Context, text, source, target string) (string, error)
}
