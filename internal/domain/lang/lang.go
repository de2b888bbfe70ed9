// Package lang handles language tag normalization for the assistant.
//
// Clients send BCP-47-style tags ("hi-IN", "en-US"); everything downstream
// works with bare ISO 639-1 codes from a fixed supported set.
package lang

import "strings"

// Auto is the wildcard source language for translation requests.
const Auto = "auto"

// English is the canonical language all dialogue inference runs in.
const English = "en"

// tagMap maps the tags the frontend emits to ISO codes.
var tagMap = map[string]string{
	"en-US": "en",
	"en":    "en",
	"hi-IN": "hi",
	"hi":    "hi",
	"ta-IN": "ta",
	"ta":    "ta",
	"te-IN": "te",
	"te":    "te",
	"kn-IN": "kn",
	"kn":    "kn",
	"ml-IN": "ml",
	"ml":    "ml",
	"auto":  "auto",
}

// names give English display names, used when composing translation prompts.
var names = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"ml": "Malayalam",
}

// Normalize reduces a language tag to its ISO code.
// Unsupported tags fall back to the truncated base tag unchanged, so the
// translation layer can still attempt a best-effort pass-through.
func Normalize(tag string) string {
	if tag == "" {
		return English
	}
	if code, ok := tagMap[tag]; ok {
		return code
	}
	base := tag
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		base = tag[:i]
	}
	if code, ok := tagMap[base]; ok {
		return code
	}
	return base
}

// Supported reports whether code is one of the fixed supported languages.
func Supported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name returns the English display name for a supported code, or the code
// itself when unknown.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Codes returns the supported language codes.
func Codes() []string {
	return []string{"en", "hi", "ta", "te", "kn", "ml"}
}
