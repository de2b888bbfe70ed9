// Package emotion infers a coarse emotion label from reply text.
//
// Two deliberately separate heuristics live here: FromReply scores
// conversational replies, FromScene scores camera-scene descriptions. The
// signal sources differ (a scene description mentioning obstacles is not
// sad), so they are kept as named variants rather than one shared function.
package emotion

import "strings"

// Labels used across the service.
const (
	Neutral   = "neutral"
	Happy     = "happy"
	Sad       = "sad"
	Surprised = "surprised"
	Curious   = "curious"
)

// DefaultIntensity is returned with the neutral label.
const DefaultIntensity = 0.5

// keyword sets are small and multilingual; matching is case-insensitive
// substring search, first category wins.
var (
	happyWords = []string{
		"thank", "thanks", "glad", "great", "wonderful", "happy", "welcome",
		"धन्यवाद", "खुश", "நன்றி", "மகிழ்ச்சி", "ధన్యవాదాలు", "ಧನ್ಯವಾದ", "നന്ദി",
	}
	sadWords = []string{
		"sorry", "apolog", "sad", "unfortunately", "trouble",
		"क्षमा", "दुख", "மன்னிக்க", "క్షమించండి", "ಕ್ಷಮಿಸಿ", "ക്ഷമിക്കണം",
	}
	surprisedWords = []string{
		"wow", "amazing", "incredible", "surprise", "!",
		"अरे", "வாவ்",
	}
	curiousWords = []string{
		"?", "what", "how", "why", "tell me", "wonder",
		"क्या", "कैसे", "என்ன", "ఏమిటి", "ಏನು", "എന്ത്",
	}
)

// FromReply derives (label, intensity) from a conversational reply in the
// user's language. Deterministic, no external calls.
func FromReply(text string) (string, float64) {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, happyWords):
		return Happy, 0.8
	case containsAny(lower, sadWords):
		return Sad, 0.7
	case containsAny(lower, surprisedWords):
		return Surprised, 0.75
	case containsAny(lower, curiousWords):
		return Curious, 0.7
	default:
		return Neutral, DefaultIntensity
	}
}

// FromScene derives (label, intensity) from a vision-derived description.
// A clear path reads as happy, nearby obstacles as surprised, and any
// detected object as curious.
func FromScene(text string) (string, float64) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "clear") || strings.Contains(lower, "safe"):
		return Happy, 0.8
	case strings.Contains(lower, "obstacle") || strings.Contains(lower, "careful") ||
		strings.Contains(lower, "very close"):
		return Surprised, 0.75
	case strings.Contains(lower, "i see") || strings.Contains(lower, "there is") ||
		strings.Contains(lower, "there are"):
		return Curious, 0.7
	default:
		return Neutral, DefaultIntensity
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
