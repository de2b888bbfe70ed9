package dialogue

import "strings"

// gesture keyword tables, checked in order. Matching runs against the
// original (untranslated) user input, so each set carries a few common
// Indian-language forms alongside English.
var gestureChecks = []struct {
	gesture string
	words   []string
}{
	{"wave", []string{"hi", "hello", "hey", "नमस्ते", "வணக்கம்", "నమస్కారం"}},
	{"nod", []string{"yes", "yeah", "हां", "ஆம்", "అవును"}},
	{"shake_head", []string{"no", "nope", "नहीं", "இல்லை", "కాదు"}},
	{"gratitude", []string{"thank", "thanks", "धन्यवाद", "நன்றி", "ధన్యవాదాలు"}},
	{"thinking", []string{"?", "what", "how", "why", "क्या", "என்ன", "ఏమిటి"}},
}

// DetectGesture maps user input to an avatar gesture cue.
func DetectGesture(text string) string {
	lower := strings.ToLower(text)

	for _, check := range gestureChecks {
		for _, w := range check.words {
			if strings.Contains(lower, w) {
				return check.gesture
			}
		}
	}
	return "talk"
}
