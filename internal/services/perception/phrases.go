package perception

// Direction and distance buckets for a detected object.
const (
	DirectionLeft  = "left"
	DirectionAhead = "ahead"
	DirectionRight = "right"

	DistanceClose = "close"
	DistanceFar   = "far"
)

// phrases holds the localized fragments used to compose scene descriptions
// and render position descriptors.
var phrases = map[string]map[string]string{
	"en": {
		"clear": "Path is clear.",
		"see":   "I see",
		"ahead": "ahead",
		"left":  "on your left",
		"right": "on your right",
		"close": "very close",
		"far":   "far",
	},
	"hi": {
		"clear": "रास्ता साफ है।",
		"see":   "मुझे दिख रहा है",
		"ahead": "सामने",
		"left":  "बाईं ओर",
		"right": "दाईं ओर",
		"close": "बहुत नजदीक",
		"far":   "दूर",
	},
	"ta": {
		"clear": "பாதை தெளிவாக உள்ளது.",
		"see":   "நான் பார்க்கிறேன்",
		"ahead": "முன்னால்",
		"left":  "இடதுபுறம்",
		"right": "வலதுபுறம்",
		"close": "மிக நெருக்கமாக",
		"far":   "தூரம்",
	},
	"te": {
		"clear": "దారి క్లియర్ గా ఉంది.",
		"see":   "నాకు కనిపిస్తోంది",
		"ahead": "ముందు",
		"left":  "ఎడమవైపు",
		"right": "కుడివైపు",
		"close": "చాలా దగ్గరగా",
		"far":   "దూరంగా",
	},
	"kn": {
		"clear": "ದಾರಿ ಸ್ಪಷ್ಟವಾಗಿದೆ.",
		"see":   "ನಾನು ನೋಡುತ್ತಿದ್ದೇನೆ",
		"ahead": "ಮುಂದೆ",
		"left":  "ಎಡಕ್ಕೆ",
		"right": "ಬಲಕ್ಕೆ",
		"close": "ತುಂಬಾ ಹತ್ತಿರ",
		"far":   "ದೂರ",
	},
	"ml": {
		"clear": "വഴി വ്യക്തമാണ്.",
		"see":   "ഞാൻ കാണുന്നു",
		"ahead": "മുന്നിൽ",
		"left":  "ഇടതുവശത്ത്",
		"right": "വലതുവശത്ത്",
		"close": "വളരെ അടുത്ത്",
		"far":   "ദൂരെ",
	},
}

// phraseTable returns the phrase set for code, falling back to English.
func phraseTable(code string) map[string]string {
	if p, ok := phrases[code]; ok {
		return p
	}
	return phrases["en"]
}

// ClearPhrase is the localized "nothing detected" message.
func ClearPhrase(code string) string {
	return phraseTable(code)["clear"]
}

// Phrase renders a bucket keyword in the target language. Unknown keys pass
// through unchanged.
func Phrase(code, key string) string {
	if v, ok := phraseTable(code)[key]; ok {
		return v
	}
	return key
}
