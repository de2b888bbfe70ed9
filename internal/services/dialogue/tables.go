package dialogue

// Per-language system instructions. The inference runtime is always invoked
// in English; the table keeps one brevity-enforcing template per supported
// language so the reply reads naturally once translated back.
var instructions = map[string]string{
	"en": "You are a helpful AI assistant. Respond in English. Be conversational, friendly and natural. Keep answer very brief (1-2 sentences max).",
	"hi": "You are a helpful AI assistant. Respond in Hindi (हिन्दी में). Be conversational and natural. Keep answer very brief (1-2 sentences max).",
	"ta": "You are a helpful AI assistant. Respond in Tamil (தமிழில்). Be conversational and natural. Keep answer very brief (1-2 sentences max).",
	"te": "You are a helpful AI assistant. Respond in Telugu (తెలుగులో). Be conversational and natural. Keep answer very brief (1-2 sentences max).",
	"kn": "You are a helpful AI assistant. Respond in Kannada (ಕನ್ನಡದಲ್ಲಿ). Be conversational and natural. Keep answer very brief (1-2 sentences max).",
	"ml": "You are a helpful AI assistant. Respond in Malayalam (മലയാളത്തിൽ). Be conversational and natural. Keep answer very brief (1-2 sentences max).",
}

// Canned apologies returned when both inference attempts fail.
var apologies = map[string]string{
	"en": "Sorry, I'm having trouble. Please try again.",
	"hi": "क्षमा करें, मुझे समस्या हो रही है। कृपया पुनः प्रयास करें।",
	"ta": "மன்னிக்கவும், எனக்கு சிக்கல் உள்ளது. மீண்டும் முயற்சிக்கவும்.",
	"te": "క్షమించండి, నాకు సమస్య ఉంది. మళ్లీ ప్రయత్నించండి.",
	"kn": "ಕ್ಷಮಿಸಿ, ನನಗೆ ಸಮಸ್ಯೆ ಇದೆ. ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
	"ml": "ക്ഷമിക്കണം, എനിക്ക് പ്രശ്നമുണ്ട്. വീണ്ടും ശ്രമിക്കുക.",
}

func instruction(code string) string {
	if s, ok := instructions[code]; ok {
		return s
	}
	return instructions["en"]
}

// Apology returns the canned per-language apology string.
func Apology(code string) string {
	if s, ok := apologies[code]; ok {
		return s
	}
	return apologies["en"]
}
