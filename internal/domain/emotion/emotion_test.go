package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromReply(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		label     string
		intensity float64
	}{
		{"gratitude", "Thank you for asking", Happy, 0.8},
		{"gratitude hindi", "आपका धन्यवाद", Happy, 0.8},
		{"apology", "Sorry, I'm having trouble. Please try again.", Sad, 0.7},
		{"apology tamil", "மன்னிக்கவும், எனக்கு சிக்கல் உள்ளது.", Sad, 0.7},
		{"exclamation", "That is an incredible story", Surprised, 0.75},
		{"question", "What would you like to know", Curious, 0.7},
		{"plain statement", "The sky is blue today.", Neutral, 0.5},
		{"empty", "", Neutral, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, intensity := FromReply(tt.text)
			assert.Equal(t, tt.label, label)
			assert.Equal(t, tt.intensity, intensity)
		})
	}
}

func TestFromReply_PriorityOrder(t *testing.T) {
	// Gratitude wins over a trailing question mark.
	label, _ := FromReply("Thanks, anything else?")
	assert.Equal(t, Happy, label)
}

func TestFromScene(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
	}{
		{"clear path", "Path is clear.", Happy},
		{"obstacle warning", "Careful, an obstacle is near", Surprised},
		{"close object", "A chair is very close to you", Surprised},
		{"object presence", "I see person ahead, dog on your left.", Curious},
		{"unclassified", "Nothing of note.", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, _ := FromScene(tt.text)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestSceneAndReplyDiverge(t *testing.T) {
	// The same text can legitimately score differently per variant.
	text := "Path is clear."
	sceneLabel, _ := FromScene(text)
	replyLabel, _ := FromReply(text)
	assert.Equal(t, Happy, sceneLabel)
	assert.Equal(t, Neutral, replyLabel)
}
