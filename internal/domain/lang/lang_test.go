package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"regional hindi", "hi-IN", "hi"},
		{"bare hindi", "hi", "hi"},
		{"regional english", "en-US", "en"},
		{"auto passes through", "auto", "auto"},
		{"empty defaults to english", "", "en"},
		{"unsupported keeps base", "fr-FR", "fr"},
		{"unsupported bare", "de", "de"},
		{"unknown regional variant of supported", "ta-LK", "ta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.tag))
		})
	}
}

func TestSupported(t *testing.T) {
	for _, code := range Codes() {
		assert.True(t, Supported(code), code)
	}
	assert.False(t, Supported("fr"))
	assert.False(t, Supported("auto"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Hindi", Name("hi"))
	assert.Equal(t, "Malayalam", Name("ml"))
	assert.Equal(t, "xx", Name("xx"))
}
