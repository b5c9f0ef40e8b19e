package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and trims",
			input: "  Test Cafe  ",
			want:  "test cafe",
		},
		{
			name:  "hebrew name unchanged",
			input: "רמי לוי שיווק השקמה",
			want:  "רמי לוי שיווק השקמה",
		},
		{
			name:  "strips punctuation to spaces",
			input: "cafe-greg, t.a!",
			want:  "cafe greg t a",
		},
		{
			name:  "strips grouped card number",
			input: "visa 1234 5678 9012 3456 tlv",
			want:  "visa tlv",
		},
		{
			name:  "strips slash date fragment",
			input: "חיוב 05/12 סופר",
			want:  "חיוב סופר",
		},
		{
			name:  "collapses whitespace runs",
			input: "super   pharm\t\tbat yam",
			want:  "super pharm bat yam",
		},
		{
			name:  "keeps plain digits",
			input: "maccabi 24",
			want:  "maccabi 24",
		},
		{
			name:  "empty maps to sentinel",
			input: "",
			want:  UnknownBusiness,
		},
		{
			name:  "symbols only map to sentinel",
			input: "!!! *** ---",
			want:  UnknownBusiness,
		},
		{
			name:  "dot separated card number stripped",
			input: "card 1234.5678.9012.3456",
			want:  "card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessName(tt.input))
		})
	}
}

func TestBusinessNameIdempotent(t *testing.T) {
	inputs := []string{
		"Test Cafe",
		"רמי לוי 1234-5678-9012-3456",
		"pango 05/12 parking!!",
		"",
		"### 42 ###",
		"card 1234.5678.9012.3456 store",
	}

	for _, input := range inputs {
		once := BusinessName(input)
		assert.Equal(t, once, BusinessName(once), "input %q", input)
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "mixed scripts",
			input: "קפה greg תל אביב",
			want:  []string{"קפה", "greg", "תל", "אביב"},
		},
		{
			name:  "single letters and digits dropped",
			input: "a 7 eleven x",
			want:  []string{"eleven"},
		},
		{
			name:  "uppercase folded",
			input: "SUPER PHARM",
			want:  []string{"super", "pharm"},
		},
		{
			name:  "nothing learnable",
			input: "1 2 3",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.input))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("קפה גרג", "קפה גרג"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))

	// Shared prefix scores proportionally.
	got := Ratio("cafe greg tlv", "cafe greg haifa")
	assert.Greater(t, got, 0.6)
	assert.Less(t, got, 1.0)

	// Symmetric.
	assert.InDelta(t, Ratio("super pharm", "super farm"), Ratio("super farm", "super pharm"), 1e-9)
}
