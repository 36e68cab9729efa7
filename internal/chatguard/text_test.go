package chatguard

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Normal text",
			input:    "Hello World",
			expected: "Hello World",
		},
		{
			name:     "Cyrillic Homoglyph",
			input:    "Sеcret", // Cyrillic 'е' (U+0435)
			expected: "Secret",
		},
		{
			name:     "Fullwidth",
			input:    "Ｈｅｌｌｏ",
			expected: "Hello",
		},
		{
			name:     "Control chars",
			input:    "Hello​World", // Zero width space
			expected: "HelloWorld",
		},
		{
			name:     "Pure ASCII - fast path",
			input:    "Hello World 123!@#",
			expected: "Hello World 123!@#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeText(tt.input)
			if got != tt.expected {
				t.Fatalf("normalizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsASCIIOnly(t *testing.T) {
	if !isASCIIOnly("plain ascii 123") {
		t.Fatalf("expected ascii-only true")
	}
	if isASCIIOnly("한글 포함") {
		t.Fatalf("expected ascii-only false")
	}
}

func TestRulepackParseRejectsUnknownType(t *testing.T) {
	data := []byte("version: 1\nrules:\n  - id: x\n    type: nope\n    weight: 1.0\n")
	if _, err := parseRulepack(data, nil); err == nil {
		t.Fatalf("expected unknown rule type error")
	}
}
