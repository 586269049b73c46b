package feed

import "testing"

func TestNormalize_StripsTrackingParams(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "utm parameters removed",
			input:    "https://example.com/news/story?utm_source=rss&utm_medium=feed&utm_campaign=daily",
			expected: "https://example.com/news/story",
		},
		{
			name:     "click identifiers removed",
			input:    "https://example.com/x?gclid=abc123&fbclid=def456&mc_eid=789",
			expected: "https://example.com/x",
		},
		{
			name:     "mixed tracking and real params",
			input:    "https://example.com/story?id=42&utm_source=rss&fbclid=xyz",
			expected: "https://example.com/story?id=42",
		},
		{
			name:     "uppercase utm prefix removed",
			input:    "https://example.com/story?UTM_Source=rss",
			expected: "https://example.com/story",
		},
		{
			name:     "trailing slash trimmed",
			input:    "https://example.com/news/story/",
			expected: "https://example.com/news/story",
		},
		{
			name:     "trailing slash and tracking combined",
			input:    "https://a.com/x/?utm_source=y&fbclid=z",
			expected: "https://a.com/x",
		},
		{
			name:     "root path slash preserved",
			input:    "https://example.com/",
			expected: "https://example.com/",
		},
		{
			name:     "clean URL unchanged",
			input:    "https://example.com/news/story?page=2",
			expected: "https://example.com/news/story?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNormalize_InvalidInputPassthrough(t *testing.T) {
	inputs := []string{
		"not a url at all",
		"/relative/path?utm_source=rss",
		"",
	}

	for _, input := range inputs {
		if result := Normalize(input); result != input {
			t.Errorf("Expected invalid input %q unchanged, got %q", input, result)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/news/story/?utm_source=rss&gclid=1",
		"https://example.com/story?id=42",
		"https://example.com/",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
