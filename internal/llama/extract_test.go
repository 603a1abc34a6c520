package llama

import "testing"

func TestExtractBetween(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		first string
		last  string
		want  string
	}{
		{"simple", "a [b] c", "[", "]", "b"},
		{"markers absent", "abc", "[", "]", ""},
		{"start marker only", "a [b c", "[", "]", ""},
		{"end marker only", "a b] c", "[", "]", ""},
		{"command line", "list files.: $ `ls -la`", "$ `", "`", "ls -la"},
		{"empty span", "[]", "[", "]", ""},
		{"first of several", "[a] [b]", "[", "]", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBetween(tt.s, tt.first, tt.last); got != tt.want {
				t.Errorf("ExtractBetween(%q, %q, %q) = %q, want %q", tt.s, tt.first, tt.last, got, tt.want)
			}
		})
	}
}

func TestBetweenBackticks(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want string
	}{
		{"pair", "run `ls -la` now", "ls -la"},
		{"none", "no markers", ""},
		{"single", "just ` one", ""},
		{"outermost pair", "`a` and `b`", "a` and `b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BetweenBackticks(tt.s); got != tt.want {
				t.Errorf("BetweenBackticks(%q) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}
