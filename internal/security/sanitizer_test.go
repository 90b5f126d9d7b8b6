package security

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain text", input: "pizza night", want: "pizza night"},
		{name: "Surrounding whitespace", input: "  pizza night \n", want: "pizza night"},
		{name: "HTML stripped", input: "<b>cheap</b> <script>alert(1)</script>food", want: "cheap food"},
		{name: "Null bytes removed", input: "cafe\x00s", want: "cafes"},
		{name: "Empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_Bounded(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeString(long); len(got) != 1000 {
		t.Errorf("SanitizeString() length = %d, want 1000", len(got))
	}
}
