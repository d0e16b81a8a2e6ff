package extract

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"tabs", "a\t\tb", "a b"},
		{"runs of spaces", "a    b", "a b"},
		{"separator noise", "STORE\n-----\nTotal 5.00", "STORE\n\nTotal 5.00"},
		{"underscore noise", "STORE\n_____\nTotal 5.00", "STORE\n\nTotal 5.00"},
		{"blank line collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing space", "line one   \nline two", "line one\nline two"},
		{"outer trim", "  \n hello \n  ", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextKeepsDigits(t *testing.T) {
	// Leading-zero values must survive normalization untouched.
	in := "Tax 0.82\nQty 05"
	if got := NormalizeText(in); got != in {
		t.Errorf("NormalizeText(%q) = %q, want unchanged", in, got)
	}
}

func TestHasText(t *testing.T) {
	if hasText("   \n\t ") {
		t.Error("whitespace-only input should report no text")
	}
	if !hasText("  x  ") {
		t.Error("expected text")
	}
}

func TestNonWhitespaceLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n\t", 0},
		{"abc", 3},
		{" a b ", 2},
		{"Итого", 5},
	}
	for _, tt := range tests {
		if got := nonWhitespaceLen(tt.in); got != tt.want {
			t.Errorf("nonWhitespaceLen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHeuristicConfidence(t *testing.T) {
	base := heuristicConfidence("short noise")
	receipt := heuristicConfidence("STORE\n12/11/2025\nTOTAL: $15.65")
	if receipt <= base {
		t.Errorf("receipt-like text %v should outscore noise %v", receipt, base)
	}

	if got := heuristicConfidence(""); got != 0.2 {
		t.Errorf("empty text confidence = %v, want base 0.2", got)
	}

	long := heuristicConfidence("12/11/2025 $15.65 usd " + string(make([]byte, 150)))
	if long > 1.0 {
		t.Errorf("confidence %v exceeds 1.0", long)
	}
}
