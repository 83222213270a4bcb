package domain

import "testing"

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"34 abc 123", "34ABC123"},
		{"34ABC123", "34ABC123"},
		{"  06 xy 4567 ", "06XY4567"},
		{"35\tab\n12", "35AB12"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := NormalizePlate(tt.input)
		if got != tt.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsBlankPlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"plate", "34ABC123", false},
		{"padded plate", " 34ABC123 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlankPlate(tt.input); got != tt.want {
				t.Errorf("IsBlankPlate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
