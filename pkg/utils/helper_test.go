package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeSeats(t *testing.T) {
	tests := []struct {
		name  string
		seats []string
		want  []string
	}{
		{"upper-cases labels", []string{"a1", "b12"}, []string{"A1", "B12"}},
		{"trims whitespace", []string{" A1 ", "A2"}, []string{"A1", "A2"}},
		{"dedupes preserving order", []string{"A2", "a1", "A2", "A1"}, []string{"A2", "A1"}},
		{"drops empty labels", []string{"", "  ", "A1"}, []string{"A1"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSeats(tt.seats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeSeats(%v) = %v, want %v", tt.seats, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
	}{
		{"7", 1, 7},
		{"", 1, 1},
		{"abc", 10, 10},
		{"-3", 1, 1},
		{"0", 5, 5},
	}

	for _, tt := range tests {
		if got := ParseInt(tt.in, tt.fallback); got != tt.want {
			t.Errorf("ParseInt(%q, %d) = %d, want %d", tt.in, tt.fallback, got, tt.want)
		}
	}
}
