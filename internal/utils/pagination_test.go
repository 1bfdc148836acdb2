package utils

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 20},
		{"10", 10},
		{"1", 1},
		{"100", 100},
		{"0", 20},
		{"-5", 20},
		{"101", 20},
		{"abc", 20},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.raw); got != tt.want {
			t.Errorf("ClampLimit(%q) = %d, ожидалось %d", tt.raw, got, tt.want)
		}
	}
}
