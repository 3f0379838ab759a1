package styles

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"zero", 0, "0:00.0"},
		{"negative clamps to zero", -3, "0:00.0"},
		{"sub-second", 0.24, "0:00.2"},
		{"seconds only", 12, "0:12.0"},
		{"field recording", 237.4, "3:57.4"},
		{"rolls over to a minute", 59.97, "1:00.0"},
		{"just under an hour", 3599.9, "59:59.9"},
		{"hours", 3725.5, "1:02:05.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSeconds(tt.seconds)
			if got != tt.expected {
				t.Errorf("FormatSeconds(%v) = %q, want %q",
					tt.seconds, got, tt.expected)
			}
		})
	}
}
