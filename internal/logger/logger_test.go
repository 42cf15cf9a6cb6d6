package logger

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "a long prompt",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "short",
			limit:  10,
			expect: "short",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "you are a strict hr recruiter",
			limit:  7,
			expect: "you are...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  padded  ",
			limit:  20,
			expect: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
