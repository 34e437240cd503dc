package compositor

import (
	"strings"
	"testing"
)

func TestWrapCaption(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fontSize int
		maxWidth int
		want     string
	}{
		{
			name:     "empty caption",
			text:     "",
			fontSize: 30,
			maxWidth: 576,
			want:     "",
		},
		{
			name:     "short caption stays on one line",
			text:     "model A",
			fontSize: 30,
			maxWidth: 576,
			want:     "model A",
		},
		{
			name:     "long caption wraps",
			text:     "a long description of the candidate model under comparison",
			fontSize: 30,
			maxWidth: 576, // 32 chars per line at fontsize 30
			want:     "a long description of the\ncandidate model under comparison",
		},
		{
			name:     "overlong word kept whole",
			text:     "supercalifragilistic yes",
			fontSize: 30,
			maxWidth: 180, // 10 chars per line
			want:     "supercalifragilistic\nyes",
		},
		{
			name:     "whitespace collapses",
			text:     "  spaced   out  ",
			fontSize: 30,
			maxWidth: 576,
			want:     "spaced out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapCaption(tt.text, tt.fontSize, tt.maxWidth)
			if got != tt.want {
				t.Errorf("wrapCaption() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapCaption_LinesFitEstimate(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps going for a while"
	wrapped := wrapCaption(text, 30, 576)

	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 32 {
			t.Errorf("line %q exceeds 32-char estimate", line)
		}
	}
}
