package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "other file is ignored",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_LenEmpty(t *testing.T) {
	s := Span{File: 0, Start: 4, End: 4}
	if !s.Empty() {
		t.Errorf("Expected %v to be empty", s)
	}
	s.End = 9
	if s.Empty() || s.Len() != 5 {
		t.Errorf("Expected non-empty span of length 5, got %d", s.Len())
	}
	if got := s.String(); got != "0:4-9" {
		t.Errorf("Expected 0:4-9, got %q", got)
	}
}
