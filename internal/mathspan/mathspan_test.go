package mathspan

import (
	"reflect"
	"testing"
)

func TestFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "single span",
			text: "solve $x^2$ now",
			want: []Span{{Start: 6, End: 11, Latex: "x^2"}},
		},
		{
			name: "two spans",
			text: "$a$ plus $b$",
			want: []Span{
				{Start: 0, End: 3, Latex: "a"},
				{Start: 9, End: 12, Latex: "b"},
			},
		},
		{
			name: "no delimiters",
			text: "plain sentence",
			want: nil,
		},
		{
			name: "unmatched trailing delimiter",
			text: "price is $5",
			want: nil,
		},
		{
			name: "empty span skipped",
			text: "weird $$ marker then $x$",
			want: []Span{{Start: 21, End: 24, Latex: "x"}},
		},
		{
			name: "span at end",
			text: "area: $\\pi r^2$",
			want: []Span{{Start: 6, End: 15, Latex: "\\pi r^2"}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Find(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindOffsetsSliceBack(t *testing.T) {
	t.Parallel()

	text := "the identity $e^{i\\pi}+1=0$ holds"
	spans := Find(text)
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if text[s.Start:s.End] != "$e^{i\\pi}+1=0$" {
		t.Errorf("Offsets do not bracket the delimited run: %q", text[s.Start:s.End])
	}
	if s.Latex != "e^{i\\pi}+1=0" {
		t.Errorf("Latex = %q", s.Latex)
	}
}
