// Package interp translates drawing commands into flat drawable descriptors
// with absolute canvas positions, independent of any concrete rendering API.
package interp

import (
	"strings"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/mathspan"
)

// Op identifies the drawable variant.
type Op string

const (
	OpText     Op = "text"
	OpEquation Op = "equation"
	OpPolyline Op = "polyline"
	OpRect     Op = "rect"
)

// DefaultFontSize applies when a command omits fontSize.
const DefaultFontSize = 20

// widthFactor approximates the advance of one character as a fraction of the
// font size. Layout only needs monotonic left-to-right ordering, not
// pixel-exact metrics.
const widthFactor = 0.6

// Drawable describes what and where to render.
type Drawable struct {
	Op          Op        `json:"op"`
	Text        string    `json:"text,omitempty"`
	Latex       string    `json:"latex,omitempty"`
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Color       string    `json:"color,omitempty"`
	Italic      bool      `json:"italic,omitempty"`
	Points      []float64 `json:"points,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Height      float64   `json:"height,omitempty"`
}

// Interpret maps commands to drawables, preserving input order. Groups are
// flattened with their children offset by the group origin; unrecognized
// command types contribute nothing.
func Interpret(cmds []command.Command) []Drawable {
	return interpret(cmds, 0, 0)
}

func interpret(cmds []command.Command, dx, dy float64) []Drawable {
	var out []Drawable
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case command.Text:
			out = append(out, interpretText(c, dx, dy)...)
		case command.Equation:
			out = append(out, Drawable{
				Op:       OpEquation,
				Latex:    c.Latex,
				X:        c.X + dx,
				Y:        c.Y + dy,
				FontSize: fontSize(c.FontSize),
			})
		case command.Line:
			if !c.Valid() {
				continue
			}
			pts := make([]float64, len(c.Points))
			for i, p := range c.Points {
				if i%2 == 0 {
					pts[i] = p + dx
				} else {
					pts[i] = p + dy
				}
			}
			out = append(out, Drawable{
				Op:          OpPolyline,
				Points:      pts,
				StrokeWidth: c.StrokeWidth,
			})
		case command.Rect:
			out = append(out, Drawable{
				Op:     OpRect,
				X:      c.X + dx,
				Y:      c.Y + dy,
				Width:  c.Width,
				Height: c.Height,
			})
		case command.Group:
			out = append(out, interpret(c.Children, dx+c.X, dy+c.Y)...)
		}
	}
	return out
}

// interpretText partitions mixed text into alternating plain/math segments
// laid out left to right from the command origin. Math segments become
// equation drawables for the typesetter.
func interpretText(c command.Text, dx, dy float64) []Drawable {
	size := fontSize(c.FontSize)
	spans := mathspan.Find(c.Text)
	if len(spans) == 0 {
		return []Drawable{{
			Op:       OpText,
			Text:     c.Text,
			X:        c.X + dx,
			Y:        c.Y + dy,
			FontSize: size,
			Color:    c.Color,
		}}
	}

	var out []Drawable
	cursor := c.X + dx
	y := c.Y + dy
	pos := 0
	emitPlain := func(s string) {
		if s == "" {
			return
		}
		out = append(out, Drawable{
			Op:       OpText,
			Text:     s,
			X:        cursor,
			Y:        y,
			FontSize: size,
			Color:    c.Color,
		})
		cursor += approxWidth(s, size)
	}
	for _, span := range spans {
		emitPlain(c.Text[pos:span.Start])
		out = append(out, Drawable{
			Op:       OpEquation,
			Latex:    span.Latex,
			X:        cursor,
			Y:        y,
			FontSize: size,
		})
		cursor += approxWidth(span.Latex, size)
		pos = span.End
	}
	emitPlain(c.Text[pos:])
	return out
}

// Narration extracts the spoken text of a command sequence, in order.
// Math delimiters are stripped so the synthesizer reads the markup content.
func Narration(cmds []command.Command) string {
	var parts []string
	collect(cmds, &parts)
	return strings.Join(parts, " ")
}

func collect(cmds []command.Command, parts *[]string) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case command.Text:
			t := strings.TrimSpace(strings.ReplaceAll(c.Text, mathspan.Delimiter, ""))
			if t != "" {
				*parts = append(*parts, t)
			}
		case command.Group:
			collect(c.Children, parts)
		}
	}
}

func approxWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * widthFactor
}

func fontSize(v float64) float64 {
	if v <= 0 {
		return DefaultFontSize
	}
	return v
}
