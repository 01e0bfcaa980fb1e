// Package command defines the drawing command schema exchanged between the
// model, the server, and rendering clients.
package command

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the command union.
type Kind string

const (
	KindText     Kind = "text"
	KindEquation Kind = "equation"
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindGroup    Kind = "group"
)

// Command is one drawing instruction emitted by the model.
type Command interface {
	Kind() Kind
}

// Text places a string at (x, y). The content may embed $...$ math spans.
type Text struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

func (Text) Kind() Kind { return KindText }

// Equation places a LaTeX expression at (x, y).
type Equation struct {
	Latex    string  `json:"latex"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize,omitempty"`
}

func (Equation) Kind() Kind { return KindEquation }

// Line is a polyline through flattened coordinate pairs [x0,y0,x1,y1,...].
type Line struct {
	Points      []float64 `json:"points"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
}

func (Line) Kind() Kind { return KindLine }

// Valid reports whether the point list describes at least one segment.
func (l Line) Valid() bool {
	return len(l.Points) >= 4 && len(l.Points)%2 == 0
}

// Rect is an axis-aligned rectangle outline.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Rect) Kind() Kind { return KindRect }

// Group positions a list of child commands relative to (x, y).
type Group struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Children []Command `json:"children"`
}

func (Group) Kind() Kind { return KindGroup }

// Unknown carries a command whose type the interpreter does not recognize.
// It is preserved so newer command types pass through without error.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (u Unknown) Kind() Kind { return Kind(u.Type) }

type envelope struct {
	Type string `json:"type"`
}

// Decode parses one JSON object into a Command, dispatching on its type tag.
// Objects without a type tag are rejected; objects with an unrecognized tag
// decode to Unknown.
func Decode(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode command: missing type tag")
	}

	switch Kind(env.Type) {
	case KindText:
		var c Text
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode text command: %w", err)
		}
		return c, nil
	case KindEquation:
		var c Equation
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode equation command: %w", err)
		}
		return c, nil
	case KindLine:
		var c Line
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode line command: %w", err)
		}
		return c, nil
	case KindRect:
		var c Rect
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode rect command: %w", err)
		}
		return c, nil
	case KindGroup:
		var g group
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("decode group command: %w", err)
		}
		out := Group{X: g.X, Y: g.Y}
		for _, child := range g.Children {
			cmd, err := Decode(child)
			if err != nil {
				// Malformed children are dropped, not fatal to the group.
				continue
			}
			out.Children = append(out.Children, cmd)
		}
		return out, nil
	default:
		return Unknown{Type: env.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// group is the wire shape of Group before children are dispatched.
type group struct {
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Children []json.RawMessage `json:"children"`
}

// MarshalJSON emits the wire form including the type tag.
func (t Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindText, alias(t)})
}

func (e Equation) MarshalJSON() ([]byte, error) {
	type alias Equation
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindEquation, alias(e)})
}

func (l Line) MarshalJSON() ([]byte, error) {
	type alias Line
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindLine, alias(l)})
}

func (r Rect) MarshalJSON() ([]byte, error) {
	type alias Rect
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindRect, alias(r)})
}

func (g Group) MarshalJSON() ([]byte, error) {
	type alias Group
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{KindGroup, alias(g)})
}

func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	return json.Marshal(envelope{Type: u.Type})
}

// DecodeList parses a JSON array of commands, dropping malformed entries.
func DecodeList(raw []byte) ([]Command, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode command list: %w", err)
	}
	cmds := make([]Command, 0, len(items))
	for _, item := range items {
		cmd, err := Decode(item)
		if err != nil {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
