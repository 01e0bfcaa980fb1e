package command

import (
	"encoding/json"
	"testing"
)

func TestDecodeText(t *testing.T) {
	t.Parallel()

	cmd, err := Decode([]byte(`{"type":"text","text":"Hello","x":100,"y":50,"fontSize":24,"color":"#333"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	txt, ok := cmd.(Text)
	if !ok {
		t.Fatalf("Expected Text, got %T", cmd)
	}
	if txt.Text != "Hello" || txt.X != 100 || txt.Y != 50 {
		t.Errorf("Unexpected fields: %+v", txt)
	}
	if txt.FontSize != 24 || txt.Color != "#333" {
		t.Errorf("Unexpected styling: %+v", txt)
	}
}

func TestDecodeEquation(t *testing.T) {
	t.Parallel()

	cmd, err := Decode([]byte(`{"type":"equation","latex":"x^2 + y^2 = r^2","x":200,"y":300}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	eq, ok := cmd.(Equation)
	if !ok {
		t.Fatalf("Expected Equation, got %T", cmd)
	}
	if eq.Latex != "x^2 + y^2 = r^2" {
		t.Errorf("Unexpected latex: %q", eq.Latex)
	}
}

func TestDecodeLineValidity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points []float64
		valid  bool
	}{
		{"two points", []float64{0, 0, 10, 10}, true},
		{"three points", []float64{0, 0, 10, 10, 20, 0}, true},
		{"single point", []float64{5, 5}, false},
		{"odd count", []float64{0, 0, 10, 10, 20}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := Line{Points: tt.points}
			if got := l.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v for %v", got, tt.valid, tt.points)
			}
		})
	}
}

func TestDecodeMissingType(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"text":"no tag","x":1,"y":2}`)); err == nil {
		t.Error("Expected error for object without type tag")
	}
}

func TestDecodeUnknownTypePassesThrough(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"type":"sparkle","x":4}`)
	cmd, err := Decode(raw)
	if err != nil {
		t.Fatalf("Unknown type should not error: %v", err)
	}
	u, ok := cmd.(Unknown)
	if !ok {
		t.Fatalf("Expected Unknown, got %T", cmd)
	}
	if u.Type != "sparkle" {
		t.Errorf("Unexpected type: %q", u.Type)
	}

	// The original payload survives re-encoding untouched.
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != string(raw) {
		t.Errorf("Round trip changed payload: %s", out)
	}
}

func TestDecodeGroup(t *testing.T) {
	t.Parallel()

	raw := `{"type":"group","x":100,"y":50,"children":[
		{"type":"rect","x":0,"y":0,"width":40,"height":40},
		{"type":"text","text":"label","x":5,"y":20},
		{"bad":"no type"},
		{"type":"line","points":[0,0,40,40]}
	]}`
	cmd, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	g, ok := cmd.(Group)
	if !ok {
		t.Fatalf("Expected Group, got %T", cmd)
	}
	if g.X != 100 || g.Y != 50 {
		t.Errorf("Unexpected offset: (%v, %v)", g.X, g.Y)
	}
	// The child without a type tag is dropped, the rest survive.
	if len(g.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(g.Children))
	}
	if _, ok := g.Children[0].(Rect); !ok {
		t.Errorf("Expected first child Rect, got %T", g.Children[0])
	}
	if _, ok := g.Children[2].(Line); !ok {
		t.Errorf("Expected last child Line, got %T", g.Children[2])
	}
}

func TestMarshalIncludesTypeTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  Command
		want string
	}{
		{Text{Text: "hi", X: 1, Y: 2}, `{"type":"text","text":"hi","x":1,"y":2}`},
		{Rect{X: 0, Y: 0, Width: 10, Height: 20}, `{"type":"rect","x":0,"y":0,"width":10,"height":20}`},
		{Line{Points: []float64{0, 0, 5, 5}}, `{"type":"line","points":[0,0,5,5]}`},
	}
	for _, tt := range tests {
		out, err := json.Marshal(tt.cmd)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(out) != tt.want {
			t.Errorf("Marshal = %s, want %s", out, tt.want)
		}
	}
}

func TestMarshalDecodeRoundTripGroup(t *testing.T) {
	t.Parallel()

	g := Group{X: 10, Y: 20, Children: []Command{
		Equation{Latex: "e^{i\\pi}", X: 0, Y: 0},
		Rect{Width: 30, Height: 30},
	}}
	out, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	g2, ok := back.(Group)
	if !ok {
		t.Fatalf("Expected Group, got %T", back)
	}
	if len(g2.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(g2.Children))
	}
	eq, ok := g2.Children[0].(Equation)
	if !ok || eq.Latex != "e^{i\\pi}" {
		t.Errorf("Unexpected first child: %#v", g2.Children[0])
	}
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	raw := `[{"type":"text","text":"a","x":0,"y":0},{"nope":1},{"type":"rect","x":1,"y":1,"width":2,"height":2}]`
	cmds, err := DecodeList([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeList failed: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(cmds))
	}

	if _, err := DecodeList([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("Expected error for non-array payload")
	}
}
