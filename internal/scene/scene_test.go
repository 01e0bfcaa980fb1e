package scene

import (
	"context"
	"testing"
	"time"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/interp"
	"github.com/nithin01010/AI-Teacher/internal/typeset"
)

func TestBeginInvalidatesOldGeneration(t *testing.T) {
	t.Parallel()

	s := NewSession()
	gen1 := s.Begin("first prompt")
	if !s.Append(gen1, command.Text{Text: "a"}) {
		t.Fatal("Append to current generation failed")
	}

	gen2 := s.Begin("second prompt")
	if gen2 <= gen1 {
		t.Fatalf("Generation did not advance: %d -> %d", gen1, gen2)
	}
	if s.Append(gen1, command.Text{Text: "stale"}) {
		t.Error("Append with a stale generation must be rejected")
	}
	if got := len(s.Commands()); got != 0 {
		t.Errorf("New generation should start empty, has %d commands", got)
	}
}

func TestStaleTypesetResultDropped(t *testing.T) {
	t.Parallel()

	s := NewSession()
	gen1 := s.Begin("prompt")
	s.Append(gen1, command.Equation{Latex: "x^2", X: 0, Y: 0})

	gen2 := s.Begin("newer prompt")
	s.Append(gen2, command.Equation{Latex: "y^2", X: 0, Y: 0})

	// A completion from the abandoned generation arrives late.
	if s.ApplyTypeset(gen1, 0, typeset.Result{Latex: "x^2", Markup: "<old>"}) {
		t.Error("Stale typeset result must be rejected")
	}

	snap := s.Snapshot()
	if len(snap.Drawables) != 1 {
		t.Fatalf("Expected 1 drawable, got %d", len(snap.Drawables))
	}
	if snap.Drawables[0].State != EquationPending {
		t.Errorf("Equation state = %q, want pending", snap.Drawables[0].State)
	}
}

func TestSnapshotEquationStates(t *testing.T) {
	t.Parallel()

	s := NewSession()
	gen := s.Begin("prompt")
	s.Append(gen, command.Equation{Latex: "a", X: 0, Y: 0})
	s.Append(gen, command.Equation{Latex: "b", X: 0, Y: 40})
	s.Append(gen, command.Text{Text: "plain", X: 0, Y: 80})

	s.ApplyTypeset(gen, 0, typeset.Result{Latex: "a", Markup: "<svg>a</svg>"})
	s.ApplyTypeset(gen, 1, typeset.Result{Latex: "b", Fallback: true, Error: "bad markup"})

	snap := s.Snapshot()
	if snap.Generation != gen {
		t.Errorf("Snapshot generation = %d, want %d", snap.Generation, gen)
	}
	if len(snap.Drawables) != 3 {
		t.Fatalf("Expected 3 drawables, got %d", len(snap.Drawables))
	}
	if snap.Drawables[0].State != EquationRendered || snap.Drawables[0].Markup != "<svg>a</svg>" {
		t.Errorf("First equation: %+v", snap.Drawables[0])
	}
	if snap.Drawables[1].State != EquationFailed {
		t.Errorf("Second equation state = %q, want failed", snap.Drawables[1].State)
	}
	if snap.Drawables[2].State != "" {
		t.Errorf("Plain text carries no equation state, got %q", snap.Drawables[2].State)
	}
}

func TestTypesetRendersPendingEquations(t *testing.T) {
	t.Parallel()

	s := NewSession()
	gen := s.Begin("prompt")
	s.Append(gen, command.Text{Text: "see $x^2$", X: 0, Y: 0})

	// No binary configured: every slot resolves as a fallback.
	r := typeset.New("")
	s.Typeset(context.Background(), r)

	deadline := time.After(2 * time.Second)
	for {
		snap := s.Snapshot()
		var eq *View
		for i := range snap.Drawables {
			if snap.Drawables[i].Op == interp.OpEquation {
				eq = &snap.Drawables[i]
			}
		}
		if eq == nil {
			t.Fatal("No equation drawable produced")
		}
		if eq.State == EquationFailed {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("Equation never resolved, state %q", eq.State)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestClearResetsPrompt(t *testing.T) {
	t.Parallel()

	s := NewSession()
	gen := s.Begin("something")
	s.Append(gen, command.Rect{Width: 5, Height: 5})

	cleared := s.Clear()
	if cleared <= gen {
		t.Errorf("Clear should advance the generation: %d -> %d", gen, cleared)
	}
	snap := s.Snapshot()
	if snap.Prompt != "" || len(snap.Drawables) != 0 {
		t.Errorf("Canvas not empty after clear: %+v", snap)
	}
}
