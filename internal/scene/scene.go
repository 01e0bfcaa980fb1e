// Package scene holds the canvas state for the current generation: an
// append-only command sequence plus asynchronously arriving equation
// typesetting results, guarded against stale completions by a monotonically
// increasing generation counter.
package scene

import (
	"context"
	"sync"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/interp"
	"github.com/nithin01010/AI-Teacher/internal/typeset"
)

// EquationState tracks the lifecycle of one equation slot.
type EquationState string

const (
	EquationPending  EquationState = "pending"
	EquationRendered EquationState = "rendered"
	EquationFailed   EquationState = "failed"
)

// View is one drawable plus, for equation slots, its typesetting state.
type View struct {
	interp.Drawable
	State  EquationState `json:"state,omitempty"`
	Markup string        `json:"markup,omitempty"`
}

// Snapshot is a point-in-time view of the canvas.
type Snapshot struct {
	Generation uint64 `json:"generation"`
	Prompt     string `json:"prompt,omitempty"`
	Drawables  []View `json:"drawables"`
}

// Session is the single-writer canvas state. Commands are only ever
// appended; a new prompt replaces the whole sequence and invalidates any
// typeset completion still in flight for the previous generation.
type Session struct {
	mu        sync.Mutex
	gen       uint64
	prompt    string
	cmds      []command.Command
	results   map[int]typeset.Result
	requested map[int]bool
}

// NewSession returns an empty session at generation zero.
func NewSession() *Session {
	return &Session{
		results:   make(map[int]typeset.Result),
		requested: make(map[int]bool),
	}
}

// Begin starts a new generation, discarding all previous state, and returns
// the new generation number for stale-result guarding.
func (s *Session) Begin(prompt string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.prompt = prompt
	s.cmds = nil
	s.results = make(map[int]typeset.Result)
	s.requested = make(map[int]bool)
	return s.gen
}

// Clear discards the canvas. Equivalent to beginning an empty generation.
func (s *Session) Clear() uint64 {
	return s.Begin("")
}

// Generation returns the current generation number.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Append adds a command to the sequence. It is a no-op when gen no longer
// matches the current generation (the stream it came from was abandoned).
func (s *Session) Append(gen uint64, cmd command.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.cmds = append(s.cmds, cmd)
	return true
}

// Commands returns a copy of the current command sequence.
func (s *Session) Commands() []command.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]command.Command, len(s.cmds))
	copy(out, s.cmds)
	return out
}

// ApplyTypeset records a typeset result for the equation drawable at slot.
// Results for an abandoned generation are dropped.
func (s *Session) ApplyTypeset(gen uint64, slot int, res typeset.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.results[slot] = res
	return true
}

// Typeset kicks off asynchronous renders for every equation drawable that
// has not been requested yet. Each completion writes to its own slot; stale
// completions after a Begin are suppressed by the generation check.
func (s *Session) Typeset(ctx context.Context, r *typeset.Renderer) {
	s.mu.Lock()
	gen := s.gen
	drawables := interp.Interpret(s.cmds)
	type pending struct {
		slot  int
		latex string
	}
	var work []pending
	for i, d := range drawables {
		if d.Op != interp.OpEquation || s.requested[i] {
			continue
		}
		s.requested[i] = true
		work = append(work, pending{slot: i, latex: d.Latex})
	}
	s.mu.Unlock()

	for _, w := range work {
		go func(slot int, latex string) {
			res := r.RenderOrFallback(ctx, latex)
			s.ApplyTypeset(gen, slot, res)
		}(w.slot, w.latex)
	}
}

// Snapshot interprets the current commands and attaches equation state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	drawables := interp.Interpret(s.cmds)
	views := make([]View, 0, len(drawables))
	for i, d := range drawables {
		v := View{Drawable: d}
		if d.Op == interp.OpEquation {
			res, ok := s.results[i]
			switch {
			case !ok:
				v.State = EquationPending
			case res.Fallback:
				v.State = EquationFailed
			default:
				v.State = EquationRendered
				v.Markup = res.Markup
			}
		}
		views = append(views, v)
	}
	return Snapshot{Generation: s.gen, Prompt: s.prompt, Drawables: views}
}
