// Package typeset renders math markup by shelling out to an external
// typesetting tool. Failures never propagate: invalid markup degrades to a
// plain italic rendition of the raw string.
package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/nithin01010/AI-Teacher/internal/metrics"
)

// ErrUnavailable is returned when no typesetting binary is configured.
var ErrUnavailable = errors.New("typeset: no renderer binary configured")

// Renderer invokes an external typesetting CLI (KaTeX-style: markup on
// stdin, rendered SVG/HTML on stdout). No results are cached.
type Renderer struct {
	bin     string
	args    []string
	timeout time.Duration
}

// New creates a renderer for the given binary. An empty binary yields a
// renderer whose every call falls back to plain text.
func New(bin string, args ...string) *Renderer {
	return &Renderer{bin: bin, args: args, timeout: 10 * time.Second}
}

// Available reports whether a typesetting binary is configured.
func (r *Renderer) Available() bool {
	return r != nil && r.bin != ""
}

// Render typesets one markup string. The error carries the tool's stderr.
func (r *Renderer) Render(ctx context.Context, latex string) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(latex) == "" {
		return "", errors.New("typeset: empty markup")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.bin, r.args...)
	cmd.Stdin = strings.NewReader(latex)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.ObserveTypeset("failed", time.Since(start))
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("typeset: %s", msg)
	}
	metrics.ObserveTypeset("success", time.Since(start))
	return stdout.String(), nil
}

// Result is the outcome of a best-effort typesetting attempt.
type Result struct {
	Latex    string `json:"latex"`
	Markup   string `json:"markup,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RenderOrFallback typesets markup, degrading to a plain-text fallback on
// any failure. It never returns an error to the caller.
func (r *Renderer) RenderOrFallback(ctx context.Context, latex string) Result {
	markup, err := r.Render(ctx, latex)
	if err != nil {
		return Result{Latex: latex, Fallback: true, Error: err.Error()}
	}
	return Result{Latex: latex, Markup: markup}
}
