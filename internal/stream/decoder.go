// Package stream incrementally decodes drawing commands from a model output
// stream. Chunks arrive with no alignment to frame boundaries; complete
// commands are emitted as soon as they are fully buffered, never partially.
package stream

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/metrics"
)

const (
	// FramePrefix marks a server-sent-event data line.
	FramePrefix = "data:"
	// DoneSentinel terminates a frame stream.
	DoneSentinel = "[DONE]"
)

// Mode selects how the decoder recovers commands from the stream.
type Mode int

const (
	// ModeFrame expects newline-delimited "data: <json>" frames.
	ModeFrame Mode = iota
	// ModeLoose scans un-framed text for top-level {...} objects. Used when
	// the upstream model did not honor the frame contract.
	ModeLoose
)

// Decoder reassembles a chunked text stream into complete commands.
// A decoder is finite and not restartable: once the sentinel is seen or the
// source closes, it emits nothing further. Start a fresh decoder per
// generation.
type Decoder struct {
	mode Mode
	buf  strings.Builder
	done bool

	dropped int
}

// NewDecoder returns a decoder for the given recovery mode.
func NewDecoder(mode Mode) *Decoder {
	return &Decoder{mode: mode}
}

// Done reports whether the stream has terminated (sentinel seen).
func (d *Decoder) Done() bool { return d.done }

// Dropped returns the number of malformed frames discarded so far.
func (d *Decoder) Dropped() int { return d.dropped }

// Feed appends a chunk and returns every command completed by it, in order.
func (d *Decoder) Feed(chunk string) []command.Command {
	if d.done {
		return nil
	}
	d.buf.WriteString(chunk)

	switch d.mode {
	case ModeLoose:
		return d.scanLoose()
	default:
		return d.scanFrames(false)
	}
}

// Flush signals the source has closed and drains whatever remains in the
// buffer (a final unterminated line, or a trailing loose object).
func (d *Decoder) Flush() []command.Command {
	if d.done {
		return nil
	}
	var cmds []command.Command
	if d.mode == ModeLoose {
		cmds = d.scanLoose()
	} else {
		cmds = d.scanFrames(true)
	}
	d.done = true
	return cmds
}

func (d *Decoder) scanFrames(final bool) []command.Command {
	text := d.buf.String()
	var lines []string
	if final {
		lines = strings.Split(text, "\n")
		d.buf.Reset()
	} else {
		idx := strings.LastIndexByte(text, '\n')
		if idx < 0 {
			return nil
		}
		lines = strings.Split(text[:idx], "\n")
		d.buf.Reset()
		d.buf.WriteString(text[idx+1:])
	}

	var cmds []command.Command
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, FramePrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(FramePrefix):])
		if payload == DoneSentinel {
			d.done = true
			return cmds
		}
		if !strings.HasPrefix(payload, "{") {
			// Bare strings and other non-object payloads are ignored.
			continue
		}
		cmd, err := command.Decode([]byte(payload))
		if err != nil {
			d.dropped++
			metrics.ObserveDroppedFrame()
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// scanLoose extracts complete top-level {...} objects from the buffer,
// keeping any trailing incomplete object for the next chunk. The scanner
// tracks string literals and brace depth, so nested children stay inside
// their enclosing object rather than being extracted twice.
func (d *Decoder) scanLoose() []command.Command {
	text := d.buf.String()

	var (
		cmds     []command.Command
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				raw := text[start : i+1]
				start = -1
				cmd, err := command.Decode([]byte(raw))
				if err != nil {
					d.dropped++
					metrics.ObserveDroppedFrame()
					continue
				}
				cmds = append(cmds, cmd)
			}
		}
	}

	d.buf.Reset()
	if depth > 0 && start >= 0 {
		// Retain the incomplete object; everything before it is noise.
		d.buf.WriteString(text[start:])
	}
	return cmds
}

// Extract runs a one-shot loose scan over a complete text blob. Used when a
// whole model reply arrived un-framed and must be mined for commands.
func Extract(blob string) []command.Command {
	d := NewDecoder(ModeLoose)
	cmds := d.Feed(blob)
	return append(cmds, d.Flush()...)
}

// Decode reads frames from r until the sentinel, EOF, or context
// cancellation, invoking fn for each command. Returning false from fn stops
// the stream early.
func Decode(ctx context.Context, r io.Reader, fn func(command.Command) bool) error {
	d := NewDecoder(ModeFrame)
	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := reader.Read(buf)
		if n > 0 {
			for _, cmd := range d.Feed(string(buf[:n])) {
				if !fn(cmd) {
					return nil
				}
			}
			if d.Done() {
				return nil
			}
		}
		if err != nil {
			for _, cmd := range d.Flush() {
				if !fn(cmd) {
					return nil
				}
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
