package stream

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/nithin01010/AI-Teacher/internal/command"
)

const frameStream = "data: {\"type\":\"text\",\"text\":\"Pythagoras\",\"x\":100,\"y\":40}\n" +
	"data: {\"type\":\"equation\",\"latex\":\"a^2+b^2=c^2\",\"x\":100,\"y\":120}\n" +
	"data: {\"type\":\"line\",\"points\":[0,0,200,0]}\n" +
	"data: [DONE]\n"

// collect drains a decoder over the given chunking of the input.
func collect(t *testing.T, mode Mode, input string, chunkSize int) []command.Command {
	t.Helper()
	d := NewDecoder(mode)
	var cmds []command.Command
	for i := 0; i < len(input); i += chunkSize {
		end := i + chunkSize
		if end > len(input) {
			end = len(input)
		}
		cmds = append(cmds, d.Feed(input[i:end])...)
	}
	return append(cmds, d.Flush()...)
}

func TestFrameDecoding(t *testing.T) {
	t.Parallel()

	cmds := collect(t, ModeFrame, frameStream, len(frameStream))
	if len(cmds) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(cmds))
	}
	if _, ok := cmds[0].(command.Text); !ok {
		t.Errorf("Expected Text first, got %T", cmds[0])
	}
	if _, ok := cmds[1].(command.Equation); !ok {
		t.Errorf("Expected Equation second, got %T", cmds[1])
	}
}

func TestChunkingDoesNotChangeOutput(t *testing.T) {
	t.Parallel()

	whole := collect(t, ModeFrame, frameStream, len(frameStream))
	for _, size := range []int{1, 2, 3, 7, 16, 64} {
		chunked := collect(t, ModeFrame, frameStream, size)
		if !reflect.DeepEqual(whole, chunked) {
			t.Errorf("Chunk size %d changed output: got %d commands, want %d", size, len(chunked), len(whole))
		}
	}
}

func TestFramePrefixRequired(t *testing.T) {
	t.Parallel()

	input := "{\"type\":\"text\",\"text\":\"bare\",\"x\":0,\"y\":0}\n" +
		"noise line\n" +
		"data: {\"type\":\"rect\",\"x\":1,\"y\":1,\"width\":2,\"height\":2}\n"
	cmds := collect(t, ModeFrame, input, len(input))
	if len(cmds) != 1 {
		t.Fatalf("Expected only the prefixed frame, got %d commands", len(cmds))
	}
	if _, ok := cmds[0].(command.Rect); !ok {
		t.Errorf("Expected Rect, got %T", cmds[0])
	}
}

func TestDoneSentinelStopsDecoding(t *testing.T) {
	t.Parallel()

	d := NewDecoder(ModeFrame)
	input := "data: [DONE]\n" +
		"data: {\"type\":\"text\",\"text\":\"after\",\"x\":0,\"y\":0}\n"
	cmds := d.Feed(input)
	if len(cmds) != 0 {
		t.Fatalf("Sentinel must not produce commands, got %d", len(cmds))
	}
	if !d.Done() {
		t.Error("Decoder should report done after sentinel")
	}
	if got := d.Feed("data: {\"type\":\"rect\",\"x\":0,\"y\":0,\"width\":1,\"height\":1}\n"); len(got) != 0 {
		t.Error("Feed after sentinel must emit nothing")
	}
}

func TestMalformedFramesCounted(t *testing.T) {
	t.Parallel()

	d := NewDecoder(ModeFrame)
	input := "data: {\"type\":\"text\",broken\n" +
		"data: {\"type\":\"text\",\"text\":\"ok\",\"x\":0,\"y\":0}\n"
	cmds := d.Feed(input)
	if len(cmds) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(cmds))
	}
	if d.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", d.Dropped())
	}
}

func TestFlushDrainsUnterminatedLine(t *testing.T) {
	t.Parallel()

	d := NewDecoder(ModeFrame)
	if got := d.Feed("data: {\"type\":\"text\",\"text\":\"tail\",\"x\":0,\"y\":0}"); len(got) != 0 {
		t.Fatalf("Unterminated line emitted early: %d commands", len(got))
	}
	cmds := d.Flush()
	if len(cmds) != 1 {
		t.Fatalf("Flush should recover the trailing frame, got %d", len(cmds))
	}
}

func TestLooseScanRecoversEmbeddedObjects(t *testing.T) {
	t.Parallel()

	input := "Sure! Here is the drawing:\n" +
		"{\"type\":\"text\",\"text\":\"Circle\",\"x\":80,\"y\":40}\n" +
		"some commentary\n" +
		"{\"type\":\"rect\",\"x\":10,\"y\":10,\"width\":100,\"height\":100}"
	for _, size := range []int{len(input), 1, 5} {
		cmds := collect(t, ModeLoose, input, size)
		if len(cmds) != 2 {
			t.Fatalf("Chunk size %d: expected 2 commands, got %d", size, len(cmds))
		}
	}
}

func TestLooseScanKeepsNestedObjectsIntact(t *testing.T) {
	t.Parallel()

	input := `{"type":"group","x":5,"y":5,"children":[{"type":"rect","x":0,"y":0,"width":9,"height":9}]}`
	cmds := collect(t, ModeLoose, input, 3)
	if len(cmds) != 1 {
		t.Fatalf("Nested braces must not split the object: got %d commands", len(cmds))
	}
	g, ok := cmds[0].(command.Group)
	if !ok {
		t.Fatalf("Expected Group, got %T", cmds[0])
	}
	if len(g.Children) != 1 {
		t.Errorf("Expected 1 child, got %d", len(g.Children))
	}
}

func TestLooseScanIgnoresBracesInStrings(t *testing.T) {
	t.Parallel()

	input := `{"type":"equation","latex":"\\frac{a}{b}","x":1,"y":2}`
	cmds := collect(t, ModeLoose, input, 4)
	if len(cmds) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(cmds))
	}
	eq, ok := cmds[0].(command.Equation)
	if !ok || eq.Latex != `\frac{a}{b}` {
		t.Errorf("Unexpected command: %#v", cmds[0])
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	cmds := Extract(`prose {"type":"text","text":"a","x":0,"y":0} prose {"type":"line","points":[0,0,1,1]}`)
	if len(cmds) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(cmds))
	}
	if cmds := Extract("no json here at all"); len(cmds) != 0 {
		t.Errorf("Expected no commands from prose, got %d", len(cmds))
	}
}

func TestDecodeReader(t *testing.T) {
	t.Parallel()

	var got []command.Command
	err := Decode(context.Background(), strings.NewReader(frameStream), func(cmd command.Command) bool {
		got = append(got, cmd)
		return true
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(got))
	}
}

func TestDecodeReaderEarlyStop(t *testing.T) {
	t.Parallel()

	count := 0
	err := Decode(context.Background(), strings.NewReader(frameStream), func(command.Command) bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Callback should stop the stream, ran %d times", count)
	}
}
