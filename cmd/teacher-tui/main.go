// Command teacher-tui is a terminal front end for the AI teacher service.
// It sends prompts and renders the resulting drawing command stream as a
// scrolling transcript, with the narration text one keystroke away.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nithin01010/AI-Teacher/internal/aitcli"
	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/stream"
)

func main() {
	serverURL := flag.String("server", envOr("AIT_SERVER", "http://localhost:8080"), "API server URL")
	token := flag.String("token", os.Getenv("AIT_TOKEN"), "API token for protected endpoints")
	altScreen := flag.Bool("alt-screen", true, "Run in the alternate screen buffer")
	flag.Parse()

	client := &aitcli.Client{
		BaseURL: strings.TrimRight(*serverURL, "/"),
		Token:   *token,
		Timeout: 15 * time.Second,
	}

	opts := []tea.ProgramOption{}
	if *altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(newModel(client), opts...).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type styles struct {
	header    lipgloss.Style
	panel     lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	help      lipgloss.Style
	opText    lipgloss.Style
	opMath    lipgloss.Style
	opShape   lipgloss.Style
	narration lipgloss.Style
}

func newStyles() styles {
	var (
		blue  = lipgloss.Color("#7aa2f7")
		mint  = lipgloss.Color("#9ece6a")
		amber = lipgloss.Color("#e0af68")
		red   = lipgloss.Color("#f7768e")
		muted = lipgloss.Color("#565f89")
	)
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(blue),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		status:    lipgloss.NewStyle().Foreground(mint),
		errStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		help:      lipgloss.NewStyle().Foreground(muted),
		opText:    lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")),
		opMath:    lipgloss.NewStyle().Foreground(amber),
		opShape:   lipgloss.NewStyle().Foreground(muted),
		narration: lipgloss.NewStyle().Foreground(mint),
	}
}

type (
	streamCmdMsg  struct{ cmd command.Command }
	streamDoneMsg struct{ count int }
	streamErrMsg  struct{ err error }
	narrationMsg  struct{ text string }
	clearedMsg    struct{}
	errMsg        struct{ err error }
)

type model struct {
	client *aitcli.Client
	styles styles

	input      textinput.Model
	spin       spinner.Model
	transcript viewport.Model

	lines      []string
	generating bool
	status     string
	statusErr  bool
	width      int
	height     int
	ready      bool

	events chan tea.Msg
	cancel context.CancelFunc
}

func newModel(client *aitcli.Client) model {
	input := textinput.New()
	input.Placeholder = "Ask the teacher to draw or explain something..."
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))

	return model{
		client: client,
		styles: newStyles(),
		input:  input,
		spin:   sp,
		status: "ready",
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 7
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.transcript = viewport.New(m.width-4, vpHeight)
			m.ready = true
		} else {
			m.transcript.Width = m.width - 4
			m.transcript.Height = vpHeight
		}
		m.input.Width = m.width - 8
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.generating {
				return m, nil
			}
			m.input.Reset()
			return m.startGeneration(prompt)
		case "ctrl+l":
			return m, m.clearCanvas()
		case "ctrl+n":
			return m, m.fetchNarration()
		}

	case streamCmdMsg:
		m.lines = append(m.lines, m.renderCommand(msg.cmd))
		m.refreshTranscript()
		return m, m.waitForStream()

	case streamDoneMsg:
		m.generating = false
		m.status = fmt.Sprintf("done, %d commands", msg.count)
		m.statusErr = false
		return m, nil

	case streamErrMsg:
		m.generating = false
		m.status = msg.err.Error()
		m.statusErr = true
		return m, nil

	case narrationMsg:
		m.lines = append(m.lines, m.styles.narration.Render("narration: "+msg.text))
		m.refreshTranscript()
		return m, nil

	case clearedMsg:
		m.lines = nil
		m.refreshTranscript()
		m.status = "canvas cleared"
		m.statusErr = false
		return m, nil

	case errMsg:
		m.status = msg.err.Error()
		m.statusErr = true
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.styles.header.Render("AI Teacher")
	statusStyle := m.styles.status
	if m.statusErr {
		statusStyle = m.styles.errStatus
	}
	status := statusStyle.Render(m.status)
	if m.generating {
		status = m.spin.View() + " " + status
	}

	help := m.styles.help.Render("enter send · ctrl+l clear · ctrl+n narrate · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+status,
		m.styles.panel.Render(m.transcript.View()),
		m.input.View(),
		help,
	)
}

func (m *model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(strings.Join(m.lines, "\n"))
	m.transcript.GotoBottom()
}

func (m model) renderCommand(c command.Command) string {
	switch v := c.(type) {
	case command.Text:
		return m.styles.opText.Render(fmt.Sprintf("text     (%4.0f,%4.0f)  %s", v.X, v.Y, v.Text))
	case command.Equation:
		return m.styles.opMath.Render(fmt.Sprintf("equation (%4.0f,%4.0f)  %s", v.X, v.Y, v.Latex))
	case command.Line:
		return m.styles.opShape.Render(fmt.Sprintf("line     %d points", len(v.Points)/2))
	case command.Rect:
		return m.styles.opShape.Render(fmt.Sprintf("rect     (%4.0f,%4.0f)  %gx%g", v.X, v.Y, v.Width, v.Height))
	case command.Group:
		return m.styles.opShape.Render(fmt.Sprintf("group    (%4.0f,%4.0f)  %d children", v.X, v.Y, len(v.Children)))
	default:
		return m.styles.opShape.Render(string(c.Kind()))
	}
}

func (m model) startGeneration(prompt string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.generating = true
	m.status = "generating..."
	m.statusErr = false
	m.lines = append(m.lines, m.styles.header.Render("you: ")+prompt)
	m.refreshTranscript()

	events := make(chan tea.Msg, 32)
	m.events = events

	go func() {
		body, err := m.client.PostStream(ctx, "/api/generate", map[string]string{"prompt": prompt})
		if err != nil {
			events <- streamErrMsg{err: err}
			return
		}
		defer body.Close()

		count := 0
		err = stream.Decode(ctx, body, func(c command.Command) bool {
			count++
			events <- streamCmdMsg{cmd: c}
			return true
		})
		if err != nil && ctx.Err() == nil {
			events <- streamErrMsg{err: err}
			return
		}
		events <- streamDoneMsg{count: count}
	}()

	return m, tea.Batch(m.spin.Tick, m.waitForStream())
}

func (m model) waitForStream() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func (m model) clearCanvas() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.PostJSON("/api/clear", nil, nil); err != nil {
			return errMsg{err: err}
		}
		return clearedMsg{}
	}
}

func (m model) fetchNarration() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var resp struct {
			Text string `json:"text"`
		}
		if err := client.GetJSON("/api/narration", &resp); err != nil {
			return errMsg{err: err}
		}
		return narrationMsg{text: resp.Text}
	}
}
