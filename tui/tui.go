// Package tui provides a Bubble Tea terminal UI for the Ascend engine.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/engine/progression"
	"github.com/nathoo/ascend/types"
)

// DefaultTrainingInterval is the base pause between training ticks at
// cultivation speed 1.0.
const DefaultTrainingInterval = time.Second

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the Ascend TUI.
type Model struct {
	engine   *engine.Engine
	ctx      context.Context
	interval time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	ticking  bool // a training tick is scheduled
	ended    bool // session over, waiting for a final keypress
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string
	lines    []string
	isSystem bool
}

// tickMsg fires when the next training tick is due.
type tickMsg struct{}

// Options configures a Model.
type Options struct {
	Trace            bool
	TrainingInterval time.Duration // zero: DefaultTrainingInterval
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	interval := opts.TrainingInterval
	if interval <= 0 {
		interval = DefaultTrainingInterval
	}
	return Model{
		engine:   eng,
		ctx:      ctx,
		interval: interval,
		input:    ti,
		history:  NewHistory(100),
		trace:    opts.Trace,
	}
}

// Run starts the Bubble Tea program and returns the session result.
func Run(ctx context.Context, eng *engine.Engine, opts Options) (types.SessionResult, error) {
	m := New(ctx, eng, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return eng.Session(), err
	}
	return eng.Session(), nil
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		return gameOutputMsg{lines: m.engine.Intro()}
	}
}

// Update handles messages (key presses, window resize, game output, ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)

	case tickMsg:
		return m.handleTick()
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	return m, inputCmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.ended {
		m.quitting = true
		return m, tea.Quit
	}

	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	// While meditating any Enter, even a blank one, opens the eyes.
	if input == "" && !m.engine.Training() {
		return m, nil
	}

	if input != "" {
		m.history.Push(input)
	}

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else if input != "" {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(m.ctx, input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})

	if result.Session != types.SessionOngoing {
		m.ended = true
		m = m.appendOutput(gameOutputMsg{
			lines: []string{m.engine.Ending(), "Press Enter to exit."}, isSystem: true,
		})
		return m, nil
	}
	cmd := m.scheduleTick()
	return m, cmd
}

// scheduleTick starts the training ticker if the engine just began
// training and no tick is pending.
func (m *Model) scheduleTick() tea.Cmd {
	if !m.engine.Training() || m.ticking || m.engine.Player == nil {
		return nil
	}
	m.ticking = true
	return tea.Tick(progression.TrainingInterval(m.engine.Player, m.interval), func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// handleTick applies one training tick and schedules the next while the
// player keeps meditating. Progress shows in the status bar.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.ticking = false
	if !m.engine.Training() {
		return m, nil
	}
	result := m.engine.Tick()
	if m.trace {
		if lines := formatTrace(result); len(lines) > 0 {
			m = m.appendOutput(gameOutputMsg{lines: lines})
		}
	}
	cmd := m.scheduleTick()
	return m, cmd
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		// Pre-rendered tables keep their own layout.
		if strings.Contains(rl.text, "\n") {
			styled = append(styled, rl.text)
			continue
		}

		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text at word boundaries to fit within width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n")
			lineLen = len(word)
		default:
			b.WriteString(" ")
			lineLen += 1 + len(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// View renders the layout: viewport, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return cmdHelp(), false

	case "/status":
		return []string{StatSheet(m.engine)}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         Exit the game",
		"  /help         Show this help",
		"  /status       Show your character sheet",
		"  /trace        Toggle event trace output",
		"",
		"Game commands:",
		"  look (l)              Describe where you are",
		"  go <place>            Travel between the village and the wilds",
		"  explore               Venture into the wilds",
		"  1-4 / attack, qi, defend, flee   Fight",
		"  rest, shop, buy <n>   Village services",
		"  talk [npc]            Speak with the villagers",
		"  train [cycles]        Meditate; press Enter to stop",
		"  breakthrough (bt)     Attempt the next cultivation level",
		"  again (g)             Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
		}
		lines = append(lines, strings.TrimRight("[trace]   "+e.Type+" "+strings.Join(parts, " "), " "))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (those drive input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
