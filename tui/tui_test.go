package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/loader"
	"github.com/nathoo/ascend/types"
)

func testModel(t *testing.T, draws ...int) Model {
	t.Helper()
	defs, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	eng := engine.New(defs, engine.Options{Dice: dice.NewSequence(draws...)})
	m := New(context.Background(), eng, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// submit types a line and presses Enter.
func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(input)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func transcript(m Model) string {
	lines := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		lines = append(lines, rl.text)
	}
	return strings.Join(lines, "\n")
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLocationName(t *testing.T) {
	m := testModel(t)
	tests := []struct {
		id   string
		want string
	}{
		{"village", "Village"},
		{"wilds", "Wilds"},
		{"bamboo_grove", "Bamboo Grove"},
		{"peak", "Peak"},
	}
	for _, tt := range tests {
		got := locationName(m.engine.Defs, tt.id)
		if got != tt.want {
			t.Errorf("locationName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"== Village ==", kindHeader},
		{"[1] Attack  [2] Use Qi  [3] Defend  [4] Flee", kindMenu},
		{"  [2] Qi Necklace - 20 gold (+10 Qi)", kindMenu},
		{"[Trace output enabled.]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{"You can't rest here. You can: explore.", kindError},
		{"I don't understand that. Type 'help' for commands.", kindError},
		{"Not enough Qi. You need 100, you have 5.", kindError},
		{"You can't afford the Iron Fist Gloves (need 30 gold, have 10).", kindError},
		{"Breakthrough! You have reached cultivation level 2.", kindGain},
		{"+1 Qi (Qi: 6)", kindGain},
		{"Village Elder: 'Bandits plague the roads to the east.'", kindDialogue},
		{"A quiet village at the foot of the mountain.", kindNarration},
		{"", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestContainsQuotedSpeech(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Elder: 'The roads are safe again.'", true},
		{"Type 'help' for commands.", false},
		{"You can't go there.", false},
		{"no quotes at all", false},
	}
	for _, tt := range tests {
		if got := containsQuotedSpeech(tt.line); got != tt.want {
			t.Errorf("containsQuotedSpeech(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 20, "short"},
		{"the quick brown fox", 10, "the quick\nbrown fox"},
		{"a bb ccc", 4, "a bb\nccc"},
		{"unchanged at zero", 0, "unchanged at zero"},
	}
	for _, tt := range tests {
		if got := wordWrap(tt.text, tt.width); got != tt.want {
			t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("explore")
	h.Push("rest")

	want := []string{"rest", "explore", "look", "look"}
	for i, w := range want {
		got, ok := h.Prev()
		if !ok || got != w {
			t.Errorf("Prev #%d = (%q, %v), want %q", i, got, ok, w)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("explore")

	h.Prev()
	h.Prev()
	if got, ok := h.Next(); !ok || got != "explore" {
		t.Errorf("Next = (%q, %v), want explore", got, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past the newest entry should report false")
	}
	if _, ok := h.Next(); ok {
		t.Error("Next outside navigation should report false")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("Prev on empty history should report false")
	}
	if _, ok := h.Next(); ok {
		t.Error("Next on empty history should report false")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Push(cmd)
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	for _, w := range []string{"e", "d", "c", "c"} {
		if got, _ := h.Prev(); got != w {
			t.Errorf("Prev = %q, want %q", got, w)
		}
	}
}

func TestHistory_RepeatMovesToEnd(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("rest")
	h.Push("look")

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	if got, _ := h.Prev(); got != "look" {
		t.Errorf("newest = %q, want look", got)
	}
	if got, _ := h.Prev(); got != "rest" {
		t.Errorf("older = %q, want rest", got)
	}
}

func TestHistory_PushResetsCursor(t *testing.T) {
	h := NewHistory(10)
	h.Push("a")
	h.Push("b")
	h.Prev()
	h.Prev()
	h.Push("c")
	if got, _ := h.Prev(); got != "c" {
		t.Errorf("Prev after Push = %q, want c", got)
	}
}

func TestInit_ShowsIntro(t *testing.T) {
	m := testModel(t)
	msg := m.initialOutput()()
	next, _ := m.Update(msg)
	out := transcript(next.(Model))
	if !strings.Contains(out, "Ascend") || !strings.Contains(out, "What is your name") {
		t.Errorf("intro missing:\n%s", out)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := testModel(t)
	output, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("/quit should quit")
	}
	if len(output) != 1 || output[0] != "Goodbye." {
		t.Errorf("output = %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := testModel(t)
	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("/help should not quit")
	}
	joined := strings.Join(output, "\n")
	for _, want := range []string{"/status", "/trace", "breakthrough"} {
		if !strings.Contains(joined, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := testModel(t)
	output, _ := m.handleMeta("/trace")
	if !m.trace || output[0] != "Trace output enabled." {
		t.Errorf("first toggle: trace=%v output=%v", m.trace, output)
	}
	output, _ = m.handleMeta("/trace")
	if m.trace || output[0] != "Trace output disabled." {
		t.Errorf("second toggle: trace=%v output=%v", m.trace, output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := testModel(t)
	output, quit := m.handleMeta("/save")
	if quit {
		t.Error("unknown command should not quit")
	}
	if !strings.Contains(output[0], "Unknown command: /save") {
		t.Errorf("output = %v", output)
	}
}

func TestHandleMeta_StatusBeforeCreation(t *testing.T) {
	m := testModel(t)
	output, _ := m.handleMeta("/status")
	if output[0] != "You have not yet begun your journey." {
		t.Errorf("output = %v", output)
	}
}

func TestStatSheet(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")

	sheet := StatSheet(m.engine)
	for _, want := range []string{"Lin", "Martial Artist", "Health", "120", "100 Qi @ 90%", "Defeat 3 bandits"} {
		if !strings.Contains(sheet, want) {
			t.Errorf("sheet missing %q:\n%s", want, sheet)
		}
	}
}

func TestClassTable(t *testing.T) {
	m := testModel(t)
	out := ClassTable(m.engine.Defs)
	for _, want := range []string{"Class", "Martial Artist", "Qi Cultivator", "Assassin", "120"} {
		if !strings.Contains(out, want) {
			t.Errorf("class table missing %q:\n%s", want, out)
		}
	}
}

func TestStatusBarText(t *testing.T) {
	m := testModel(t)
	left, right := statusBarText(m.engine)
	if !strings.Contains(left, "Ascend") || !strings.Contains(right, "Creating") {
		t.Errorf("pre-creation bar = %q | %q", left, right)
	}

	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "3")
	left, right = statusBarText(m.engine)
	if !strings.Contains(left, "Village | Lin L1") {
		t.Errorf("left = %q", left)
	}
	if !strings.Contains(right, "HP 100  Qi 10  Gold 50") {
		t.Errorf("right = %q", right)
	}
	if bar := m.renderStatusBar(); !strings.Contains(bar, "Lin L1") {
		t.Errorf("rendered bar = %q", bar)
	}
}

func TestEnter_StepsEngine(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "look")

	out := transcript(m)
	if !strings.Contains(out, "> look") || !strings.Contains(out, "== Village ==") {
		t.Errorf("transcript:\n%s", out)
	}
	if m.history.Len() != 3 {
		t.Errorf("history len = %d, want 3", m.history.Len())
	}
}

func TestEnter_BlankIsIgnored(t *testing.T) {
	m := testModel(t)
	before := len(m.rawLines)
	m, _ = submit(t, m, "   ")
	if len(m.rawLines) != before {
		t.Error("blank input should produce no output")
	}
	if m.engine.Turns() != 0 {
		t.Error("blank input should not reach the engine")
	}
}

func TestEnter_Again(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "g")
	if !strings.Contains(transcript(m), "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}

	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "look")
	m, _ = submit(t, m, "again")
	if got := strings.Count(transcript(m), "== Village =="); got != 3 {
		t.Errorf("village described %d times, want 3", got)
	}
}

func TestTraining_TicksUntilEnter(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")

	m, cmd := submit(t, m, "train")
	if !m.engine.Training() {
		t.Fatal("engine should be training")
	}
	if cmd == nil || !m.ticking {
		t.Fatal("expected a scheduled tick")
	}

	for i := 0; i < 3; i++ {
		next, cmd := m.Update(tickMsg{})
		m = next.(Model)
		if cmd == nil {
			t.Fatalf("tick %d: expected the next tick to be scheduled", i)
		}
	}
	if m.engine.Player.Qi != 8 {
		t.Errorf("qi = %d, want 5 + 3", m.engine.Player.Qi)
	}

	// A blank Enter stops meditation.
	m, _ = submit(t, m, "")
	if m.engine.Training() {
		t.Fatal("Enter should stop training")
	}
	if !strings.Contains(transcript(m), "You open your eyes. Qi: 8.") {
		t.Errorf("transcript:\n%s", transcript(m))
	}

	// A stale tick after stopping does nothing.
	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if cmd != nil || m.engine.Player.Qi != 8 {
		t.Error("stale tick should be ignored")
	}
}

func TestTraining_TraceShowsTicks(t *testing.T) {
	m := testModel(t)
	m.trace = true
	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "train")

	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if !strings.Contains(transcript(m), "[trace]   qi_trained gained=1 qi=6 ticks=1") {
		t.Errorf("transcript:\n%s", transcript(m))
	}
}

func TestSessionEnd_WaitsThenQuits(t *testing.T) {
	m := testModel(t)
	m, _ = submit(t, m, "Lin")
	m, _ = submit(t, m, "1")

	m, cmd := submit(t, m, "quit")
	if isQuit(cmd) {
		t.Fatal("should wait for a keypress before quitting")
	}
	if !m.ended || m.engine.Session() != types.SessionQuit {
		t.Fatalf("ended=%v session=%v", m.ended, m.engine.Session())
	}
	if !strings.Contains(transcript(m), "Press Enter to exit.") {
		t.Errorf("transcript:\n%s", transcript(m))
	}

	m, cmd = submit(t, m, "")
	if !isQuit(cmd) || !m.quitting {
		t.Error("Enter after the session ends should quit")
	}
	if m.View() != "" {
		t.Error("View should be empty once quitting")
	}
}

func TestMetaQuit(t *testing.T) {
	m := testModel(t)
	m, cmd := submit(t, m, "/quit")
	if !isQuit(cmd) {
		t.Error("/quit should return tea.Quit")
	}
}

func TestView_Layout(t *testing.T) {
	m := testModel(t)
	view := m.View()
	if !strings.Contains(view, "> ") {
		t.Errorf("view missing input prompt:\n%s", view)
	}

	unready := New(context.Background(), m.engine, Options{})
	if unready.View() != "Loading..." {
		t.Errorf("unready view = %q", unready.View())
	}
}

func TestFormatTrace(t *testing.T) {
	r := types.Result{Events: []types.Event{
		{Type: "rested", Data: map[string]any{"health": 100}},
		{Type: "session_ended", Data: nil},
	}}
	got := formatTrace(r)
	want := []string{"[trace] Events: 2", "[trace]   rested health=100", "[trace]   session_ended"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("formatTrace = %v, want %v", got, want)
	}
	if formatTrace(types.Result{}) != nil {
		t.Error("no events should produce no trace lines")
	}
}
