package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/engine/dice"
	"github.com/nathoo/ascend/loader"
	"github.com/nathoo/ascend/telemetry"
	"github.com/nathoo/ascend/types"
)

func newTestCLI(t *testing.T, input string, draws ...int) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	eng := engine.New(defs, engine.Options{Dice: dice.NewSequence(draws...), Tracer: telemetry.NoopTracer()})
	var out bytes.Buffer
	c := New(eng)
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestCLI_IntroAndCreation(t *testing.T) {
	c, out := newTestCLI(t, "Lin\n1\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "What is your name, cultivator?") {
		t.Error("expected name prompt")
	}
	if !strings.Contains(output, "Lin the Martial Artist") {
		t.Error("expected class confirmation")
	}
	if !strings.Contains(output, "== Village ==") {
		t.Error("expected starting location description")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{"/quit", "/status", "/trace", "breakthrough"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in help output", want)
		}
	}
}

func TestCLI_StatusCommand(t *testing.T) {
	c, out := newTestCLI(t, "Lin\n3\n/status\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "HP 100  ATK 15  DEF 10  Qi 10") {
		t.Errorf("expected assassin stats in output:\n%s", out.String())
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nLin\n1\nrest\n/trace\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace]   rested health=100") {
		t.Errorf("expected traced event:\n%s", output)
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_EmptyInputAndComments(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\nLin\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if strings.Contains(output, "Wanderer") {
		t.Error("blank lines and comments must not reach the engine")
	}
	if !strings.Contains(output, "Welcome, Lin.") {
		t.Error("expected name to be accepted")
	}
}

func TestCLI_Again(t *testing.T) {
	c, out := newTestCLI(t, "g\nLin\n1\nlook\nagain\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Nothing to repeat.") {
		t.Error("expected nothing-to-repeat message")
	}
	if strings.Count(output, "== Village ==") != 3 {
		t.Errorf("expected village described on creation, look and again:\n%s", output)
	}
}

func TestCLI_TrainRunsFixedCycles(t *testing.T) {
	c, out := newTestCLI(t, "Lin\n1\ntrain\n/quit\n")
	c.TrainCycles = 4
	c.Run(context.Background())

	if c.Engine.Player.Qi != 9 {
		t.Errorf("qi = %d, want 5 + 4", c.Engine.Player.Qi)
	}
	if c.Engine.Training() {
		t.Error("line mode should stop training after the cycles")
	}
	if !strings.Contains(out.String(), "open your eyes") {
		t.Error("expected training to end")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "Lin\n/quit\n")
	c.EchoInput = true
	c.Run(context.Background())

	if !strings.Contains(out.String(), "> Lin\n") {
		t.Errorf("expected echoed input:\n%s", out.String())
	}
}

func TestCLI_StopsWhenSessionEnds(t *testing.T) {
	c, out := newTestCLI(t, "Lin\n1\nquit\nlook\n")
	result := c.Run(context.Background())

	if result != types.SessionQuit {
		t.Errorf("result = %v, want quit", result)
	}
	if strings.Contains(out.String(), "session is over") {
		t.Error("input after the session ended should not be processed")
	}
}

func TestCLI_ScriptToDefeat(t *testing.T) {
	// Shadow assassin, then six enemy attacks on a defending qi cultivator.
	script := strings.Join([]string{
		"Lin", "2", "go wilds", "explore",
		"defend", "defend", "defend", "defend", "defend", "defend",
	}, "\n") + "\n"
	c, out := newTestCLI(t, script, 1, 2, 0, 0, 0, 0, 0, 0)
	result := c.Run(context.Background())

	if result != types.SessionDefeat {
		t.Fatalf("result = %v, want defeat\n%s", result, out.String())
	}
	if !strings.Contains(out.String(), "Game over") {
		t.Error("expected game over banner")
	}
}
