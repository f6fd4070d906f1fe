// Package cli provides line-oriented terminal I/O and meta-command
// dispatch for the Ascend engine. It also plays back script files.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/types"
)

// DefaultTrainCycles is how many ticks a bare "train" runs in line mode,
// where there is no keypress to stop a running meditation.
const DefaultTrainCycles = 10

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine      *engine.Engine
	In          io.Reader
	Out         io.Writer
	Trace       bool
	EchoInput   bool // echo each input line after the prompt (for script playback)
	TrainCycles int
	lastCmd     string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine:      eng,
		In:          os.Stdin,
		Out:         os.Stdout,
		TrainCycles: DefaultTrainCycles,
	}
}

// Run starts the game loop: intro, then prompt → input → step → output
// until the session ends, the input runs out, or the player types /quit.
func (c *CLI) Run(ctx context.Context) types.SessionResult {
	for _, line := range c.Engine.Intro() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return c.Engine.Session()
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(ctx, input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}

		if c.Engine.Training() {
			result = c.meditate(ctx)
		}

		if result.Session != types.SessionOngoing {
			c.printEnding()
			return result.Session
		}
	}
	return c.Engine.Session()
}

// meditate runs a fixed number of ticks, then stops training.
func (c *CLI) meditate(ctx context.Context) types.Result {
	cycles := c.TrainCycles
	if cycles < 1 {
		cycles = DefaultTrainCycles
	}
	var last types.Result
	for i := 0; i < cycles && c.Engine.Training(); i++ {
		last = c.Engine.Tick()
		if c.Trace {
			c.printTrace(last)
		}
	}
	c.printResult(last)
	result := c.Engine.Step(ctx, "")
	c.printResult(result)
	return result
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/status":
		for _, line := range c.Engine.StatusLines() {
			c.printLine(line)
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
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
		"  train [cycles]        Meditate to gather Qi",
		"  breakthrough (bt)     Attempt the next cultivation level",
		"  again (g)             Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) printEnding() {
	if text := c.Engine.Ending(); text != "" {
		c.printSystem(text)
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %s", e.Type, formatData(e.Data)))
	}
}

func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
