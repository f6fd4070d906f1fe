package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusCombat = styleStatusBar.
				Background(lipgloss.Color("52"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleMenu = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleSheetBorder = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	styleSheetHeader = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true).
				Padding(0, 1)

	styleSheetCell = lipgloss.NewStyle().
			Padding(0, 1)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindHeader
	kindMenu
	kindDialogue
	kindGain
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "== "):
		return kindHeader
	case strings.HasPrefix(line, "[1]"), strings.HasPrefix(line, "  ["):
		return kindMenu
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "Not enough"),
		strings.HasPrefix(line, "You don't see"),
		strings.Contains(line, "can't afford"):
		return kindError
	case strings.HasPrefix(line, "Breakthrough!"),
		strings.HasPrefix(line, "You found"),
		strings.HasPrefix(line, "Quest complete"),
		strings.HasPrefix(line, "+"):
		return kindGain
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindNarration
	}
}

// containsQuotedSpeech reports whether a line carries NPC speech in
// single quotes. Short quoted runs such as contractions are ignored.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '\'' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeader:
		return styleHeader.Render(line)
	case kindMenu:
		return styleMenu.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindGain:
		return styleGain.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
