package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nathoo/ascend/engine"
	"github.com/nathoo/ascend/engine/progression"
	"github.com/nathoo/ascend/engine/state"
)

// locationName returns the display name of a location, falling back to
// a title-cased ID: "bamboo_grove" -> "Bamboo Grove".
func locationName(defs *state.Defs, id string) string {
	if loc, ok := defs.Locations[id]; ok && loc.Name != "" {
		return loc.Name
	}
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// statusBarText returns the unstyled left and right halves of the
// status bar.
func statusBarText(eng *engine.Engine) (string, string) {
	p := eng.Player
	if p == nil {
		return " " + eng.Defs.Game.Title, "Creating character "
	}

	left := fmt.Sprintf(" %s | %s L%d", locationName(eng.Defs, eng.Location), p.Name, p.CultivationLevel)
	switch {
	case eng.Enemy != nil:
		left += fmt.Sprintf(" | vs %s HP %d", eng.Enemy.Name, eng.Enemy.Health)
	case eng.Training():
		left += " | meditating"
	}
	right := fmt.Sprintf("HP %d  Qi %d  Gold %d | T:%d ", p.Health, p.Qi, p.Gold, eng.Turns())
	return left, right
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	left, right := statusBarText(m.engine)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Too narrow for both halves; drop the turn counter side.
		right = ""
		gap = m.width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	style := styleStatusBar
	if m.engine.Enemy != nil {
		style = styleStatusCombat
	}
	return style.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func newSheet() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleSheetBorder).
		BorderHeader(true).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleSheetHeader
			}
			return styleSheetCell
		})
}

// StatSheet renders the character sheet as a bordered table.
func StatSheet(eng *engine.Engine) string {
	p := eng.Player
	if p == nil {
		return "You have not yet begun your journey."
	}

	className := string(p.Class)
	if def, ok := eng.Defs.Classes[p.Class]; ok {
		className = def.Name
	}
	next := "peak"
	if tier, ok := progression.Requirement(p.CultivationLevel, eng.Defs); ok {
		next = fmt.Sprintf("%d Qi @ %d%%", tier.QiRequired, tier.Chance)
		if tier.Fatal {
			next += " (fatal)"
		}
	}

	rows := [][]string{
		{"Class", className},
		{"Level", strconv.Itoa(p.CultivationLevel)},
		{"Health", strconv.Itoa(p.Health)},
		{"Attack", strconv.Itoa(p.Attack)},
		{"Defense", strconv.Itoa(p.Defense)},
		{"Qi", strconv.Itoa(p.Qi)},
		{"Speed", fmt.Sprintf("%.2f", p.CultivationSpeed)},
		{"Gold", strconv.Itoa(p.Gold)},
		{"Qi pills", strconv.Itoa(p.QiPills)},
		{"Bandits", strconv.Itoa(p.BanditsDefeated)},
		{"Next", next},
	}
	for _, id := range state.NPCIDs(eng.Defs) {
		npc := eng.NPCs[id]
		if npc.Quest == nil {
			continue
		}
		mark := "in progress"
		if npc.Quest.Completed {
			mark = "done"
		}
		rows = append(rows, []string{"Quest", npc.Quest.Description + " [" + mark + "]"})
	}

	return newSheet().Headers(p.Name, "").Rows(rows...).Render()
}

// ClassTable renders the selectable classes and their starting stats.
func ClassTable(defs *state.Defs) string {
	classes := state.ClassList(defs)
	rows := make([][]string, 0, len(classes))
	for i, c := range classes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name,
			strconv.Itoa(c.Health),
			strconv.Itoa(c.Attack),
			strconv.Itoa(c.Defense),
			strconv.Itoa(c.Qi),
		})
	}
	return newSheet().Headers("#", "Class", "HP", "ATK", "DEF", "Qi").Rows(rows...).Render()
}
