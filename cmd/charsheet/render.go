package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cory-johannsen/charsheet/internal/game/dsa"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
	"github.com/cory-johannsen/charsheet/internal/game/system"
)

var (
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cell   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	border = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func renderHeader(b system.Backend) string {
	c := b.Calendar()
	return title.Render(fmt.Sprintf("%s  ·  %s (%s)", b.Name(), c.String(), c.Period()))
}

// renderPlayer renders one table per category: modifier selections first,
// then every stat with its stored and calculated value.
func renderPlayer(sh *stat.Sheet, p stat.Player) string {
	parts := []string{title.Render(p.Name())}
	for _, c := range sh.Categories() {
		parts = append(parts, renderCategory(sh, p, c))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCategory(sh *stat.Sheet, p stat.Player, c *stat.Category) string {
	var rows [][]string
	for _, e := range c.Entries {
		switch {
		case e.Modifier != nil:
			rows = append(rows, []string{e.Modifier.Name, selectionName(sh, p, e.Modifier.Name), "", ""})
		case e.Range.Stat.Kind == stat.KindComposite:
			rows = append(rows, []string{"  " + e.Range.Stat.Name, "", "", strconv.Itoa(sh.CalcValue(p, c, e.Range.Stat))})
		default:
			r := e.Range
			rows = append(rows, []string{
				r.Stat.Label(),
				strconv.Itoa(p.Value(r.Stat.Key())),
				fmt.Sprintf("%d..%d", r.Min, r.Max),
				strconv.Itoa(sh.CalcValue(p, c, r.Stat)),
			})
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers(c.Name, "Wert", "Bereich", "Gesamt").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 2 {
				return dim
			}
			return cell
		})
	return t.Render()
}

func selectionName(sh *stat.Sheet, p stat.Player, source string) string {
	v := sh.Selection(p, source)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.Name())
}

func renderChecks(results []dsa.CheckResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		outcome := "misslungen"
		if r.Success {
			outcome = fmt.Sprintf("gelungen, QS %d", r.Quality)
		}
		if r.Critical {
			outcome += " (kritisch)"
		}
		rows = append(rows, []string{
			r.Ability,
			fmt.Sprintf("%d/%d/%d", r.Targets[0], r.Targets[1], r.Targets[2]),
			fmt.Sprintf("%v", r.Roll.Dice),
			strconv.Itoa(r.Remaining),
			outcome,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		Headers("Probe", "Ziel", "Würfe", "FP", "Ergebnis").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.Render()
}
