package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianshen/ratiocalc/internal/pricing"
)

// Style definitions for the TUI view.
var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"})
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	colHeadStyle  = cellStyle.Bold(true)
	selectedStyle = cellStyle.Reverse(true)
	editingStyle  = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#AA6600", Dark: "#FFAA00"})
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"})
)

var columnHeaders = []string{
	"Model Name", "Input Price", "Output Price", "Model Multiplier", "Completion Multiplier",
}

// View implements tea.Model. It renders the TUI as a string.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.state == StateHelp {
		rendered, err := m.mdRenderer.Render(helpMarkdown)
		if err != nil {
			rendered = helpMarkdown
		}
		return rendered + subtitleStyle.Render("press ? or esc to close") + "\n"
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("One-API Multiplier Calculator"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Price calculated per %s Tokens", m.table.Unit())))
	b.WriteString("\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	if m.state == StateConfirm && m.confirm != nil {
		b.WriteString(m.confirm.View())
	}

	b.WriteString(m.statusBar.View())
	b.WriteString("\n")

	if m.editingSelected() {
		b.WriteString(m.help.ShortHelpView(m.keys.editHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.browseHelp()))
	}
	return b.String()
}

func (m *Model) renderTable() string {
	rows := m.table.Rows()
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = m.rowCells(i, r)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(columnHeaders...).
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return colHeadStyle
			case row == m.cursor && !rows[row].Editing:
				return selectedStyle
			case row < len(rows) && rows[row].Editing:
				return editingStyle
			}
			return cellStyle
		})
	if len(rows) == 0 {
		return t.Render() + "\n" + subtitleStyle.Render("No rows. Press a to add one.")
	}
	return t.Render()
}

// rowCells formats one row. Committed prices use two decimals and
// multipliers four; editing rows show full precision and the live editor
// in the focused cell of the selected row.
func (m *Model) rowCells(i int, r pricing.Row) []string {
	cells := []string{
		r.ModelName,
		fmt.Sprintf("%.2f", r.InputPrice),
		fmt.Sprintf("%.2f", r.OutputPrice),
		fmt.Sprintf("%.4f", r.ModelMultiplier),
		fmt.Sprintf("%.4f", r.CompletionMultiplier),
	}
	if !r.Editing {
		return cells
	}
	for col, f := range editFields {
		if i == m.cursor && col == m.field {
			cells[col] = m.editor.View()
			continue
		}
		cells[col] = cellValue(r, f)
	}
	if cells[0] == "" {
		cells[0] = "…"
	}
	return cells
}
