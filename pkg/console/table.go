package console

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders cfg with a rounded border. The title, when set, is
// printed on its own line above the table.
func RenderTable(cfg TableConfig) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(cfg.Headers...).
		Rows(cfg.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	out := t.String() + "\n"
	if cfg.Title != "" {
		out = cfg.Title + "\n" + out
	}
	return out
}
