// Package cli renders ledger reports for the terminal.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/internal/view"
)

var (
	ColorBorder = lipgloss.Color("#575653")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorRed    = lipgloss.Color("#D14D41")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorBlue   = lipgloss.Color("#4385BE")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	okStyle     = cellStyle.Foreground(ColorGreen)
	overStyle   = cellStyle.Foreground(ColorRed).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	budgetStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
)

const (
	statusWithin   = "Within Emission Quota"
	statusExceeded = "Exceeded Emission Quota"
)

// RenderRun renders the yearly ledger of a run.
func RenderRun(run *planner.Run) string {
	rows := make([][]string, 0, len(run.Report.Years))
	for _, y := range run.Report.Years {
		status := statusWithin
		if !y.WithinQuota {
			status = statusExceeded
		}
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			view.FormatNumber(y.TotalEmissions),
			view.FormatNumber(y.Quota),
			view.FormatNumber(y.TotalBuyCost.InexactFloat64()),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("Year", "Emissions (kg CO2)", "Quota (kg CO2)", "Buy Cost (MYR)", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4 && rows[row][4] == statusExceeded:
				return overStyle
			case col == 4:
				return okStyle
			case col > 0:
				return numberStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Fleet plan ledger · %d years", len(run.Report.Years))))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(budgetStyle.Render("Estimated Budget: " + view.FormatMYR(run.Report.Totals.TotalBudget)))
	b.WriteString("\n")
	if run.QuotaMismatch {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Entered limits differ from the %s quotas used for this run.", run.QuotaSource)))
		b.WriteString("\n")
	}
	return b.String()
}
