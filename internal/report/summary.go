package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/movingout-dev/movingout/internal/model"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	surplusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	deficitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)
)

const summaryWidth = 52

// Summary renders the budget and its readiness flags for the terminal.
func Summary(d model.DerivedTotals, flags model.ReadinessFlags, completion int) string {
	var b strings.Builder

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(summaryWidth).
		Align(lipgloss.Center)
	b.WriteString(box.Render(titleStyle.Render(fmt.Sprintf("Monthly budget (%d%% complete)", completion))))
	b.WriteString("\n\n")

	section(&b, "Income",
		row{"Gross income", d.GrossMonthlyIncome},
		row{"Deductions", d.Deductions.Total},
		row{"Net income", d.NetMonthlyIncome},
	)
	section(&b, "Expenses",
		row{"Housing", d.Housing.Total},
		row{"Transportation (" + string(d.Transportation.Mode) + ")", d.Transportation.Total},
		row{"Essentials", d.LivingExpenses.Total},
		row{"Total", d.TotalMonthlyExpenses},
	)

	surplus := surplusStyle
	label := "Surplus"
	if d.MonthlySurplus.IsNegative() {
		surplus = deficitStyle
		label = "Deficit"
	}
	fmt.Fprintf(&b, "  %s %s\n", pad(label), surplus.Render("$"+d.MonthlySurplus.StringFixed(2)))

	var warns []string
	if flags.AffordabilityFail {
		warns = append(warns, "Housing is above the affordability target")
	}
	if flags.Deficit {
		warns = append(warns, "Spending exceeds income")
	} else if flags.FragileBuffer {
		warns = append(warns, "Low buffer")
	}
	if flags.LowVehiclePrice {
		warns = append(warns, "Vehicle price looks unrealistic")
	}
	if len(warns) > 0 {
		b.WriteString("\n  " + headerStyle.Render("Warnings") + "\n")
		for _, w := range warns {
			b.WriteString("  " + warnStyle.Render("! "+w) + "\n")
		}
	}

	if len(flags.FixNext) > 0 {
		b.WriteString("\n  " + headerStyle.Render("Fix next") + "\n")
		for i, item := range flags.FixNext {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, item)
		}
	}
	return b.String()
}

type row struct {
	label  string
	amount decimal.Decimal
}

func section(b *strings.Builder, title string, rows ...row) {
	b.WriteString("  " + headerStyle.Render(title) + "\n")
	for _, r := range rows {
		fmt.Fprintf(b, "  %s %12s\n", pad(r.label), "$"+r.amount.StringFixed(2))
	}
	b.WriteString("\n")
}

func pad(label string) string {
	return labelStyle.Render(fmt.Sprintf("%-28s", label))
}
