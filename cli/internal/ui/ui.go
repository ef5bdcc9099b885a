package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cast"

	"github.com/satishbabariya/sqlshim/query/normalize"
	"github.com/satishbabariya/sqlshim/query/translate"
)

var (
	// Out and Err receive all CLI output.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr

	// Colors
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	InfoColor      = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// NullText is shown for NULL cells.
const NullText = "NULL"

func terminalWidth() int {
	if w := pterm.GetTerminalWidth(); w > 0 {
		return w
	}
	return 80
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, SuccessStyle.Render("✓ " + message))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, WarningStyle.Render("⚠ " + message))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(Out, InfoStyle.Render("ℹ " + message))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		PrintError("%v", err)
		return
	}
	fmt.Fprintln(Out, out)
}

// ResultTable lays out rows in column order.
func ResultTable(cols []normalize.Column, rows []normalize.Row) ([]string, [][]string) {
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Name
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(cols))
		for j, col := range cols {
			line[j] = FormatCell(row[col.Name])
		}
		out[i] = line
	}
	return headers, out
}

// FormatCell renders a single value for display.
func FormatCell(v any) string {
	if v == nil {
		return NullText
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// PrintResults prints a normalized result set as a table.
func PrintResults(cols []normalize.Column, rows []normalize.Row) {
	if len(cols) == 0 {
		PrintInfo("No columns")
		return
	}
	headers, data := ResultTable(cols, rows)
	PrintTable(headers, data)
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf("%d row(s)", len(rows))))
}

// PrintPlan prints a translated plan, one statement per line.
func PrintPlan(plan translate.Plan) {
	printers := GetColorPrinters()
	for _, stmt := range plan.Statements {
		p := printers["info"]
		switch stmt.Role {
		case translate.Preceding, translate.Following:
			p = printers["warning"]
		}
		ColorPrint(p, "%-10s", stmt.Role.String())
		fmt.Fprintln(Out, stmt.SQL)
	}
	if plan.Window != nil {
		fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf("window: offset %d, count %d", plan.Window.Offset, plan.Window.Count)))
	}
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Fprint(Out, out)
	return nil
}

// PrintSpinner creates a spinner and returns it
func PrintSpinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(Err).WithText(message).Start()
}

// PrintSection prints a section header
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Width(terminalWidth()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Padding(0, 0, 1, 0).
		Render(title)

	fmt.Fprintln(Out, section)
}

// PrintCodeBlock prints code in a styled block
func PrintCodeBlock(code string, language string) {
	codeStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(1).
		Background(lipgloss.Color("#1E1E1E")).
		Foreground(lipgloss.Color("#D4D4D4")).
		Width(80)

	if language != "" {
		fmt.Fprintln(Out, lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Render(fmt.Sprintf(" %s ", language)))
	}
	fmt.Fprintln(Out, codeStyle.Render(code))
}

// ColorPrint uses fatih/color for simple colored output
func ColorPrint(c *color.Color, format string, args ...interface{}) {
	_, _ = c.Fprintf(Out, format, args...)
}

// GetColorPrinters returns color printers for common use cases
func GetColorPrinters() map[string]*color.Color {
	return map[string]*color.Color{
		"success": color.New(color.FgGreen, color.Bold),
		"error":   color.New(color.FgRed, color.Bold),
		"warning": color.New(color.FgYellow, color.Bold),
		"info":    color.New(color.FgCyan),
		"primary": color.New(color.FgCyan, color.Bold),
	}
}
