// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/report"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#2F5597")
	// SuccessColor indicates successful operations and limit increases.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings and decisions that need review.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors and limit decreases.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#BDD7EE")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

var numbers = message.NewPrinter(language.English)

// FormatSuccess formats a success message with icon.
func FormatSuccess(msg string) string {
	return SuccessStyle.Render(SuccessIcon + " " + msg)
}

// FormatError formats an error message with icon.
func FormatError(msg string) string {
	return ErrorStyle.Render(ErrorIcon + " " + msg)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(msg string) string {
	return WarningStyle.Render(WarningIcon + " " + msg)
}

// FormatInfo formats an info message with icon.
func FormatInfo(msg string) string {
	return InfoStyle.Render(InfoIcon + " " + msg)
}

// FormatTitle formats a title with the chart icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(ChartIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatDecision colors a decision label by its direction.
func FormatDecision(d model.Decision) string {
	switch d {
	case model.DecisionIncrease:
		return SuccessStyle.Render(string(d))
	case model.DecisionDecrease:
		return ErrorStyle.Render(string(d))
	case model.DecisionPossibleIncrease, model.DecisionPossibleDecrease:
		return WarningStyle.Render(string(d))
	case model.DecisionNoInformation:
		return SubtleStyle.Render(string(d))
	default:
		return string(d)
	}
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// RenderSummary renders the executive summary of a run in a box.
func RenderSummary(s report.Summary) string {
	lines := s.Lines()
	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.Label))
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := l.Label + strings.Repeat(" ", width-lipgloss.Width(l.Label))
		fmt.Fprintf(&b, "%s  %s", SubtleStyle.Render(label), BoldStyle.Render(FormatValue(l.Value)))
	}

	return RenderBox(ChartIcon+" Resumen ejecutivo", b.String())
}

// FormatValue renders a summary value for the terminal: whole numbers with
// thousands separators, the average score with one decimal and a missing
// value as "-".
func FormatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return "-"
	case int:
		return numbers.Sprintf("%d", n)
	case float64:
		if n == float64(int64(n)) {
			return numbers.Sprintf("%d", int64(n))
		}
		return numbers.Sprintf("%.1f", n)
	default:
		return fmt.Sprint(v)
	}
}
