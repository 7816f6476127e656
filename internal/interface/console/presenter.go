package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alem-hub/gradebook/internal/domain/gradebook"
)

// ══════════════════════════════════════════════════════════════════════════════
// STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	headerColor  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	successColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	statsColor   = lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#C084FC"}
)

const separatorWidth = 28

type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
	muted   lipgloss.Style
	stats   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Foreground(headerColor).Bold(true),
		success: r.NewStyle().Foreground(successColor),
		warning: r.NewStyle().Foreground(warningColor),
		error:   r.NewStyle().Foreground(errorColor),
		muted:   r.NewStyle().Foreground(mutedColor),
		stats:   r.NewStyle().Foreground(statsColor).Bold(true),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// ══════════════════════════════════════════════════════════════════════════════

// Presenter writes tracker output. With color disabled, or when out is not a
// terminal, it writes plain text.
type Presenter struct {
	out    io.Writer
	color  bool
	styles styles
}

// NewPresenter creates a presenter on out.
func NewPresenter(out io.Writer, color bool) *Presenter {
	return &Presenter{
		out:    out,
		color:  color,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

func (p *Presenter) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *Presenter) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(p.out, p.render(style, fmt.Sprintf(format, args...)))
}

// Prompt writes text without a trailing newline.
func (p *Presenter) Prompt(text string) {
	fmt.Fprint(p.out, text)
}

// Menu prints the main menu.
func (p *Presenter) Menu() {
	sep := strings.Repeat("-", separatorWidth)
	p.line(p.styles.muted, "%s", sep)
	p.line(p.styles.header, "---Student Grade Analyzer---")
	fmt.Fprintln(p.out, "1. Add a new student")
	fmt.Fprintln(p.out, "2. Add grades for a student")
	fmt.Fprintln(p.out, "3. Generate full report")
	fmt.Fprintln(p.out, "4. Find the best student")
	fmt.Fprintln(p.out, "5. Exit")
	p.line(p.styles.muted, "%s", sep)
}

// ChoiceDivider is printed after a menu choice is read.
func (p *Presenter) ChoiceDivider() {
	p.line(p.styles.muted, "%s", strings.Repeat("- ", 11))
}

func (p *Presenter) Success(format string, args ...any) {
	p.line(p.styles.success, format, args...)
}

func (p *Presenter) Warning(format string, args ...any) {
	p.line(p.styles.warning, format, args...)
}

func (p *Presenter) Error(format string, args ...any) {
	p.line(p.styles.error, format, args...)
}

func (p *Presenter) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Report prints per-student averages followed by registry-wide statistics.
func (p *Presenter) Report(r gradebook.Report) {
	if r.Outcome == gradebook.OutcomeEmptyRoster {
		p.Warning("There is no list of students")
		return
	}

	for _, row := range r.Rows {
		if row.HasGrades {
			p.Info("%s's average grade is %s.", row.Name, formatAverage(row.Average))
		} else {
			p.Info("%s's average grade is: N/A.", row.Name)
		}
	}

	if r.Outcome == gradebook.OutcomeNoGrades {
		p.Warning("No grades to analyze!")
		return
	}

	p.line(p.styles.muted, "%s", strings.Repeat("-", separatorWidth))
	p.line(p.styles.stats, "Max grade: %s", formatAverage(r.Stats.Max))
	p.line(p.styles.stats, "Min grade: %s", formatAverage(r.Stats.Min))
	p.line(p.styles.stats, "Overall average: %s", formatAverage(r.Stats.Overall))
}

// Best prints the best student.
func (p *Presenter) Best(b gradebook.Best) {
	p.Success("The student with the highest average is %s with a grade of %s.", b.Name, formatAverage(b.Average))
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
