// Package report renders structured audit results into their textual
// representations and derives the one-line summary.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray
)

// Render produces the full human-annotated console report. The returned
// text is exactly what gets signed, so rendering must be deterministic for
// a given report.
func Render(rep *audit.SecurityReport, platformWarning string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Security Audit Report"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Generated: " + rep.Timestamp))
	sb.WriteString("\n\n")

	if platformWarning != "" {
		sb.WriteString(warnStyle.Render("⚠️  " + platformWarning))
		sb.WriteString("\n\n")
	}

	if len(rep.Results) == 0 {
		sb.WriteString(dimStyle.Render("No security checks configured."))
		sb.WriteString("\n\n")
	}

	for _, r := range rep.Results {
		if r.Passed {
			sb.WriteString(passStyle.Render(fmt.Sprintf("✅ %s: %s", r.Setting, r.Message)))
		} else {
			sb.WriteString(failStyle.Render(fmt.Sprintf("❌ %s: %s", r.Setting, r.Message)))
			sb.WriteString("\n")
			sb.WriteString(dimStyle.Render(fmt.Sprintf("   expected: %s, actual: %s", r.Expected, r.Actual)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if rep.OverallPassed {
		sb.WriteString(passStyle.Render("Overall: ✅ PASSED"))
	} else {
		sb.WriteString(failStyle.Render("Overall: ❌ FAILED"))
	}
	sb.WriteString("\n")

	return sb.String()
}

// Summary derives the one-line summary from the structured report, never by
// re-parsing rendered glyphs. Format: counts plus a short date stamp.
func Summary(rep *audit.SecurityReport) string {
	passed, failed := rep.Counts()

	verdict := "PASSED"
	if !rep.OverallPassed {
		verdict = "FAILED"
	}

	stamp := rep.Timestamp
	if t, err := time.Parse(time.RFC3339, rep.Timestamp); err == nil {
		stamp = t.Format("Jan 2, 2006")
	}

	return fmt.Sprintf("Security audit %s: %d passed, %d failed (%s)", verdict, passed, failed, stamp)
}
