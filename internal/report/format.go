package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
)

// Format names a textual representation of a report.
type Format string

const (
	FormatConsole  Format = "console"
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatEmail    Format = "email"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatConsole, FormatPlain, FormatMarkdown, FormatJSON, FormatEmail:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown report format %q", name)
	}
}

// Metadata carries host context for filenames and email/JSON headers.
type Metadata struct {
	Platform    string    `json:"platform"`
	Hostname    string    `json:"hostname"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Document is a formatted report plus a suggested filename.
type Document struct {
	Content  string
	Filename string
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes terminal color escape sequences.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// FormatReport converts a report into the requested representation. The
// console format passes the rendered text through unchanged; structured
// formats (markdown, json) are derived from the SecurityReport itself, not
// re-parsed from the rendered text.
func FormatReport(rep *audit.SecurityReport, rendered string, format Format, meta Metadata) (Document, error) {
	switch format {
	case FormatConsole:
		return Document{Content: rendered, Filename: filename(meta, ".txt")}, nil
	case FormatPlain:
		return Document{Content: StripANSI(rendered), Filename: filename(meta, ".txt")}, nil
	case FormatMarkdown:
		return Document{Content: renderMarkdown(rep, meta), Filename: filename(meta, ".md")}, nil
	case FormatJSON:
		content, err := renderJSON(rep, meta)
		if err != nil {
			return Document{}, err
		}
		return Document{Content: content, Filename: filename(meta, ".json")}, nil
	case FormatEmail:
		return Document{Content: renderEmail(rep, rendered, meta), Filename: filename(meta, ".eml")}, nil
	default:
		return Document{}, fmt.Errorf("unknown report format %q", format)
	}
}

func filename(meta Metadata, ext string) string {
	host := meta.Hostname
	if host == "" {
		host = "unknown-host"
	}
	return fmt.Sprintf("security-report-%s-%s%s", host, meta.GeneratedAt.UTC().Format("20060102-150405"), ext)
}

func renderMarkdown(rep *audit.SecurityReport, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString("# Security Audit Report\n\n")
	sb.WriteString(fmt.Sprintf("- **Host**: %s\n", meta.Hostname))
	sb.WriteString(fmt.Sprintf("- **Platform**: %s\n", meta.Platform))
	sb.WriteString(fmt.Sprintf("- **Generated**: %s\n\n", rep.Timestamp))

	if rep.OverallPassed {
		sb.WriteString("**Overall: PASSED**\n\n")
	} else {
		sb.WriteString("**Overall: FAILED**\n\n")
	}

	sb.WriteString("## Results\n\n")
	if len(rep.Results) == 0 {
		sb.WriteString("_No security checks configured._\n")
		return sb.String()
	}

	sb.WriteString("| Check | Expected | Actual | Status |\n")
	sb.WriteString("|-------|----------|--------|--------|\n")
	for _, r := range rep.Results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeTableCell(r.Setting), escapeTableCell(r.Expected), escapeTableCell(r.Actual), status))
	}

	sb.WriteString("\n## Details\n\n")
	for _, r := range rep.Results {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", escapeTableCell(r.Setting), r.Message))
	}
	return sb.String()
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func renderJSON(rep *audit.SecurityReport, meta Metadata) (string, error) {
	payload := struct {
		Metadata Metadata              `json:"metadata"`
		Report   *audit.SecurityReport `json:"report"`
		Summary  string                `json:"summary"`
	}{
		Metadata: meta,
		Report:   rep,
		Summary:  Summary(rep),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

func renderEmail(rep *audit.SecurityReport, rendered string, meta Metadata) string {
	verdict := "PASSED"
	if !rep.OverallPassed {
		verdict = "FAILED"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Subject: Security Audit %s - %s\n\n", verdict, meta.Hostname))
	sb.WriteString("Hello,\n\n")
	sb.WriteString(fmt.Sprintf("Attached is the latest security audit for %s (%s).\n\n", meta.Hostname, meta.Platform))
	sb.WriteString(Summary(rep))
	sb.WriteString("\n\n")
	sb.WriteString(StripANSI(rendered))
	sb.WriteString("\n--\nSent by eai-security-check\n")
	return sb.String()
}
