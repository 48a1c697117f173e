package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
	"github.com/eaiti/eai-security-check-sub001/internal/report"
)

var reportTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func sampleReport() *audit.SecurityReport {
	return audit.NewReport(reportTime, []audit.CheckResult{
		{Setting: "Disk Encryption", Expected: "enabled", Actual: "enabled", Passed: true, Message: "Disk Encryption is enabled as required"},
		{Setting: "Firewall", Expected: "enabled", Actual: "disabled", Passed: false, Message: "Firewall is disabled but should be enabled"},
	})
}

func sampleMeta() report.Metadata {
	return report.Metadata{
		Platform:    "darwin",
		Hostname:    "audit-host",
		GeneratedAt: reportTime,
	}
}

func TestSummary(t *testing.T) {
	got := report.Summary(sampleReport())
	assert.Equal(t, "Security audit FAILED: 1 passed, 1 failed (Jun 15, 2025)", got)

	passing := audit.NewReport(reportTime, []audit.CheckResult{
		{Setting: "Firewall", Passed: true},
	})
	assert.Equal(t, "Security audit PASSED: 1 passed, 0 failed (Jun 15, 2025)", report.Summary(passing))
}

func TestSummaryEmptyReportPasses(t *testing.T) {
	empty := audit.NewReport(reportTime, nil)
	got := report.Summary(empty)
	assert.Contains(t, got, "PASSED")
	assert.Contains(t, got, "0 passed, 0 failed")
}

func TestStripANSI(t *testing.T) {
	colored := "\x1b[1m\x1b[38;5;196m❌ Firewall\x1b[0m plain tail"
	assert.Equal(t, "❌ Firewall plain tail", report.StripANSI(colored))

	// Already-plain text is untouched.
	assert.Equal(t, "nothing to strip", report.StripANSI("nothing to strip"))
}

func TestRenderContainsVerdictAndDetails(t *testing.T) {
	rendered := report.Render(sampleReport(), "")
	plain := report.StripANSI(rendered)

	assert.Contains(t, plain, "Security Audit Report")
	assert.Contains(t, plain, "✅ Disk Encryption")
	assert.Contains(t, plain, "❌ Firewall")
	assert.Contains(t, plain, "expected: enabled, actual: disabled")
	assert.Contains(t, plain, "Overall: ❌ FAILED")
}

func TestRenderPlatformWarning(t *testing.T) {
	rendered := report.Render(sampleReport(), "Linux distribution \"arch\" is untested; results may be incomplete")
	assert.Contains(t, report.StripANSI(rendered), "⚠️")

	noWarn := report.Render(sampleReport(), "")
	assert.NotContains(t, report.StripANSI(noWarn), "⚠️")
}

func TestRenderDeterministic(t *testing.T) {
	// Rendered text gets signed; two renders of one report must be
	// byte-identical.
	rep := sampleReport()
	assert.Equal(t, report.Render(rep, ""), report.Render(rep, ""))
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"console", "plain", "markdown", "json", "email"} {
		f, err := report.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, report.Format(name), f)
	}

	_, err := report.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFormatPlainStripsColor(t *testing.T) {
	rendered := report.Render(sampleReport(), "")
	doc, err := report.FormatReport(sampleReport(), rendered, report.FormatPlain, sampleMeta())
	require.NoError(t, err)

	assert.NotContains(t, doc.Content, "\x1b[")
	assert.Contains(t, doc.Content, "Overall: ❌ FAILED")
	assert.Equal(t, "security-report-audit-host-20250615-103000.txt", doc.Filename)
}

func TestFormatMarkdown(t *testing.T) {
	doc, err := report.FormatReport(sampleReport(), "", report.FormatMarkdown, sampleMeta())
	require.NoError(t, err)

	assert.Contains(t, doc.Content, "# Security Audit Report")
	assert.Contains(t, doc.Content, "**Overall: FAILED**")
	assert.Contains(t, doc.Content, "| Check | Expected | Actual | Status |")
	assert.Contains(t, doc.Content, "| Firewall | enabled | disabled | FAIL |")
	assert.Contains(t, doc.Content, "- **Firewall**: Firewall is disabled but should be enabled")
	assert.True(t, strings.HasSuffix(doc.Filename, ".md"))
}

func TestFormatJSON(t *testing.T) {
	doc, err := report.FormatReport(sampleReport(), "", report.FormatJSON, sampleMeta())
	require.NoError(t, err)

	var payload struct {
		Metadata report.Metadata      `json:"metadata"`
		Report   audit.SecurityReport `json:"report"`
		Summary  string               `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc.Content), &payload))

	assert.Equal(t, "audit-host", payload.Metadata.Hostname)
	assert.False(t, payload.Report.OverallPassed)
	assert.Len(t, payload.Report.Results, 2)
	assert.Contains(t, payload.Summary, "FAILED")
	assert.True(t, strings.HasSuffix(doc.Filename, ".json"))
}

func TestFormatEmail(t *testing.T) {
	rendered := report.Render(sampleReport(), "")
	doc, err := report.FormatReport(sampleReport(), rendered, report.FormatEmail, sampleMeta())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.Content, "Subject: Security Audit FAILED - audit-host\n"))
	assert.Contains(t, doc.Content, "Security audit FAILED: 1 passed, 1 failed")
	assert.NotContains(t, doc.Content, "\x1b[")
	assert.Contains(t, doc.Content, "Sent by eai-security-check")
}

func TestFilenameFallbackHost(t *testing.T) {
	meta := sampleMeta()
	meta.Hostname = ""
	doc, err := report.FormatReport(sampleReport(), "", report.FormatMarkdown, meta)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.Filename, "security-report-unknown-host-"))
}
