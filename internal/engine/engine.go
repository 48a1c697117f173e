// Package engine maps a sparse security configuration onto the fixed
// catalogue of security checks and aggregates pass/fail results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
	"github.com/eaiti/eai-security-check-sub001/internal/checker"
	"github.com/eaiti/eai-security-check-sub001/internal/config"
	"github.com/eaiti/eai-security-check-sub001/internal/report"
	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// Stable setting identifiers, in catalogue order.
const (
	SettingDiskEncryption       = "Disk Encryption"
	SettingPasswordProtection   = "Password Protection"
	SettingPasswordImmediately  = "Require Password Immediately"
	SettingPasswordPolicy       = "Password Policy"
	SettingPasswordMinLength    = "Password Minimum Length"
	SettingAutoLock             = "Auto-lock Timeout"
	SettingFirewall             = "Firewall"
	SettingFirewallStealth      = "Firewall Stealth Mode"
	SettingPackageVerification  = "Package Verification"
	SettingSystemIntegrity      = "System Integrity Protection"
	SettingRemoteLogin          = "Remote Login"
	SettingRemoteManagement     = "Remote Management"
	SettingAutomaticUpdates     = "Automatic Updates"
	SettingAutomaticUpdateMode  = "Automatic Update Mode"
	SettingSecurityUpdates      = "Security Updates"
	SettingFileSharing          = "File Sharing"
	SettingScreenSharing        = "Screen Sharing"
	SettingOSVersion            = "OS Version"
	SettingWifiNetworkSecurity  = "WiFi Network Security"
)

// ErrNilConfig is returned when Audit is called without a configuration.
var ErrNilConfig = errors.New("security config is required")

// VersionResolver resolves "latest" OS version targets. Implementations
// must not fail: on lookup problems they return a last-known value.
type VersionResolver interface {
	Resolve(ctx context.Context, platform string) string
}

// Engine evaluates a SecurityConfig against a Checker's probes.
type Engine struct {
	checker  checker.Checker
	resolver VersionResolver
	log      *logger.Logger
	now      func() time.Time
}

// New creates an engine for the given checker and version resolver.
func New(chk checker.Checker, resolver VersionResolver, log *logger.Logger) *Engine {
	return &Engine{
		checker:  chk,
		resolver: resolver,
		log:      log.WithComponent("engine"),
		now:      time.Now,
	}
}

// category binds one security dimension to its presence check and evaluator.
type category struct {
	name       string
	configured func(*config.SecurityConfig) bool
	evaluate   func(context.Context, *config.SecurityConfig) []audit.CheckResult
}

// catalogue is the fixed, ordered evaluation list. Result order follows
// this declaration order regardless of how the config file arranges its
// sections.
func (e *Engine) catalogue() []category {
	return []category{
		{"disk_encryption", func(c *config.SecurityConfig) bool { return c.DiskEncryption != nil }, e.evalDiskEncryption},
		{"password_protection", func(c *config.SecurityConfig) bool { return c.PasswordProtection != nil }, e.evalPasswordProtection},
		{"password_policy", func(c *config.SecurityConfig) bool { return c.Password != nil }, e.evalPasswordPolicy},
		{"auto_lock", func(c *config.SecurityConfig) bool { return c.AutoLock != nil }, e.evalAutoLock},
		{"firewall", func(c *config.SecurityConfig) bool { return c.Firewall != nil }, e.evalFirewall},
		{"package_verification", func(c *config.SecurityConfig) bool { return c.PackageVerification != nil }, e.evalPackageVerification},
		{"system_integrity", func(c *config.SecurityConfig) bool { return c.SystemIntegrityProtection != nil }, e.evalSystemIntegrity},
		{"remote_login", func(c *config.SecurityConfig) bool { return c.RemoteLogin != nil }, e.evalRemoteLogin},
		{"remote_management", func(c *config.SecurityConfig) bool { return c.RemoteManagement != nil }, e.evalRemoteManagement},
		{"automatic_updates", func(c *config.SecurityConfig) bool { return c.AutomaticUpdates != nil }, e.evalAutomaticUpdates},
		{"sharing_services", func(c *config.SecurityConfig) bool { return c.SharingServices != nil }, e.evalSharingServices},
		{"os_version", func(c *config.SecurityConfig) bool { return c.OSVersion != nil }, e.evalOSVersion},
		{"wifi_security", func(c *config.SecurityConfig) bool { return c.WifiSecurity != nil }, e.evalWifiSecurity},
	}
}

// Audit evaluates every configured category in catalogue order. Probes are
// awaited sequentially: they shell out to system utilities that should not
// run in unbounded parallel bursts, and sequential order keeps results
// deterministic. An abandoned context discards the partial run entirely.
func (e *Engine) Audit(ctx context.Context, cfg *config.SecurityConfig) (*audit.SecurityReport, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	start := e.now()
	var results []audit.CheckResult
	for _, cat := range e.catalogue() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("audit abandoned: %w", err)
		}
		if !cat.configured(cfg) {
			continue
		}
		catResults := cat.evaluate(ctx, cfg)
		for _, r := range catResults {
			e.log.Debug().
				Str("setting", r.Setting).
				Bool("passed", r.Passed).
				Str("actual", r.Actual).
				Msg("check evaluated")
		}
		results = append(results, catResults...)
	}

	rep := audit.NewReport(start, results)
	passed, failed := rep.Counts()
	e.log.Info().
		Int("passed", passed).
		Int("failed", failed).
		Bool("overall", rep.OverallPassed).
		Dur("duration", time.Since(start)).
		Msg("audit completed")
	return rep, nil
}

// GenerateReport runs an audit and renders the full human-readable report,
// including a non-fatal platform support warning when the host is outside
// the supported matrix.
func (e *Engine) GenerateReport(ctx context.Context, cfg *config.SecurityConfig) (string, error) {
	rep, err := e.Audit(ctx, cfg)
	if err != nil {
		return "", err
	}
	return report.Render(rep, e.PlatformWarning(ctx)), nil
}

// GenerateQuietReport runs an audit and returns the one-line summary.
func (e *Engine) GenerateQuietReport(ctx context.Context, cfg *config.SecurityConfig) (string, error) {
	rep, err := e.Audit(ctx, cfg)
	if err != nil {
		return "", err
	}
	return report.Summary(rep), nil
}

// PlatformWarning reports a non-fatal support warning for hosts outside the
// tested platform matrix. An empty string means fully supported. The audit
// proceeds either way.
func (e *Engine) PlatformWarning(ctx context.Context) string {
	info := e.checker.Platform(ctx)
	switch info.OS {
	case "darwin":
		if info.Version != "" && CompareVersions(info.Version, "14.0") < 0 {
			return fmt.Sprintf("macOS %s is older than the tested baseline (14.0); results may be incomplete", info.Version)
		}
	case "linux":
		switch info.Distribution {
		case "ubuntu", "debian", "fedora", "rhel", "centos":
			// Tested distributions.
		case "":
			return "unable to identify Linux distribution; results may be incomplete"
		default:
			return fmt.Sprintf("Linux distribution %q is untested; results may be incomplete", info.Distribution)
		}
	case "windows":
		if info.Version != "" && CompareVersions(info.Version, "10.0") < 0 {
			return fmt.Sprintf("Windows %s is older than the tested baseline (10.0); results may be incomplete", info.Version)
		}
	}
	return ""
}
