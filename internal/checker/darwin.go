package checker

import (
	"context"
	"os"
	"strings"

	"howett.net/plist"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// darwinChecker probes macOS via system utilities (fdesetup, defaults,
// socketfilterfw, spctl, csrutil, systemsetup, networksetup).
type darwinChecker struct {
	run *runner
	log *logger.Logger
}

func newDarwinChecker(log *logger.Logger) *darwinChecker {
	return &darwinChecker{
		run: newRunner(log),
		log: log.WithComponent("checker.darwin"),
	}
}

func (c *darwinChecker) Platform(ctx context.Context) PlatformInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return PlatformInfo{
		OS:       "darwin",
		Version:  c.OSVersion(ctx),
		Hostname: hostname,
	}
}

func (c *darwinChecker) DiskEncryption(ctx context.Context) bool {
	result := c.run.run(ctx, "disk_encryption", "fdesetup status")
	if !result.Succeeded() {
		return false
	}
	return parseFileVaultStatus(result.Stdout)
}

func (c *darwinChecker) PasswordProtection(ctx context.Context) PasswordProtectionInfo {
	prefs := c.screensaverPrefs(ctx)
	info := PasswordProtectionInfo{
		Enabled: plistBool(prefs, "askForPassword", false),
	}
	// Default delay is 0 (immediate) when the key is absent but the lock
	// itself is enabled.
	if info.Enabled {
		info.RequirePasswordImmediately = plistInt(prefs, "askForPasswordDelay", 0) == 0
	}
	return info
}

func (c *darwinChecker) PasswordPolicy(ctx context.Context) PasswordPolicyInfo {
	info := PasswordPolicyInfo{}
	result := c.run.run(ctx, "password_policy", "pwpolicy -getaccountpolicies 2>/dev/null")
	if result.Succeeded() {
		info.MinLength = parsePasswordMinLength(result.Stdout)
	}
	// A login password is required unless auto-login is configured.
	autoLogin := c.run.run(ctx, "password_policy",
		"defaults read /Library/Preferences/com.apple.loginwindow autoLoginUser 2>/dev/null")
	info.RequiredForLogin = !autoLogin.Succeeded() || autoLogin.TrimmedStdout() == ""
	return info
}

func (c *darwinChecker) AutoLockTimeoutMinutes(ctx context.Context) int {
	prefs := c.screensaverPrefs(ctx)
	seconds := plistInt(prefs, "idleTime", -1)
	if seconds < 0 {
		return 0
	}
	return seconds / 60
}

func (c *darwinChecker) Firewall(ctx context.Context) FirewallInfo {
	info := FirewallInfo{}
	state := c.run.run(ctx, "firewall",
		"/usr/libexec/ApplicationFirewall/socketfilterfw --getglobalstate")
	if state.Succeeded() {
		info.Enabled = strings.Contains(strings.ToLower(state.Stdout), "enabled")
	}
	stealth := c.run.run(ctx, "firewall",
		"/usr/libexec/ApplicationFirewall/socketfilterfw --getstealthmode")
	if stealth.Succeeded() {
		info.StealthMode = strings.Contains(strings.ToLower(stealth.Stdout), "enabled")
	}
	return info
}

func (c *darwinChecker) PackageVerification(ctx context.Context) bool {
	result := c.run.run(ctx, "package_verification", "spctl --status")
	if result.Err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "assessments enabled")
}

func (c *darwinChecker) SystemIntegrityProtection(ctx context.Context) bool {
	result := c.run.run(ctx, "system_integrity", "csrutil status")
	if !result.Succeeded() {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "enabled")
}

func (c *darwinChecker) RemoteLogin(ctx context.Context) bool {
	result := c.run.run(ctx, "remote_login", "systemsetup -getremotelogin 2>/dev/null")
	if !result.Succeeded() {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "remote login: on")
}

func (c *darwinChecker) RemoteManagement(ctx context.Context) bool {
	// ARD runs as ARDAgent when remote management is active.
	result := c.run.run(ctx, "remote_management", "ps -ef | grep -v grep | grep ARDAgent")
	return result.Succeeded() && result.TrimmedStdout() != ""
}

func (c *darwinChecker) AutomaticUpdates(ctx context.Context) UpdatesInfo {
	prefs := c.softwareUpdatePrefs(ctx)
	info := UpdatesInfo{
		Enabled:          plistBool(prefs, "AutomaticCheckEnabled", false),
		AutomaticInstall: plistBool(prefs, "AutomaticallyInstallMacOSUpdates", false),
		AutomaticSecurityInstall: plistBool(prefs, "CriticalUpdateInstall", false) ||
			plistBool(prefs, "ConfigDataInstall", false),
	}
	download := plistBool(prefs, "AutomaticDownload", false)
	switch {
	case !info.Enabled:
		info.Mode = UpdateModeDisabled
	case info.AutomaticInstall:
		info.Mode = UpdateModeFullyAutomatic
	case download:
		info.Mode = UpdateModeDownloadOnly
	default:
		info.Mode = UpdateModeCheckOnly
	}
	return info
}

func (c *darwinChecker) SharingServices(ctx context.Context) SharingInfo {
	info := SharingInfo{}
	smb := c.run.run(ctx, "sharing_services", "launchctl list com.apple.smbd 2>/dev/null")
	info.FileSharing = smb.Succeeded()
	screen := c.run.run(ctx, "sharing_services", "launchctl list com.apple.screensharing 2>/dev/null")
	info.ScreenSharing = screen.Succeeded()
	return info
}

func (c *darwinChecker) OSVersion(ctx context.Context) string {
	result := c.run.run(ctx, "os_version", "sw_vers -productVersion")
	if !result.Succeeded() {
		return ""
	}
	return result.TrimmedStdout()
}

func (c *darwinChecker) CurrentWifiNetwork(ctx context.Context) WifiInfo {
	result := c.run.run(ctx, "wifi_network", "networksetup -getairportnetwork en0")
	if result.Err != nil {
		return WifiInfo{}
	}
	return parseAirportNetwork(result.Stdout)
}

// screensaverPrefs reads the per-host screensaver settings as a plist dict.
func (c *darwinChecker) screensaverPrefs(ctx context.Context) map[string]any {
	result := c.run.run(ctx, "screensaver_prefs",
		"defaults -currentHost export com.apple.screensaver -")
	if !result.Succeeded() {
		return nil
	}
	return parsePlistDict(c.log, []byte(result.Stdout))
}

// softwareUpdatePrefs reads the system software update settings as a plist dict.
func (c *darwinChecker) softwareUpdatePrefs(ctx context.Context) map[string]any {
	result := c.run.run(ctx, "softwareupdate_prefs",
		"defaults export /Library/Preferences/com.apple.SoftwareUpdate -")
	if !result.Succeeded() {
		return nil
	}
	return parsePlistDict(c.log, []byte(result.Stdout))
}

// parseFileVaultStatus reports whether fdesetup output indicates FileVault
// is fully on.
func parseFileVaultStatus(output string) bool {
	return strings.Contains(strings.ToLower(output), "filevault is on")
}

// parseAirportNetwork parses `networksetup -getairportnetwork` output.
func parseAirportNetwork(output string) WifiInfo {
	trimmed := strings.TrimSpace(output)
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "not associated") || strings.Contains(lower, "off") {
		return WifiInfo{}
	}
	const prefix = "current wi-fi network:"
	if idx := strings.Index(lower, prefix); idx >= 0 {
		name := strings.TrimSpace(trimmed[idx+len(prefix):])
		if name != "" {
			return WifiInfo{Connected: true, Network: name}
		}
	}
	return WifiInfo{}
}

// parsePasswordMinLength extracts the minimum password length from pwpolicy
// output. Returns 0 when no policy is set.
func parsePasswordMinLength(output string) int {
	// pwpolicy emits policy XML containing e.g. policyAttributePassword
	// matches ".{8,}" style expressions; also accept "minChars=8".
	for _, marker := range []string{"minChars=", "policyAttributeMinimumLength\">"} {
		if idx := strings.Index(output, marker); idx >= 0 {
			rest := output[idx+len(marker):]
			return leadingInt(rest)
		}
	}
	return 0
}

// leadingInt parses the leading decimal digits of s, returning 0 when none.
func leadingInt(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
	}
	if !seen {
		return 0
	}
	return n
}

// parsePlistDict unmarshals an XML or binary plist into a string-keyed map.
func parsePlistDict(log *logger.Logger, data []byte) map[string]any {
	var dict map[string]any
	if _, err := plist.Unmarshal(data, &dict); err != nil {
		log.Warn().Err(err).Msg("failed to parse plist output")
		return nil
	}
	return dict
}

// plistBool reads a boolean plist value, tolerating integer 0/1 encodings.
func plistBool(dict map[string]any, key string, def bool) bool {
	v, ok := dict[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	default:
		return def
	}
}

// plistInt reads an integer plist value.
func plistInt(dict map[string]any, key string, def int) int {
	v, ok := dict[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		return int(t)
	default:
		return def
	}
}
