package checker

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// windowsChecker probes Windows through PowerShell (BitLocker, firewall
// profiles, Windows Update policy, SMB shares, WLAN state).
type windowsChecker struct {
	run *runner
	log *logger.Logger
}

func newWindowsChecker(log *logger.Logger) *windowsChecker {
	return &windowsChecker{
		run: newRunner(log),
		log: log.WithComponent("checker.windows"),
	}
}

func (c *windowsChecker) Platform(ctx context.Context) PlatformInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return PlatformInfo{
		OS:       "windows",
		Version:  c.OSVersion(ctx),
		Hostname: hostname,
	}
}

func (c *windowsChecker) DiskEncryption(ctx context.Context) bool {
	result := c.run.run(ctx, "disk_encryption",
		"(Get-BitLockerVolume -MountPoint $env:SystemDrive).ProtectionStatus")
	if !result.Succeeded() {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "on") ||
		result.TrimmedStdout() == "1"
}

func (c *windowsChecker) PasswordProtection(ctx context.Context) PasswordProtectionInfo {
	info := PasswordProtectionInfo{}
	result := c.run.run(ctx, "password_protection",
		"Get-ItemPropertyValue 'HKCU:\\Control Panel\\Desktop' -Name ScreenSaverIsSecure")
	if result.Succeeded() {
		info.Enabled = result.TrimmedStdout() == "1"
	}
	// Windows prompts immediately once the secure screensaver engages.
	info.RequirePasswordImmediately = info.Enabled
	return info
}

func (c *windowsChecker) PasswordPolicy(ctx context.Context) PasswordPolicyInfo {
	info := PasswordPolicyInfo{}
	result := c.run.run(ctx, "password_policy", "net accounts")
	if !result.Succeeded() {
		return info
	}
	minLen := parseNetAccountsMinLength(result.Stdout)
	info.MinLength = minLen
	info.RequiredForLogin = minLen > 0
	return info
}

func (c *windowsChecker) AutoLockTimeoutMinutes(ctx context.Context) int {
	result := c.run.run(ctx, "auto_lock",
		"Get-ItemPropertyValue 'HKCU:\\Control Panel\\Desktop' -Name ScreenSaveTimeOut")
	if !result.Succeeded() {
		return 0
	}
	seconds, err := strconv.Atoi(result.TrimmedStdout())
	if err != nil {
		return 0
	}
	return seconds / 60
}

func (c *windowsChecker) Firewall(ctx context.Context) FirewallInfo {
	info := FirewallInfo{}
	result := c.run.run(ctx, "firewall",
		"(Get-NetFirewallProfile | Where-Object Enabled -eq $true | Measure-Object).Count")
	if !result.Succeeded() {
		return info
	}
	count, err := strconv.Atoi(result.TrimmedStdout())
	if err == nil && count > 0 {
		info.Enabled = true
	}
	// Closest analog: do not respond to unsolicited inbound traffic.
	stealth := c.run.run(ctx, "firewall",
		"(Get-NetFirewallProfile -Name Public).DefaultInboundAction")
	if stealth.Succeeded() {
		info.StealthMode = strings.Contains(strings.ToLower(stealth.Stdout), "block")
	}
	return info
}

func (c *windowsChecker) PackageVerification(ctx context.Context) bool {
	result := c.run.run(ctx, "package_verification",
		"Get-ItemPropertyValue 'HKLM:\\SOFTWARE\\Microsoft\\Windows\\CurrentVersion\\Explorer' -Name SmartScreenEnabled")
	if !result.Succeeded() {
		return false
	}
	value := strings.ToLower(result.TrimmedStdout())
	return value == "requireadmin" || value == "warn" || value == "on"
}

func (c *windowsChecker) SystemIntegrityProtection(ctx context.Context) bool {
	result := c.run.run(ctx, "system_integrity", "Confirm-SecureBootUEFI")
	if !result.Succeeded() {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "true")
}

func (c *windowsChecker) RemoteLogin(ctx context.Context) bool {
	result := c.run.run(ctx, "remote_login", "(Get-Service -Name sshd -ErrorAction SilentlyContinue).Status")
	return strings.Contains(strings.ToLower(result.Stdout), "running")
}

func (c *windowsChecker) RemoteManagement(ctx context.Context) bool {
	result := c.run.run(ctx, "remote_management",
		"(Get-Service -Name WinRM).Status; (Get-Service -Name TermService).Status")
	return strings.Contains(strings.ToLower(result.Stdout), "running")
}

func (c *windowsChecker) AutomaticUpdates(ctx context.Context) UpdatesInfo {
	result := c.run.run(ctx, "automatic_updates",
		"Get-ItemPropertyValue 'HKLM:\\SOFTWARE\\Policies\\Microsoft\\Windows\\WindowsUpdate\\AU' -Name AUOptions")
	if !result.Succeeded() {
		// No policy key set means the default automatic behavior.
		return UpdatesInfo{
			Enabled:                  true,
			Mode:                     UpdateModeFullyAutomatic,
			AutomaticInstall:         true,
			AutomaticSecurityInstall: true,
		}
	}
	return parseAUOptions(result.TrimmedStdout())
}

func (c *windowsChecker) SharingServices(ctx context.Context) SharingInfo {
	info := SharingInfo{}
	shares := c.run.run(ctx, "sharing_services",
		"(Get-SmbShare | Where-Object {$_.Name -notmatch '\\$$'} | Measure-Object).Count")
	if shares.Succeeded() {
		count, err := strconv.Atoi(shares.TrimmedStdout())
		info.FileSharing = err == nil && count > 0
	}
	rdp := c.run.run(ctx, "sharing_services",
		"Get-ItemPropertyValue 'HKLM:\\SYSTEM\\CurrentControlSet\\Control\\Terminal Server' -Name fDenyTSConnections")
	if rdp.Succeeded() {
		info.ScreenSharing = rdp.TrimmedStdout() == "0"
	}
	return info
}

func (c *windowsChecker) OSVersion(ctx context.Context) string {
	result := c.run.run(ctx, "os_version", "[System.Environment]::OSVersion.Version.ToString()")
	if !result.Succeeded() {
		return ""
	}
	return result.TrimmedStdout()
}

func (c *windowsChecker) CurrentWifiNetwork(ctx context.Context) WifiInfo {
	result := c.run.run(ctx, "wifi_network", "netsh wlan show interfaces")
	if !result.Succeeded() {
		return WifiInfo{}
	}
	return parseNetshWlan(result.Stdout)
}

// parseNetAccountsMinLength extracts the minimum password length from
// `net accounts` output. "None" means no minimum.
func parseNetAccountsMinLength(output string) int {
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "minimum password length") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return 0
		}
		n, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// parseAUOptions maps the Windows Update AUOptions policy value onto an
// UpdatesInfo. 2=notify, 3=download, 4=install automatically.
func parseAUOptions(value string) UpdatesInfo {
	info := UpdatesInfo{}
	n, err := strconv.Atoi(value)
	if err != nil {
		info.Mode = UpdateModeDisabled
		return info
	}
	switch n {
	case 4:
		info.Enabled = true
		info.AutomaticInstall = true
		info.AutomaticSecurityInstall = true
		info.Mode = UpdateModeFullyAutomatic
	case 3:
		info.Enabled = true
		info.Mode = UpdateModeDownloadOnly
	case 2:
		info.Enabled = true
		info.Mode = UpdateModeCheckOnly
	default:
		info.Mode = UpdateModeDisabled
	}
	return info
}

// parseNetshWlan extracts the joined SSID from `netsh wlan show interfaces`.
func parseNetshWlan(output string) WifiInfo {
	connected := false
	ssid := ""
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "state":
			connected = strings.EqualFold(value, "connected")
		case "ssid":
			if ssid == "" {
				ssid = value
			}
		}
	}
	if connected && ssid != "" {
		return WifiInfo{Connected: true, Network: ssid}
	}
	return WifiInfo{}
}
