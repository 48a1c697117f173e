package checker

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

// linuxChecker probes Linux via system utilities (lsblk, gsettings, ufw or
// firewalld, systemctl, nmcli). Desktop-level probes assume a GNOME-family
// session and fall back to the insecure default elsewhere.
type linuxChecker struct {
	run *runner
	log *logger.Logger
}

func newLinuxChecker(log *logger.Logger) *linuxChecker {
	return &linuxChecker{
		run: newRunner(log),
		log: log.WithComponent("checker.linux"),
	}
}

func (c *linuxChecker) Platform(ctx context.Context) PlatformInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	info := PlatformInfo{OS: "linux", Hostname: hostname}
	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		fields := parseOSRelease(string(data))
		info.Distribution = fields["ID"]
		info.Version = fields["VERSION_ID"]
	}
	return info
}

func (c *linuxChecker) DiskEncryption(ctx context.Context) bool {
	result := c.run.run(ctx, "disk_encryption", "lsblk -o TYPE --noheadings")
	if !result.Succeeded() {
		return false
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == "crypt" {
			return true
		}
	}
	return false
}

func (c *linuxChecker) PasswordProtection(ctx context.Context) PasswordProtectionInfo {
	info := PasswordProtectionInfo{}
	lock := c.run.run(ctx, "password_protection",
		"gsettings get org.gnome.desktop.screensaver lock-enabled")
	if lock.Succeeded() {
		info.Enabled = strings.Contains(lock.Stdout, "true")
	}
	if info.Enabled {
		delay := c.run.run(ctx, "password_protection",
			"gsettings get org.gnome.desktop.screensaver lock-delay")
		info.RequirePasswordImmediately = gsettingsUint(delay.Stdout) == 0
	}
	return info
}

func (c *linuxChecker) PasswordPolicy(ctx context.Context) PasswordPolicyInfo {
	info := PasswordPolicyInfo{}
	// Accounts with empty password hashes would show in passwd -S; checking
	// the running user is the best unprivileged approximation.
	status := c.run.run(ctx, "password_policy", "passwd -S $(id -un) 2>/dev/null")
	if status.Succeeded() {
		fields := strings.Fields(status.Stdout)
		info.RequiredForLogin = len(fields) > 1 && fields[1] == "P"
	}
	if data, err := os.ReadFile("/etc/security/pwquality.conf"); err == nil {
		info.MinLength = parsePwQualityMinLen(string(data))
	}
	return info
}

func (c *linuxChecker) AutoLockTimeoutMinutes(ctx context.Context) int {
	idle := c.run.run(ctx, "auto_lock", "gsettings get org.gnome.desktop.session idle-delay")
	if !idle.Succeeded() {
		return 0
	}
	seconds := gsettingsUint(idle.Stdout)
	return seconds / 60
}

func (c *linuxChecker) Firewall(ctx context.Context) FirewallInfo {
	info := FirewallInfo{}
	ufw := c.run.run(ctx, "firewall", "ufw status 2>/dev/null")
	if ufw.Succeeded() && strings.Contains(strings.ToLower(ufw.Stdout), "status: active") {
		info.Enabled = true
		return info
	}
	firewalld := c.run.run(ctx, "firewall", "firewall-cmd --state 2>/dev/null")
	if firewalld.Succeeded() && strings.Contains(firewalld.Stdout, "running") {
		info.Enabled = true
	}
	return info
}

func (c *linuxChecker) PackageVerification(ctx context.Context) bool {
	// Debian family: signed repositories require trusted keys on disk.
	apt := c.run.run(ctx, "package_verification", "ls /etc/apt/trusted.gpg.d 2>/dev/null")
	if apt.Succeeded() && apt.TrimmedStdout() != "" {
		return true
	}
	// RPM family: gpgcheck must be enabled.
	dnf := c.run.run(ctx, "package_verification",
		"grep -hs '^gpgcheck' /etc/dnf/dnf.conf /etc/yum.conf 2>/dev/null")
	return dnf.Succeeded() && strings.Contains(dnf.Stdout, "gpgcheck=1")
}

func (c *linuxChecker) SystemIntegrityProtection(ctx context.Context) bool {
	result := c.run.run(ctx, "system_integrity", "mokutil --sb-state 2>/dev/null")
	if !result.Succeeded() {
		return false
	}
	return strings.Contains(strings.ToLower(result.Stdout), "secureboot enabled")
}

func (c *linuxChecker) RemoteLogin(ctx context.Context) bool {
	result := c.run.run(ctx, "remote_login",
		"systemctl is-active ssh 2>/dev/null || systemctl is-active sshd 2>/dev/null")
	return strings.Contains(result.Stdout, "active")
}

func (c *linuxChecker) RemoteManagement(ctx context.Context) bool {
	result := c.run.run(ctx, "remote_management",
		"systemctl is-active xrdp 2>/dev/null; systemctl --user is-active gnome-remote-desktop 2>/dev/null")
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == "active" {
			return true
		}
	}
	return false
}

func (c *linuxChecker) AutomaticUpdates(ctx context.Context) UpdatesInfo {
	info := UpdatesInfo{}
	apt := c.run.run(ctx, "automatic_updates", "apt-config dump APT::Periodic 2>/dev/null")
	if apt.Succeeded() && apt.TrimmedStdout() != "" {
		return parseAptPeriodic(apt.Stdout)
	}
	dnf := c.run.run(ctx, "automatic_updates",
		"systemctl is-enabled dnf-automatic.timer 2>/dev/null")
	if strings.Contains(dnf.Stdout, "enabled") {
		info.Enabled = true
		info.AutomaticInstall = true
		info.AutomaticSecurityInstall = true
		info.Mode = UpdateModeFullyAutomatic
		return info
	}
	info.Mode = UpdateModeDisabled
	return info
}

func (c *linuxChecker) SharingServices(ctx context.Context) SharingInfo {
	info := SharingInfo{}
	smb := c.run.run(ctx, "sharing_services",
		"systemctl is-active smbd 2>/dev/null || systemctl is-active nfs-server 2>/dev/null")
	info.FileSharing = strings.Contains(smb.Stdout, "active")
	screen := c.run.run(ctx, "sharing_services",
		"systemctl --user is-active gnome-remote-desktop 2>/dev/null; systemctl is-active vncserver 2>/dev/null")
	for _, line := range strings.Split(screen.Stdout, "\n") {
		if strings.TrimSpace(line) == "active" {
			info.ScreenSharing = true
		}
	}
	return info
}

func (c *linuxChecker) OSVersion(ctx context.Context) string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to read os-release")
		return ""
	}
	return parseOSRelease(string(data))["VERSION_ID"]
}

func (c *linuxChecker) CurrentWifiNetwork(ctx context.Context) WifiInfo {
	result := c.run.run(ctx, "wifi_network", "nmcli -t -f active,ssid dev wifi 2>/dev/null")
	if !result.Succeeded() {
		return WifiInfo{}
	}
	return parseNmcliWifi(result.Stdout)
}

// parseOSRelease parses /etc/os-release key=value lines, stripping quotes.
func parseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}

// parseNmcliWifi parses `nmcli -t -f active,ssid dev wifi` terse output,
// looking for the row flagged active.
func parseNmcliWifi(output string) WifiInfo {
	for _, line := range strings.Split(output, "\n") {
		active, ssid, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		if strings.EqualFold(active, "yes") && ssid != "" {
			return WifiInfo{Connected: true, Network: ssid}
		}
	}
	return WifiInfo{}
}

// parseAptPeriodic maps APT::Periodic settings onto an UpdatesInfo.
func parseAptPeriodic(output string) UpdatesInfo {
	info := UpdatesInfo{}
	download := aptPeriodicValue(output, "Download-Upgradeable-Packages") > 0
	unattended := aptPeriodicValue(output, "Unattended-Upgrade") > 0
	updateLists := aptPeriodicValue(output, "Update-Package-Lists") > 0

	info.Enabled = updateLists || download || unattended
	info.AutomaticInstall = unattended
	// unattended-upgrades defaults to the security pocket only.
	info.AutomaticSecurityInstall = unattended
	switch {
	case !info.Enabled:
		info.Mode = UpdateModeDisabled
	case unattended:
		info.Mode = UpdateModeFullyAutomatic
	case download:
		info.Mode = UpdateModeDownloadOnly
	default:
		info.Mode = UpdateModeCheckOnly
	}
	return info
}

// aptPeriodicValue extracts an integer APT::Periodic value, e.g.
// `APT::Periodic::Unattended-Upgrade "1";` yields 1.
func aptPeriodicValue(output, key string) int {
	marker := "APT::Periodic::" + key + " \""
	idx := strings.Index(output, marker)
	if idx < 0 {
		return 0
	}
	rest := output[idx+len(marker):]
	end := strings.Index(rest, "\"")
	if end < 0 {
		return 0
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}

// gsettingsUint parses gsettings output like `uint32 300` or a bare number.
func gsettingsUint(output string) int {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return n
}

// parsePwQualityMinLen extracts minlen from pwquality.conf content.
func parsePwQualityMinLen(content string) int {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "minlen" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			return n
		}
	}
	return 0
}
