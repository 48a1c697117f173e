// Package checker probes live system state for each security dimension.
//
// Probes never return errors: any command failure is logged once at this
// boundary and coerced to the insecure default fact ("not enabled", zero, or
// unknown). The evaluation engine treats a failed probe and a genuinely
// disabled feature identically.
package checker

import "context"

// UpdateMode describes how a system applies software updates.
type UpdateMode string

const (
	UpdateModeDisabled       UpdateMode = "disabled"
	UpdateModeCheckOnly      UpdateMode = "check-only"
	UpdateModeDownloadOnly   UpdateMode = "download-only"
	UpdateModeFullyAutomatic UpdateMode = "fully-automatic"
)

// PlatformInfo identifies the host platform for support pre-checks and
// report metadata.
type PlatformInfo struct {
	OS           string // "darwin", "linux", "windows"
	Distribution string // Linux distribution ID, empty elsewhere
	Version      string // OS or distribution version, empty if unknown
	Hostname     string
}

// PasswordProtectionInfo reports whether unlocking the machine requires a
// password and whether it is demanded immediately after sleep/screensaver.
type PasswordProtectionInfo struct {
	Enabled                    bool
	RequirePasswordImmediately bool
}

// PasswordPolicyInfo reports the local account password policy.
type PasswordPolicyInfo struct {
	RequiredForLogin bool
	MinLength        int
}

// FirewallInfo reports host firewall state.
type FirewallInfo struct {
	Enabled     bool
	StealthMode bool
}

// UpdatesInfo reports automatic update configuration.
type UpdatesInfo struct {
	Enabled                  bool
	Mode                     UpdateMode
	AutomaticInstall         bool
	AutomaticSecurityInstall bool
}

// SharingInfo reports file and screen sharing service state.
type SharingInfo struct {
	FileSharing   bool
	ScreenSharing bool
}

// WifiInfo reports the currently joined wireless network, if any.
type WifiInfo struct {
	Connected bool
	Network   string
}

// Checker exposes one probe per security dimension. Implementations are
// selected per platform at startup; the engine only depends on this
// interface. Probes are independent, idempotent reads of system state and
// must resolve within a bounded time (each shells out under a timeout).
type Checker interface {
	Platform(ctx context.Context) PlatformInfo
	DiskEncryption(ctx context.Context) bool
	PasswordProtection(ctx context.Context) PasswordProtectionInfo
	PasswordPolicy(ctx context.Context) PasswordPolicyInfo
	AutoLockTimeoutMinutes(ctx context.Context) int
	Firewall(ctx context.Context) FirewallInfo
	PackageVerification(ctx context.Context) bool
	SystemIntegrityProtection(ctx context.Context) bool
	RemoteLogin(ctx context.Context) bool
	RemoteManagement(ctx context.Context) bool
	AutomaticUpdates(ctx context.Context) UpdatesInfo
	SharingServices(ctx context.Context) SharingInfo
	OSVersion(ctx context.Context) string
	CurrentWifiNetwork(ctx context.Context) WifiInfo
}
