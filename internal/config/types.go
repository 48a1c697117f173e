// Package config defines the security configuration that drives an audit.
package config

// SecurityConfig is the declarative audit configuration. Every section is
// optional: a nil section means "do not evaluate this category", never a
// failing check. Optional sub-fields within a section gate whether a
// granular result is emitted for that dimension.
type SecurityConfig struct {
	DiskEncryption            *DiskEncryptionConfig            `yaml:"diskEncryption,omitempty" json:"diskEncryption,omitempty"`
	PasswordProtection        *PasswordProtectionConfig        `yaml:"passwordProtection,omitempty" json:"passwordProtection,omitempty"`
	Password                  *PasswordPolicyConfig            `yaml:"password,omitempty" json:"password,omitempty"`
	AutoLock                  *AutoLockConfig                  `yaml:"autoLock,omitempty" json:"autoLock,omitempty"`
	Firewall                  *FirewallConfig                  `yaml:"firewall,omitempty" json:"firewall,omitempty"`
	PackageVerification       *PackageVerificationConfig       `yaml:"packageVerification,omitempty" json:"packageVerification,omitempty"`
	SystemIntegrityProtection *SystemIntegrityProtectionConfig `yaml:"systemIntegrityProtection,omitempty" json:"systemIntegrityProtection,omitempty"`
	RemoteLogin               *RemoteLoginConfig               `yaml:"remoteLogin,omitempty" json:"remoteLogin,omitempty"`
	RemoteManagement          *RemoteManagementConfig          `yaml:"remoteManagement,omitempty" json:"remoteManagement,omitempty"`
	AutomaticUpdates          *AutomaticUpdatesConfig          `yaml:"automaticUpdates,omitempty" json:"automaticUpdates,omitempty"`
	SharingServices           *SharingServicesConfig           `yaml:"sharingServices,omitempty" json:"sharingServices,omitempty"`
	OSVersion                 *OSVersionConfig                 `yaml:"osVersion,omitempty" json:"osVersion,omitempty"`
	WifiSecurity              *WifiSecurityConfig              `yaml:"wifiSecurity,omitempty" json:"wifiSecurity,omitempty"`
}

// DiskEncryptionConfig checks full-disk encryption (FileVault, LUKS, BitLocker).
type DiskEncryptionConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// PasswordProtectionConfig checks that a password is required to unlock the
// machine. RequirePasswordImmediately additionally checks the wake/screensaver
// grace period when present.
type PasswordProtectionConfig struct {
	Enabled                    bool  `yaml:"enabled" json:"enabled"`
	RequirePasswordImmediately *bool `yaml:"requirePasswordImmediately,omitempty" json:"requirePasswordImmediately,omitempty"`
}

// PasswordPolicyConfig checks the local account password policy.
type PasswordPolicyConfig struct {
	Required  bool `yaml:"required" json:"required"`
	MinLength *int `yaml:"minLength,omitempty" json:"minLength,omitempty"`
}

// AutoLockConfig checks the screen auto-lock timeout. A machine passes when
// its timeout is non-zero and at most MaxTimeoutMinutes.
type AutoLockConfig struct {
	MaxTimeoutMinutes int `yaml:"maxTimeoutMinutes" json:"maxTimeoutMinutes"`
}

// FirewallConfig checks the host firewall, optionally including stealth mode.
type FirewallConfig struct {
	Enabled     bool  `yaml:"enabled" json:"enabled"`
	StealthMode *bool `yaml:"stealthMode,omitempty" json:"stealthMode,omitempty"`
}

// PackageVerificationConfig checks package/application verification
// (Gatekeeper on macOS, package signature verification elsewhere).
type PackageVerificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// SystemIntegrityProtectionConfig checks OS integrity protection (SIP on
// macOS, verified/secure boot elsewhere).
type SystemIntegrityProtectionConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// RemoteLoginConfig checks SSH/remote login state.
type RemoteLoginConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// RemoteManagementConfig checks remote management/desktop services.
type RemoteManagementConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// AutomaticUpdatesConfig checks automatic update behavior.
//
// The granular mode fields are evaluated in precedence order: DownloadOnly
// first, then AutomaticInstall, then a generic "at least download-only"
// fallback. SecurityUpdatesOnly is the legacy field and wins over
// AutomaticSecurityInstall when both are set.
type AutomaticUpdatesConfig struct {
	Enabled                  bool  `yaml:"enabled" json:"enabled"`
	DownloadOnly             *bool `yaml:"downloadOnly,omitempty" json:"downloadOnly,omitempty"`
	AutomaticInstall         *bool `yaml:"automaticInstall,omitempty" json:"automaticInstall,omitempty"`
	SecurityUpdatesOnly      *bool `yaml:"securityUpdatesOnly,omitempty" json:"securityUpdatesOnly,omitempty"`
	AutomaticSecurityInstall *bool `yaml:"automaticSecurityInstall,omitempty" json:"automaticSecurityInstall,omitempty"`
}

// SharingServicesConfig checks file and screen sharing services. Each field
// is only evaluated when explicitly present.
type SharingServicesConfig struct {
	FileSharing   *bool `yaml:"fileSharing,omitempty" json:"fileSharing,omitempty"`
	ScreenSharing *bool `yaml:"screenSharing,omitempty" json:"screenSharing,omitempty"`
}

// OSVersionConfig checks the minimum OS version. TargetVersion is a dotted
// numeric version, or "latest" to resolve the newest release at audit time.
type OSVersionConfig struct {
	TargetVersion string `yaml:"targetVersion" json:"targetVersion"`
}

// WifiSecurityConfig flags connections to disallowed WiFi networks.
type WifiSecurityConfig struct {
	BannedNetworks []string `yaml:"bannedNetworks" json:"bannedNetworks"`
}

// IsEmpty reports whether no section is configured. An empty config produces
// an empty, vacuously passing report.
func (c *SecurityConfig) IsEmpty() bool {
	return c.DiskEncryption == nil &&
		c.PasswordProtection == nil &&
		c.Password == nil &&
		c.AutoLock == nil &&
		c.Firewall == nil &&
		c.PackageVerification == nil &&
		c.SystemIntegrityProtection == nil &&
		c.RemoteLogin == nil &&
		c.RemoteManagement == nil &&
		c.AutomaticUpdates == nil &&
		c.SharingServices == nil &&
		c.OSVersion == nil &&
		c.WifiSecurity == nil
}
