package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned when a profile name has no built-in config.
var ErrUnknownProfile = errors.New("unknown security profile")

// Load reads a SecurityConfig from a YAML file. Unknown keys are rejected so
// a typo in a section name fails loudly instead of silently skipping the
// check. Errors here are fatal to the run: the audit never starts from a
// config it could not fully understand.
func Load(path string) (*SecurityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read security config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a SecurityConfig from raw YAML bytes.
func Parse(data []byte) (*SecurityConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg SecurityConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse security config: %w", err)
	}
	return &cfg, nil
}

// Profile returns one of the built-in named configurations.
func Profile(name string) (*SecurityConfig, error) {
	switch name {
	case "default":
		return defaultProfile(), nil
	case "strict":
		return strictProfile(), nil
	case "relaxed":
		return relaxedProfile(), nil
	case "developer":
		return developerProfile(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// ProfileNames lists the built-in profiles in display order.
func ProfileNames() []string {
	return []string{"default", "strict", "relaxed", "developer"}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

// defaultProfile is a sensible baseline: 7 minute lock, all protections on.
func defaultProfile() *SecurityConfig {
	return &SecurityConfig{
		DiskEncryption: &DiskEncryptionConfig{Enabled: true},
		PasswordProtection: &PasswordProtectionConfig{
			Enabled:                    true,
			RequirePasswordImmediately: boolPtr(true),
		},
		Password:                  &PasswordPolicyConfig{Required: true, MinLength: intPtr(8)},
		AutoLock:                  &AutoLockConfig{MaxTimeoutMinutes: 7},
		Firewall:                  &FirewallConfig{Enabled: true},
		PackageVerification:       &PackageVerificationConfig{Enabled: true},
		SystemIntegrityProtection: &SystemIntegrityProtectionConfig{Enabled: true},
		RemoteLogin:               &RemoteLoginConfig{Enabled: false},
		RemoteManagement:          &RemoteManagementConfig{Enabled: false},
		AutomaticUpdates:          &AutomaticUpdatesConfig{Enabled: true, DownloadOnly: boolPtr(true)},
		SharingServices: &SharingServicesConfig{
			FileSharing:   boolPtr(false),
			ScreenSharing: boolPtr(false),
		},
	}
}

// strictProfile tightens the lock window and requires fully automatic installs.
func strictProfile() *SecurityConfig {
	cfg := defaultProfile()
	cfg.AutoLock = &AutoLockConfig{MaxTimeoutMinutes: 3}
	cfg.Password = &PasswordPolicyConfig{Required: true, MinLength: intPtr(12)}
	cfg.Firewall = &FirewallConfig{Enabled: true, StealthMode: boolPtr(true)}
	cfg.AutomaticUpdates = &AutomaticUpdatesConfig{
		Enabled:          true,
		AutomaticInstall: boolPtr(true),
	}
	return cfg
}

// relaxedProfile widens timeouts for shared or kiosk machines.
func relaxedProfile() *SecurityConfig {
	cfg := defaultProfile()
	cfg.AutoLock = &AutoLockConfig{MaxTimeoutMinutes: 15}
	cfg.PasswordProtection = &PasswordProtectionConfig{Enabled: true}
	cfg.AutomaticUpdates = &AutomaticUpdatesConfig{Enabled: true}
	return cfg
}

// developerProfile tolerates remote login and skips sharing checks, for
// workstations that legitimately run SSH and screen sharing.
func developerProfile() *SecurityConfig {
	cfg := defaultProfile()
	cfg.RemoteLogin = nil
	cfg.RemoteManagement = nil
	cfg.SharingServices = nil
	cfg.AutoLock = &AutoLockConfig{MaxTimeoutMinutes: 10}
	return cfg
}
