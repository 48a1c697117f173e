package engine

import (
	"context"
	"fmt"

	"github.com/eaiti/eai-security-check-sub001/internal/audit"
	"github.com/eaiti/eai-security-check-sub001/internal/checker"
	"github.com/eaiti/eai-security-check-sub001/internal/config"
)

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// boolResult builds the common expected-vs-actual result for a boolean
// security setting.
func boolResult(setting string, expected, actual bool) audit.CheckResult {
	passed := expected == actual
	var message string
	if passed {
		message = fmt.Sprintf("%s is %s as required", setting, onOff(actual))
	} else {
		message = fmt.Sprintf("%s is %s but should be %s", setting, onOff(actual), onOff(expected))
	}
	return audit.CheckResult{
		Setting:  setting,
		Expected: onOff(expected),
		Actual:   onOff(actual),
		Passed:   passed,
		Message:  message,
	}
}

func (e *Engine) evalDiskEncryption(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	actual := e.checker.DiskEncryption(ctx)
	return []audit.CheckResult{boolResult(SettingDiskEncryption, cfg.DiskEncryption.Enabled, actual)}
}

func (e *Engine) evalPasswordProtection(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	section := cfg.PasswordProtection
	fact := e.checker.PasswordProtection(ctx)

	results := []audit.CheckResult{boolResult(SettingPasswordProtection, section.Enabled, fact.Enabled)}
	if section.RequirePasswordImmediately != nil {
		results = append(results, boolResult(SettingPasswordImmediately,
			*section.RequirePasswordImmediately, fact.RequirePasswordImmediately))
	}
	return results
}

func (e *Engine) evalPasswordPolicy(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	section := cfg.Password
	fact := e.checker.PasswordPolicy(ctx)

	primary := boolResult(SettingPasswordPolicy, section.Required, fact.RequiredForLogin)
	primary.Expected = map[bool]string{true: "password required", false: "password optional"}[section.Required]
	primary.Actual = map[bool]string{true: "password required", false: "password not required"}[fact.RequiredForLogin]
	results := []audit.CheckResult{primary}

	if section.MinLength != nil {
		want := *section.MinLength
		passed := fact.MinLength >= want
		message := fmt.Sprintf("minimum password length %d meets required %d", fact.MinLength, want)
		if !passed {
			message = fmt.Sprintf("minimum password length %d is below required %d", fact.MinLength, want)
		}
		results = append(results, audit.CheckResult{
			Setting:  SettingPasswordMinLength,
			Expected: fmt.Sprintf("%d+ characters", want),
			Actual:   fmt.Sprintf("%d characters", fact.MinLength),
			Passed:   passed,
			Message:  message,
		})
	}
	return results
}

func (e *Engine) evalAutoLock(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	maxMinutes := cfg.AutoLock.MaxTimeoutMinutes
	actual := e.checker.AutoLockTimeoutMinutes(ctx)

	result := audit.CheckResult{
		Setting:  SettingAutoLock,
		Expected: fmt.Sprintf("1-%d minutes", maxMinutes),
		Actual:   fmt.Sprintf("%d minutes", actual),
	}
	switch {
	case actual == 0:
		// Zero is "never locks" no matter how generous the configured max.
		result.Actual = "disabled"
		result.Message = "screen auto-lock is disabled"
	case actual > maxMinutes:
		result.Message = fmt.Sprintf("auto-lock timeout of %d minutes exceeds limit of %d minutes", actual, maxMinutes)
	default:
		result.Passed = true
		result.Message = fmt.Sprintf("auto-lock timeout of %d minutes is within the %d minute limit", actual, maxMinutes)
	}
	return []audit.CheckResult{result}
}

func (e *Engine) evalFirewall(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	section := cfg.Firewall
	fact := e.checker.Firewall(ctx)

	results := []audit.CheckResult{boolResult(SettingFirewall, section.Enabled, fact.Enabled)}
	if section.StealthMode != nil {
		results = append(results, boolResult(SettingFirewallStealth, *section.StealthMode, fact.StealthMode))
	}
	return results
}

func (e *Engine) evalPackageVerification(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	actual := e.checker.PackageVerification(ctx)
	return []audit.CheckResult{boolResult(SettingPackageVerification, cfg.PackageVerification.Enabled, actual)}
}

func (e *Engine) evalSystemIntegrity(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	actual := e.checker.SystemIntegrityProtection(ctx)
	return []audit.CheckResult{boolResult(SettingSystemIntegrity, cfg.SystemIntegrityProtection.Enabled, actual)}
}

func (e *Engine) evalRemoteLogin(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	actual := e.checker.RemoteLogin(ctx)
	return []audit.CheckResult{boolResult(SettingRemoteLogin, cfg.RemoteLogin.Enabled, actual)}
}

func (e *Engine) evalRemoteManagement(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	actual := e.checker.RemoteManagement(ctx)
	return []audit.CheckResult{boolResult(SettingRemoteManagement, cfg.RemoteManagement.Enabled, actual)}
}

func (e *Engine) evalAutomaticUpdates(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	section := cfg.AutomaticUpdates
	fact := e.checker.AutomaticUpdates(ctx)

	results := []audit.CheckResult{boolResult(SettingAutomaticUpdates, section.Enabled, fact.Enabled)}

	// Update mode is only meaningful when updates are expected to be on.
	// Precedence chain: downloadOnly first, then automaticInstall, then the
	// generic "at least download-only" condition.
	if section.Enabled {
		results = append(results, evalUpdateMode(section, fact))
	}
	if r, ok := evalSecurityUpdates(section, fact); ok {
		results = append(results, r)
	}
	return results
}

func evalUpdateMode(section *config.AutomaticUpdatesConfig, fact checker.UpdatesInfo) audit.CheckResult {
	result := audit.CheckResult{
		Setting: SettingAutomaticUpdateMode,
		Actual:  string(fact.Mode),
	}
	switch {
	case section.DownloadOnly != nil:
		want := *section.DownloadOnly
		isDownloadOnly := fact.Mode == checker.UpdateModeDownloadOnly
		result.Expected = map[bool]string{true: string(checker.UpdateModeDownloadOnly), false: "not " + string(checker.UpdateModeDownloadOnly)}[want]
		result.Passed = isDownloadOnly == want
	case section.AutomaticInstall != nil:
		want := *section.AutomaticInstall
		result.Expected = "automatic install " + onOff(want)
		result.Actual = "automatic install " + onOff(fact.AutomaticInstall)
		result.Passed = fact.AutomaticInstall == want
	default:
		result.Expected = "download-only or fully-automatic"
		result.Passed = fact.Mode == checker.UpdateModeDownloadOnly ||
			fact.Mode == checker.UpdateModeFullyAutomatic
	}
	if result.Passed {
		result.Message = fmt.Sprintf("update mode is %s", result.Actual)
	} else {
		result.Message = fmt.Sprintf("update mode is %s but should be %s", result.Actual, result.Expected)
	}
	return result
}

// evalSecurityUpdates evaluates the security-updates dimension. The legacy
// securityUpdatesOnly field takes precedence over automaticSecurityInstall
// when both are present.
func evalSecurityUpdates(section *config.AutomaticUpdatesConfig, fact checker.UpdatesInfo) (audit.CheckResult, bool) {
	var want bool
	switch {
	case section.SecurityUpdatesOnly != nil:
		want = *section.SecurityUpdatesOnly
	case section.AutomaticSecurityInstall != nil:
		want = *section.AutomaticSecurityInstall
	default:
		return audit.CheckResult{}, false
	}
	r := boolResult(SettingSecurityUpdates, want, fact.AutomaticSecurityInstall)
	return r, true
}

func (e *Engine) evalSharingServices(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	section := cfg.SharingServices
	fact := e.checker.SharingServices(ctx)

	var results []audit.CheckResult
	if section.FileSharing != nil {
		results = append(results, boolResult(SettingFileSharing, *section.FileSharing, fact.FileSharing))
	}
	if section.ScreenSharing != nil {
		results = append(results, boolResult(SettingScreenSharing, *section.ScreenSharing, fact.ScreenSharing))
	}
	return results
}

func (e *Engine) evalOSVersion(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	target := cfg.OSVersion.TargetVersion
	if target == "latest" {
		target = e.resolver.Resolve(ctx, e.checker.Platform(ctx).OS)
	}
	current := e.checker.OSVersion(ctx)

	result := audit.CheckResult{
		Setting:  SettingOSVersion,
		Expected: ">= " + target,
		Actual:   current,
	}
	switch {
	case current == "":
		result.Actual = "unknown"
		result.Message = "unable to determine the current OS version"
	case CompareVersions(current, target) >= 0:
		result.Passed = true
		result.Message = fmt.Sprintf("OS version %s meets the minimum %s", current, target)
	default:
		result.Message = fmt.Sprintf("OS version %s is below the minimum %s", current, target)
	}
	return []audit.CheckResult{result}
}

func (e *Engine) evalWifiSecurity(ctx context.Context, cfg *config.SecurityConfig) []audit.CheckResult {
	banned := cfg.WifiSecurity.BannedNetworks
	fact := e.checker.CurrentWifiNetwork(ctx)

	result := audit.CheckResult{
		Setting:  SettingWifiNetworkSecurity,
		Expected: "not connected to a banned network",
	}
	switch {
	case !fact.Connected:
		result.Actual = "not connected"
		result.Passed = true
		result.Message = "not connected to any WiFi network"
	case len(banned) == 0:
		result.Actual = fact.Network
		result.Passed = true
		result.Message = fmt.Sprintf("connected to %q; no banned networks configured", fact.Network)
	default:
		result.Actual = fact.Network
		result.Passed = true
		for _, name := range banned {
			if name == fact.Network {
				result.Passed = false
				break
			}
		}
		if result.Passed {
			result.Message = fmt.Sprintf("connected to %q, which is not banned", fact.Network)
		} else {
			result.Message = fmt.Sprintf("connected to banned network %q", fact.Network)
		}
	}
	return []audit.CheckResult{result}
}
